package models

// Category is a distinct menu_items.category value with the number of items filed under it.
type Category struct {
	Name  string `json:"name"`
	Items int    `json:"items"`
}
