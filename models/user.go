package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
