package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	IdempotencyKey  string          `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	MenuItemID int64           `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// UserOrderRow is one line of a user's order history, denormalized with the menu item name.
type UserOrderRow struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	CreatedAt       time.Time       `json:"created_at"`
	MenuItemID      int64           `json:"menu_item_id"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	ItemName        string          `json:"item_name"`
}

// OrderResult is what the order transaction hands back to its caller.
type OrderResult struct {
	Order    *Order
	Replayed bool
}

// HistoryFilter narrows and pages a buyer's order history. A zero From or To
// leaves that side of the range open.
type HistoryFilter struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type HistoryResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Data       []Order    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// OrderCreatedEvent is the message published after an order commits.
type OrderCreatedEvent struct {
	OrderID         int64            `json:"order_id"`
	UserID          int64            `json:"user_id"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	DeliveryAddress string           `json:"delivery_address"`
	CreatedAt       time.Time        `json:"created_at"`
	Items           []OrderItemEvent `json:"items"`
}

type OrderItemEvent struct {
	MenuItemID int64           `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

func NewOrderCreatedEvent(order *Order) OrderCreatedEvent {
	event := OrderCreatedEvent{
		OrderID:         order.ID,
		UserID:          order.UserID,
		TotalAmount:     order.TotalAmount,
		DeliveryAddress: order.DeliveryAddress,
		CreatedAt:       order.CreatedAt,
		Items:           make([]OrderItemEvent, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, OrderItemEvent{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}
	return event
}
