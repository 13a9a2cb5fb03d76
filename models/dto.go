package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Address  string `json:"address" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=100"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Address  string `json:"address"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// SignupRequest is the password-less customer record created by the ordering page.
type SignupRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateOrderItemRequest keeps optional fields as pointers so that "absent" can be told
// apart from zero when deciding whether to default or reject.
type CreateOrderItemRequest struct {
	MenuItemID *int64           `json:"menu_item_id" validate:"required,gt=0"`
	Quantity   int              `json:"quantity" validate:"gt=0,lte=2147483647"`
	Price      *decimal.Decimal `json:"price" validate:"required,gte=0"`
}

type CreateOrderRequest struct {
	UserID          int64                    `json:"user_id"`
	Items           []CreateOrderItemRequest `json:"items"`
	TotalAmount     *decimal.Decimal         `json:"total_amount"`
	DeliveryAddress string                   `json:"delivery_address"`
}

type ProductRequest struct {
	Name        string          `json:"name" binding:"required,max=150"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" binding:"max=100"`
	ImageURL    string          `json:"imageUrl"`
}

type CreateReviewRequest struct {
	ProductID int64  `json:"product_id" binding:"required,gt=0"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type TeamMemberRequest struct {
	Name  string `json:"name" binding:"required,max=150"`
	Role  string `json:"role" binding:"max=100"`
	Image string `json:"image"`
}
