package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// APIError is the body used by the /api order and listing endpoints.
type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MissingFieldsResponse struct {
	Error    string   `json:"error"`
	Required []string `json:"required"`
	Missing  []string `json:"missing"`
	Received []string `json:"received"`
}

type FieldErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field"`
	Details string `json:"details"`
}

type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type OrderCreatedResponse struct {
	ID          int64  `json:"id"`
	Message     string `json:"message"`
	TotalAmount string `json:"total_amount"`
}

type ReviewListResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Reviews []Review `json:"reviews"`
}
