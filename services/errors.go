package services

import (
	"errors"
	"fmt"
	"strings"

	"food-delivery/repositories"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrTeamMemberNotFound = errors.New("team member not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPassword    = errors.New("current password is incorrect")
	ErrReviewExists       = errors.New("you have already reviewed this product")
	ErrForbidden          = errors.New("not allowed to modify this resource")

	// ErrInvalidReference marks writes rejected because a referenced row does not exist.
	ErrInvalidReference = repositories.ErrInvalidReference
)

// MissingFieldsError reports absent required fields of a request body.
type MissingFieldsError struct {
	Required []string
	Missing  []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Missing, ", ")
}

// FieldError reports one invalid field. Field uses the JSON path, e.g. items[1].price.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}
