package services

import (
	"context"
	"errors"
	"strings"

	"food-delivery/models"
	"food-delivery/repositories"
)

var signupRequiredFields = []string{"name", "email", "phone", "address"}

type UserService struct {
	userRepo UserStore
}

func NewUserService(userRepo UserStore) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}

// Signup records a customer without credentials. When the email is already
// known the existing id is returned and created is false.
func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (id int64, created bool, err error) {
	missing := []string{}
	for _, f := range []struct{ name, value string }{
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
		{"address", req.Address},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return 0, false, &MissingFieldsError{Required: signupRequiredFields, Missing: missing}
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return 0, false, err
	}

	user := &models.User{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Role:    models.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// Lost a race with a concurrent signup for the same email.
			if existing, findErr := s.userRepo.FindByEmail(ctx, req.Email); findErr == nil {
				return existing.ID, false, nil
			}
		}
		return 0, false, err
	}

	return user.ID, true, nil
}
