package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"food-delivery/models"
	"food-delivery/repositories"
	"food-delivery/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	nextID int64
	users  map[int64]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[int64]*models.User{}}
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("insert user: %w", repositories.ErrDuplicate)
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memoryUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memoryUsers) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email || (u.Username != "" && u.Username == username) {
			out := *u
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memoryUsers) FindAll(ctx context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memoryUsers) UpdateProfile(ctx context.Context, user *models.User) error {
	u, ok := m.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Username, u.Phone, u.Address = user.Username, user.Phone, user.Address
	return nil
}

func (m *memoryUsers) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	u, ok := m.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = hashedPassword
	return nil
}

func TestAuthRegisterAndLogin(t *testing.T) {
	users := newMemoryUsers()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService(users, tokens)
	ctx := context.Background()

	registered, err := svc.Register(ctx, models.RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "s3cret!",
		Phone:    "555-0100",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.RoleCustomer, registered.User.Role)
	assert.NotEqual(t, "s3cret!", users.users[registered.User.ID].Password)

	claims, err := tokens.ValidateToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	_, err = svc.Register(ctx, models.RegisterRequest{Username: "other", Email: "ana@example.com", Password: "x12345"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = svc.Register(ctx, models.RegisterRequest{Username: "ana", Email: "new@example.com", Password: "x12345"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	loggedIn, err := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthChangePassword(t *testing.T) {
	users := newMemoryUsers()
	svc := NewAuthService(users, utils.NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	registered, err := svc.Register(ctx, models.RegisterRequest{Username: "ben", Email: "ben@example.com", Password: "old-pass"})
	require.NoError(t, err)
	id := registered.User.ID

	err = svc.ChangePassword(ctx, id, models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-pass"})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	require.NoError(t, svc.ChangePassword(ctx, id, models.ChangePasswordRequest{CurrentPassword: "old-pass", NewPassword: "new-pass"}))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ben@example.com", Password: "new-pass"})
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, 999, models.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "y12345"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPasswordlessSignupCannotLogin(t *testing.T) {
	users := newMemoryUsers()
	signup := NewUserService(users)
	auth := NewAuthService(users, utils.NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	id, created, err := signup.Signup(ctx, models.SignupRequest{Name: "Cy", Email: "cy@example.com", Phone: "1", Address: "2 Oak"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := signup.Signup(ctx, models.SignupRequest{Name: "Cy", Email: "cy@example.com", Phone: "1", Address: "2 Oak"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	_, err = auth.Login(ctx, models.LoginRequest{Email: "cy@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = signup.Signup(ctx, models.SignupRequest{Name: "Dee", Phone: "1"})
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"email", "address"}, missing.Missing)
}
