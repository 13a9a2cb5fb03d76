package repositories

import (
	"context"
	"fmt"
	"time"

	"food-delivery/models"
)

const userColumns = `id, COALESCE(username, ''), name, email, COALESCE(password, ''), phone, address, role, created_at, updated_at`

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.Address,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, name, email, password, phone, address, role, created_at, updated_at)
		VALUES (NULLIF($1, ''), $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Name,
		user.Email,
		user.Password,
		user.Phone,
		user.Address,
		user.Role,
		now,
		now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return storeError("insert user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, storeError("find user by email", err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR (username IS NOT NULL AND username = $2) LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email, username))
	if err != nil {
		return nil, storeError("find user", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError("find user by id", err)
	}
	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("query users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storeError("scan user", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate users", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = NULLIF($1, ''), phone = $2, address = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := r.db.Exec(ctx, query, user.Username, user.Phone, user.Address, time.Now(), user.ID)
	if err != nil {
		return storeError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user %d: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, hashedPassword, time.Now(), userID)
	if err != nil {
		return storeError("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update password %d: %w", userID, ErrNotFound)
	}
	return nil
}

// Ping runs a trivial arithmetic query to prove the store answers.
func (r *UserRepository) Ping(ctx context.Context) (int, error) {
	var solution int
	if err := r.db.QueryRow(ctx, "SELECT 1 + 1 AS solution").Scan(&solution); err != nil {
		return 0, storeError("ping database", err)
	}
	return solution, nil
}
