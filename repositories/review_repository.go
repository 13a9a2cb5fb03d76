package repositories

import (
	"context"
	"fmt"

	"food-delivery/models"
)

const selectReviewSQL = `
	SELECT r.id, r.user_id, r.product_id, r.rating, COALESCE(r.comment, ''), r.created_at,
		COALESCE(u.username, u.name), u.email
	FROM reviews r
	JOIN users u ON r.user_id = u.id`

type ReviewRepository struct {
	db Querier
}

func NewReviewRepository(db Querier) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func scanReview(row interface{ Scan(...any) error }, rv *models.Review) error {
	return row.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.Username, &rv.Email)
}

func (r *ReviewRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, storeError("check review", err)
	}
	return exists, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	query := `
		INSERT INTO reviews (user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, rv.UserID, rv.ProductID, rv.Rating, rv.Comment).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return storeError("insert review", err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*models.Review, error) {
	var rv models.Review
	if err := scanReview(r.db.QueryRow(ctx, selectReviewSQL+` WHERE r.id = $1`, id), &rv); err != nil {
		return nil, storeError("get review", err)
	}
	return &rv, nil
}

func (r *ReviewRepository) FindByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	rows, err := r.db.Query(ctx, selectReviewSQL+` WHERE r.product_id = $1 ORDER BY r.created_at DESC, r.id DESC`, productID)
	if err != nil {
		return nil, storeError("query reviews", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, storeError("scan review", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate reviews", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id int64, rating int, comment string) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET rating = $1, comment = $2 WHERE id = $3`, rating, comment, id)
	if err != nil {
		return storeError("update review", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update review %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return storeError("delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete review %d: %w", id, ErrNotFound)
	}
	return nil
}

// RefreshProductRating sets the product rating to the average of its reviews, or 0 without any.
func (r *ReviewRepository) RefreshProductRating(ctx context.Context, productID int64) error {
	query := `
		UPDATE menu_items
		SET rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE product_id = $1), 0)
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, productID); err != nil {
		return storeError("refresh product rating", err)
	}
	return nil
}
