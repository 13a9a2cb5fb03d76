package repositories

import (
	"context"
	"fmt"
	"time"

	"food-delivery/models"
)

const menuItemColumns = `id, name, description, price, category, image_url, rating, created_at, updated_at`

type ProductRepository struct {
	db Querier
}

func NewProductRepository(db Querier) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanMenuItem(row interface{ Scan(...any) error }, p *models.MenuItem) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("query menu items", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var p models.MenuItem
		if err := scanMenuItem(rows, &p); err != nil {
			return nil, storeError("scan menu item", err)
		}
		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate menu items", err)
	}
	return items, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category, COUNT(*) FROM menu_items WHERE category <> '' GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, storeError("query categories", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Name, &c.Items); err != nil {
			return nil, storeError("scan category", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate categories", err)
	}
	return categories, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`

	var p models.MenuItem
	if err := scanMenuItem(r.db.QueryRow(ctx, query, id), &p); err != nil {
		return nil, storeError("get menu item", err)
	}
	return &p, nil
}

func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM menu_items WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, storeError("check menu item", err)
	}
	return exists, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (name, description, price, category, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, rating, created_at, updated_at
	`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, now, now,
	).Scan(&p.ID, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return storeError("insert menu item", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, image_url = $5, updated_at = $6
		WHERE id = $7
		RETURNING rating, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, time.Now(), p.ID,
	).Scan(&p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return storeError("update menu item", err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return storeError("delete menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete menu item %d: %w", id, ErrNotFound)
	}
	return nil
}
