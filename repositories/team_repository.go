package repositories

import (
	"context"
	"fmt"

	"food-delivery/models"
)

type TeamRepository struct {
	db Querier
}

func NewTeamRepository(db Querier) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) FindAll(ctx context.Context) ([]models.TeamMember, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, COALESCE(role, ''), COALESCE(image, ''), created_at FROM team ORDER BY id`)
	if err != nil {
		return nil, storeError("query team", err)
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Image, &m.CreatedAt); err != nil {
			return nil, storeError("scan team member", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate team", err)
	}
	return members, nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id int64) (*models.TeamMember, error) {
	var m models.TeamMember
	err := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(role, ''), COALESCE(image, ''), created_at FROM team WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Role, &m.Image, &m.CreatedAt)
	if err != nil {
		return nil, storeError("get team member", err)
	}
	return &m, nil
}

func (r *TeamRepository) Create(ctx context.Context, m *models.TeamMember) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO team (name, role, image) VALUES ($1, $2, $3) RETURNING id, created_at`,
		m.Name, m.Role, m.Image,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return storeError("insert team member", err)
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, m *models.TeamMember) error {
	err := r.db.QueryRow(ctx,
		`UPDATE team SET name = $1, role = $2, image = $3 WHERE id = $4 RETURNING created_at`,
		m.Name, m.Role, m.Image, m.ID,
	).Scan(&m.CreatedAt)
	if err != nil {
		return storeError("update team member", err)
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM team WHERE id = $1`, id)
	if err != nil {
		return storeError("delete team member", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete team member %d: %w", id, ErrNotFound)
	}
	return nil
}
