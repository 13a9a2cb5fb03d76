package services

import (
	"context"
	"errors"

	"food-delivery/models"
	"food-delivery/repositories"
)

type TeamStore interface {
	FindAll(ctx context.Context) ([]models.TeamMember, error)
	FindByID(ctx context.Context, id int64) (*models.TeamMember, error)
	Create(ctx context.Context, m *models.TeamMember) error
	Update(ctx context.Context, m *models.TeamMember) error
	Delete(ctx context.Context, id int64) error
}

type TeamService struct {
	teamRepo TeamStore
}

func NewTeamService(teamRepo TeamStore) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

func (s *TeamService) GetAll(ctx context.Context) ([]models.TeamMember, error) {
	return s.teamRepo.FindAll(ctx)
}

func (s *TeamService) GetByID(ctx context.Context, id int64) (*models.TeamMember, error) {
	m, err := s.teamRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrTeamMemberNotFound
	}
	return m, err
}

func (s *TeamService) Create(ctx context.Context, req models.TeamMemberRequest) (*models.TeamMember, error) {
	m := &models.TeamMember{Name: req.Name, Role: req.Role, Image: req.Image}
	if err := s.teamRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TeamService) Update(ctx context.Context, id int64, req models.TeamMemberRequest) (*models.TeamMember, error) {
	m := &models.TeamMember{ID: id, Name: req.Name, Role: req.Role, Image: req.Image}
	if err := s.teamRepo.Update(ctx, m); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *TeamService) Delete(ctx context.Context, id int64) error {
	err := s.teamRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrTeamMemberNotFound
	}
	return err
}
