package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"food-delivery/models"
	"food-delivery/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTeam struct {
	nextID  int64
	members map[int64]*models.TeamMember
	err     error
}

func newMemoryTeam() *memoryTeam {
	return &memoryTeam{members: map[int64]*models.TeamMember{}}
}

func (m *memoryTeam) FindAll(ctx context.Context) ([]models.TeamMember, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []models.TeamMember{}
	for _, tm := range m.members {
		out = append(out, *tm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryTeam) FindByID(ctx context.Context, id int64) (*models.TeamMember, error) {
	tm, ok := m.members[id]
	if !ok {
		return nil, fmt.Errorf("get team member: %w", repositories.ErrNotFound)
	}
	out := *tm
	return &out, nil
}

func (m *memoryTeam) Create(ctx context.Context, tm *models.TeamMember) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	tm.ID = m.nextID
	tm.CreatedAt = time.Now()
	stored := *tm
	m.members[tm.ID] = &stored
	return nil
}

func (m *memoryTeam) Update(ctx context.Context, tm *models.TeamMember) error {
	stored, ok := m.members[tm.ID]
	if !ok {
		return fmt.Errorf("update team member: %w", repositories.ErrNotFound)
	}
	stored.Name, stored.Role, stored.Image = tm.Name, tm.Role, tm.Image
	return nil
}

func (m *memoryTeam) Delete(ctx context.Context, id int64) error {
	if _, ok := m.members[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.members, id)
	return nil
}

func TestTeamServiceCRUD(t *testing.T) {
	store := newMemoryTeam()
	svc := NewTeamService(store)
	ctx := context.Background()

	chef, err := svc.Create(ctx, models.TeamMemberRequest{Name: "Rina", Role: "Head Chef", Image: "rina.png"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), chef.ID)

	_, err = svc.Create(ctx, models.TeamMemberRequest{Name: "Dimas", Role: "Courier"})
	require.NoError(t, err)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Rina", all[0].Name)
	assert.Equal(t, "Courier", all[1].Role)

	updated, err := svc.Update(ctx, chef.ID, models.TeamMemberRequest{Name: "Rina", Role: "Owner", Image: "rina2.png"})
	require.NoError(t, err)
	assert.Equal(t, chef.ID, updated.ID)

	got, err := svc.GetByID(ctx, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, "Owner", got.Role)
	assert.Equal(t, "rina2.png", got.Image)

	require.NoError(t, svc.Delete(ctx, chef.ID))
	all, err = svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Dimas", all[0].Name)
}

func TestTeamServiceMissingMember(t *testing.T) {
	svc := NewTeamService(newMemoryTeam())
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 9)
	assert.ErrorIs(t, err, ErrTeamMemberNotFound)

	_, err = svc.Update(ctx, 9, models.TeamMemberRequest{Name: "Nobody", Role: "Ghost"})
	assert.ErrorIs(t, err, ErrTeamMemberNotFound)

	err = svc.Delete(ctx, 9)
	assert.ErrorIs(t, err, ErrTeamMemberNotFound)
}

func TestTeamServiceStoreFailure(t *testing.T) {
	store := newMemoryTeam()
	store.err = errors.New("connection refused")
	svc := NewTeamService(store)

	_, err := svc.GetAll(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	_, err = svc.Create(context.Background(), models.TeamMemberRequest{Name: "Ayu", Role: "Cashier"})
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, ErrTeamMemberNotFound)
}
