package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"food-delivery/models"
	"food-delivery/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryReviews struct {
	nextID    int64
	reviews   map[int64]*models.Review
	refreshed []int64
}

func newMemoryReviews() *memoryReviews {
	return &memoryReviews{reviews: map[int64]*models.Review{}}
}

func (m *memoryReviews) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	for _, rv := range m.reviews {
		if rv.UserID == userID && rv.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryReviews) Create(ctx context.Context, rv *models.Review) error {
	m.nextID++
	rv.ID = m.nextID
	rv.CreatedAt = time.Now()
	stored := *rv
	m.reviews[rv.ID] = &stored
	return nil
}

func (m *memoryReviews) FindByID(ctx context.Context, id int64) (*models.Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return nil, fmt.Errorf("get review: %w", repositories.ErrNotFound)
	}
	out := *rv
	return &out, nil
}

func (m *memoryReviews) FindByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	out := []models.Review{}
	for _, rv := range m.reviews {
		if rv.ProductID == productID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (m *memoryReviews) Update(ctx context.Context, id int64, rating int, comment string) error {
	rv, ok := m.reviews[id]
	if !ok {
		return repositories.ErrNotFound
	}
	rv.Rating, rv.Comment = rating, comment
	return nil
}

func (m *memoryReviews) Delete(ctx context.Context, id int64) error {
	if _, ok := m.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *memoryReviews) RefreshProductRating(ctx context.Context, productID int64) error {
	m.refreshed = append(m.refreshed, productID)
	return nil
}

type knownProducts map[int64]bool

func (k knownProducts) GetAll(ctx context.Context) ([]models.MenuItem, error) { return nil, nil }
func (k knownProducts) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	if !k[id] {
		return nil, repositories.ErrNotFound
	}
	return &models.MenuItem{ID: id}, nil
}
func (k knownProducts) Categories(ctx context.Context) ([]models.Category, error) { return nil, nil }
func (k knownProducts) Exists(ctx context.Context, id int64) (bool, error) { return k[id], nil }
func (k knownProducts) Create(ctx context.Context, p *models.MenuItem) error  { return nil }
func (k knownProducts) Update(ctx context.Context, p *models.MenuItem) error  { return nil }
func (k knownProducts) Delete(ctx context.Context, id int64) error            { return nil }

func newReviewService(reviews *memoryReviews) *ReviewService {
	return NewReviewService(reviews, knownProducts{1: true, 2: true}, nil, discardLogger())
}

func TestCreateReview(t *testing.T) {
	reviews := newMemoryReviews()
	svc := newReviewService(reviews)
	ctx := context.Background()

	rv, err := svc.CreateReview(ctx, 10, models.CreateReviewRequest{ProductID: 1, Rating: 4, Comment: "good"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), rv.UserID)
	assert.Equal(t, []int64{1}, reviews.refreshed)

	_, err = svc.CreateReview(ctx, 10, models.CreateReviewRequest{ProductID: 1, Rating: 5})
	assert.ErrorIs(t, err, ErrReviewExists)

	_, err = svc.CreateReview(ctx, 10, models.CreateReviewRequest{ProductID: 99, Rating: 5})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.CreateReview(ctx, 11, models.CreateReviewRequest{ProductID: 1, Rating: 2})
	require.NoError(t, err)

	list, err := svc.GetProductReviews(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.GetProductReviews(ctx, 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewOwnership(t *testing.T) {
	reviews := newMemoryReviews()
	svc := newReviewService(reviews)
	ctx := context.Background()

	rv, err := svc.CreateReview(ctx, 10, models.CreateReviewRequest{ProductID: 2, Rating: 3})
	require.NoError(t, err)

	stranger := Actor{UserID: 11, Role: models.RoleCustomer}
	_, err = svc.UpdateReview(ctx, stranger, rv.ID, models.UpdateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteReview(ctx, stranger, rv.ID), ErrForbidden)

	owner := Actor{UserID: 10, Role: models.RoleCustomer}
	updated, err := svc.UpdateReview(ctx, owner, rv.ID, models.UpdateReviewRequest{Rating: 5, Comment: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	admin := Actor{UserID: 1, Role: models.RoleAdmin}
	require.NoError(t, svc.DeleteReview(ctx, admin, rv.ID))
	assert.ErrorIs(t, svc.DeleteReview(ctx, admin, rv.ID), ErrReviewNotFound)

	assert.Equal(t, []int64{2, 2, 2}, reviews.refreshed)
}
