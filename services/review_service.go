package services

import (
	"context"
	"errors"
	"log/slog"

	"food-delivery/models"
	"food-delivery/repositories"
)

type ReviewStore interface {
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	Create(ctx context.Context, rv *models.Review) error
	FindByID(ctx context.Context, id int64) (*models.Review, error)
	FindByProduct(ctx context.Context, productID int64) ([]models.Review, error)
	Update(ctx context.Context, id int64, rating int, comment string) error
	Delete(ctx context.Context, id int64) error
	RefreshProductRating(ctx context.Context, productID int64) error
}

// Actor is the authenticated caller of a mutating request.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type ReviewService struct {
	reviews  ReviewStore
	products ProductStore
	cache    JSONCache
	logger   *slog.Logger
}

func NewReviewService(reviews ReviewStore, products ProductStore, cache JSONCache, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, cache: cache, logger: logger}
}

func (s *ReviewService) CreateReview(ctx context.Context, userID int64, req models.CreateReviewRequest) (*models.Review, error) {
	if err := s.requireProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	exists, err := s.reviews.Exists(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewExists
	}

	rv := &models.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	s.refreshRating(ctx, req.ProductID)
	return s.reviews.FindByID(ctx, rv.ID)
}

func (s *ReviewService) GetProductReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviews.FindByProduct(ctx, productID)
}

func (s *ReviewService) UpdateReview(ctx context.Context, actor Actor, id int64, req models.UpdateReviewRequest) (*models.Review, error) {
	rv, err := s.ownedReview(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Update(ctx, id, req.Rating, req.Comment); err != nil {
		return nil, err
	}

	s.refreshRating(ctx, rv.ProductID)
	return s.reviews.FindByID(ctx, id)
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, id int64) error {
	rv, err := s.ownedReview(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	s.refreshRating(ctx, rv.ProductID)
	return nil
}

func (s *ReviewService) ownedReview(ctx context.Context, actor Actor, id int64) (*models.Review, error) {
	rv, err := s.reviews.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	if rv.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return rv, nil
}

func (s *ReviewService) requireProduct(ctx context.Context, productID int64) error {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProductNotFound
	}
	return nil
}

// refreshRating recomputes the product average. The review change is already
// committed, so a failure here is logged rather than returned.
func (s *ReviewService) refreshRating(ctx context.Context, productID int64) {
	if err := s.reviews.RefreshProductRating(ctx, productID); err != nil {
		s.logger.Error("refresh product rating failed", "product_id", productID, "error", err)
		return
	}
	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, menuCacheKey+"*"); err != nil {
			s.logger.Warn("menu cache invalidation failed", "error", err)
		}
	}
}
