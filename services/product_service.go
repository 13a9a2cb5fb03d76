package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"food-delivery/models"
	"food-delivery/repositories"
)

const menuCacheKey = "menu_items_list"

type ProductStore interface {
	GetAll(ctx context.Context) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id int64) (*models.MenuItem, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, p *models.MenuItem) error
	Update(ctx context.Context, p *models.MenuItem) error
	Delete(ctx context.Context, id int64) error
}

type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	DeletePattern(ctx context.Context, pattern string) error
}

type ProductService struct {
	productRepo ProductStore
	cache       JSONCache
	logger      *slog.Logger
}

func NewProductService(productRepo ProductStore, cache JSONCache, logger *slog.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, cache: cache, logger: logger}
}

// GetAllProducts reads the menu through the cache. Cache failures fall back to the database.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.MenuItem, error) {
	if s.cache != nil {
		var cached []models.MenuItem
		found, err := s.cache.GetJSON(ctx, menuCacheKey, &cached)
		if err != nil {
			s.logger.Warn("menu cache read failed", "error", err)
		}
		if found {
			return cached, nil
		}
	}

	items, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, menuCacheKey, items); err != nil {
			s.logger.Warn("menu cache write failed", "error", err)
		}
	}
	return items, nil
}

func (s *ProductService) GetCategories(ctx context.Context) ([]models.Category, error) {
	key := menuCacheKey + ":categories"
	if s.cache != nil {
		var cached []models.Category
		if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, categories); err != nil {
			s.logger.Warn("category cache write failed", "error", err)
		}
	}
	return categories, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.MenuItem, error) {
	if err := checkPrice(req); err != nil {
		return nil, err
	}

	p := &models.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return p, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req models.ProductRequest) (*models.MenuItem, error) {
	if err := checkPrice(req); err != nil {
		return nil, err
	}

	p := &models.MenuItem{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.invalidate(ctx)
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, menuCacheKey+"*"); err != nil {
		s.logger.Warn("menu cache invalidation failed", "error", err)
	}
}

func checkPrice(req models.ProductRequest) error {
	if req.Price.IsNegative() {
		return &FieldError{Field: "price", Message: "must be greater than or equal to 0"}
	}
	return nil
}
