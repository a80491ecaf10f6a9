package category

import (
	"context"
	"errors"

	"gomart/domain"
	"gomart/pkg/logger"

	goslug "github.com/gosimple/slug"
)

var (
	ErrNameRequired = errors.New("category name is required")
	ErrNotFound     = errors.New("category not found")
)

// CategoryRepository contract interface
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint) (domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	category := &domain.Category{
		Name: name,
		Slug: goslug.Make(name),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		logger.Error("Failed to create category", err)
		return nil, err
	}

	return category, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find categories", err)
		return nil, err
	}

	return categories, nil
}

func (s *categoryService) GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return domain.Category{}, ErrNotFound
	}

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, name string) (*domain.Category, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	category := &domain.Category{
		ID:   id,
		Name: name,
		Slug: goslug.Make(name),
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		logger.Error("Failed to update category", err)
		return nil, ErrNotFound
	}

	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete category", err)
		return ErrNotFound
	}

	return nil
}
