package postgres

import (
	"context"
	"errors"
	"fmt"

	"gomart/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

// withoutPhoto keeps the binary payload out of listing projections; photo
// bytes are only ever read through FindPhoto.
func withoutPhoto(db *gorm.DB) *gorm.DB {
	return db.Omit("photo")
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	var product domain.Product

	err := r.DB.WithContext(ctx).Scopes(withoutPhoto).Preload("Category").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, errors.New("product not found")
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var product domain.Product

	err := r.DB.WithContext(ctx).Scopes(withoutPhoto).Preload("Category").
		Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, errors.New("product not found")
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// FindPage returns one page of products, newest first.
func (r *ProductRepository) FindPage(ctx context.Context, page, pageSize int) ([]domain.Product, error) {
	var products []domain.Product

	err := r.DB.WithContext(ctx).Scopes(withoutPhoto).Preload("Category").
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

// FindFiltered composes the category and price constraints with AND; either
// may be absent, and with both absent the query is unconstrained.
func (r *ProductRepository) FindFiltered(ctx context.Context, categoryIDs []uint, price *domain.PriceRange) ([]domain.Product, error) {
	var products []domain.Product

	query := r.DB.WithContext(ctx).Scopes(withoutPhoto).Preload("Category")
	if len(categoryIDs) > 0 {
		query = query.Where("category_id IN ?", categoryIDs)
	}
	if price != nil {
		query = query.Where("price BETWEEN ? AND ?", price.Min, price.Max)
	}

	if err := query.Order("created_at desc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Search(ctx context.Context, keyword string) ([]domain.Product, error) {
	var products []domain.Product

	pattern := "%" + keyword + "%"
	err := r.DB.WithContext(ctx).Scopes(withoutPhoto).Preload("Category").
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64

	if err := r.DB.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

// FindRelated returns up to limit products sharing the category, never
// including the product identified by excludeID.
func (r *ProductRepository) FindRelated(ctx context.Context, excludeID, categoryID uint, limit int) ([]domain.Product, error) {
	var products []domain.Product

	err := r.DB.WithContext(ctx).Scopes(withoutPhoto).Preload("Category").
		Where("category_id = ?", categoryID).
		Where("id <> ?", excludeID).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindByCategoryID(ctx context.Context, categoryID uint) ([]domain.Product, error) {
	var products []domain.Product

	err := r.DB.WithContext(ctx).Scopes(withoutPhoto).Preload("Category").
		Where("category_id = ?", categoryID).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products by category: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindPhoto(ctx context.Context, id uint) ([]byte, string, error) {
	var product domain.Product

	err := r.DB.WithContext(ctx).Select("photo", "photo_content_type").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.New("product not found")
		}
		return nil, "", fmt.Errorf("failed to find product photo: %w", err)
	}

	return product.Photo, product.PhotoContentType, nil
}

// Update overwrites the catalog fields; the photo columns are only touched
// when withPhoto is set, so metadata updates never clobber stored bytes.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product, withPhoto bool) error {
	updateData := map[string]interface{}{
		"name":        product.Name,
		"slug":        product.Slug,
		"description": product.Description,
		"price":       product.Price,
		"quantity":    product.Quantity,
		"category_id": product.CategoryID,
		"shipping":    product.Shipping,
	}
	if withPhoto {
		updateData["photo"] = product.Photo
		updateData["photo_content_type"] = product.PhotoContentType
	}

	result := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", product.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("product not found")
	}

	return nil
}

// Delete is idempotent: deleting a missing product is not an error.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	if err := r.DB.WithContext(ctx).Delete(&domain.Product{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
