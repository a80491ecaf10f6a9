package catalog

import (
	"context"
	"errors"

	"gomart/domain"
	"gomart/pkg/logger"

	goslug "github.com/gosimple/slug"
)

const (
	// DefaultPageSize applies to the paginated page/:page endpoint.
	DefaultPageSize = 6
	// ListPageSize applies to the general listing endpoint.
	ListPageSize = 12
	// RelatedLimit caps the related-products result.
	RelatedLimit = 3
)

var (
	ErrNameRequired        = errors.New("name is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrPriceRequired       = errors.New("price must be greater than 0")
	ErrCategoryRequired    = errors.New("category is required")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrQuantityRequired    = errors.New("quantity must be greater than 0")
	ErrShippingRequired    = errors.New("shipping is required")
	ErrPhotoTooLarge       = errors.New("photo must be 1MB or less")
	ErrNotFound            = errors.New("product not found")
	ErrPhotoNotFound       = errors.New("photo not found")
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (domain.Product, error)
	FindPage(ctx context.Context, page, pageSize int) ([]domain.Product, error)
	FindFiltered(ctx context.Context, categoryIDs []uint, price *domain.PriceRange) ([]domain.Product, error)
	Search(ctx context.Context, keyword string) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
	FindRelated(ctx context.Context, excludeID, categoryID uint, limit int) ([]domain.Product, error)
	FindByCategoryID(ctx context.Context, categoryID uint) ([]domain.Product, error)
	FindPhoto(ctx context.Context, id uint) ([]byte, string, error)
	Update(ctx context.Context, product *domain.Product, withPhoto bool) error
	Delete(ctx context.Context, id uint) error
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (domain.Category, error)
}

// ProductCache is the optional read-through cache for slug lookups. A nil
// cache disables caching entirely.
type ProductCache interface {
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	Invalidate(ctx context.Context, slug string) error
}

// ProductInput is the write-side payload for create and update. Shipping is a
// pointer so an absent flag is distinguishable from false.
type ProductInput struct {
	Name             string
	Description      string
	Price            float64
	Quantity         int
	CategoryID       uint
	Shipping         *bool
	Photo            []byte
	PhotoContentType string
}

type catalogService struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	cache        ProductCache
}

func NewCatalogService(productRepo ProductRepository, categoryRepo CategoryRepository, cache ProductCache) *catalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// ListProducts returns one page of the catalog, newest first, photos
// excluded. A non-positive page is treated as the first.
func (s *catalogService) ListProducts(ctx context.Context, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	products, err := s.productRepo.FindPage(ctx, page, pageSize)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	return products, nil
}

// FilterProducts composes the category and price constraints with AND; with
// neither given the result equals the unconstrained listing.
func (s *catalogService) FilterProducts(ctx context.Context, categoryIDs []uint, price *domain.PriceRange) ([]domain.Product, error) {
	products, err := s.productRepo.FindFiltered(ctx, categoryIDs, price)
	if err != nil {
		logger.Error("Failed to filter products", err)
		return nil, err
	}

	return products, nil
}

func (s *catalogService) SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error) {
	products, err := s.productRepo.Search(ctx, keyword)
	if err != nil {
		logger.Error("Failed to search products", err)
		return nil, err
	}

	return products, nil
}

func (s *catalogService) CountProducts(ctx context.Context) (int64, error) {
	total, err := s.productRepo.Count(ctx)
	if err != nil {
		logger.Error("Failed to count products", err)
		return 0, err
	}

	return total, nil
}

// RelatedProducts lists up to RelatedLimit products sharing the category,
// never including the product itself.
func (s *catalogService) RelatedProducts(ctx context.Context, productID, categoryID uint) ([]domain.Product, error) {
	products, err := s.productRepo.FindRelated(ctx, productID, categoryID, RelatedLimit)
	if err != nil {
		logger.Error("Failed to find related products", err)
		return nil, err
	}

	return products, nil
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProduct(ctx, slug); err == nil {
			return cached, nil
		}
	}

	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, &product); err != nil {
			logger.Warn("Failed to cache product", err)
		}
	}

	return &product, nil
}

func (s *catalogService) GetProductsByCategorySlug(ctx context.Context, slug string) ([]domain.Product, domain.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, domain.Category{}, ErrCategoryNotFound
	}

	products, err := s.productRepo.FindByCategoryID(ctx, category.ID)
	if err != nil {
		logger.Error("Failed to find products by category", err)
		return nil, domain.Category{}, err
	}

	return products, category, nil
}

// GetPhoto returns the raw photo payload and its content type for direct
// byte-stream responses.
func (s *catalogService) GetPhoto(ctx context.Context, productID uint) ([]byte, string, error) {
	photo, contentType, err := s.productRepo.FindPhoto(ctx, productID)
	if err != nil {
		return nil, "", ErrNotFound
	}

	if len(photo) == 0 {
		return nil, "", ErrPhotoNotFound
	}

	return photo, contentType, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:             input.Name,
		Slug:             goslug.Make(input.Name),
		Description:      input.Description,
		Price:            input.Price,
		Quantity:         input.Quantity,
		CategoryID:       input.CategoryID,
		Shipping:         *input.Shipping,
		Photo:            input.Photo,
		PhotoContentType: input.PhotoContentType,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("Failed to create product", err)
		return nil, err
	}

	logger.Info("Product created", "product_id", product.ID, "slug", product.Slug)
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*domain.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:               id,
		Name:             input.Name,
		Slug:             goslug.Make(input.Name),
		Description:      input.Description,
		Price:            input.Price,
		Quantity:         input.Quantity,
		CategoryID:       input.CategoryID,
		Shipping:         *input.Shipping,
		Photo:            input.Photo,
		PhotoContentType: input.PhotoContentType,
	}

	if err := s.productRepo.Update(ctx, product, len(input.Photo) > 0); err != nil {
		logger.Error("Failed to update product", err)
		return nil, err
	}

	s.invalidate(ctx, existing.Slug, product.Slug)

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to fetch updated product", err)
		return nil, err
	}

	return &updated, nil
}

// DeleteProduct is idempotent: deleting an id that resolves to nothing still
// reports success.
func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	if existing, err := s.productRepo.FindByID(ctx, id); err == nil {
		s.invalidate(ctx, existing.Slug)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete product", err)
		return err
	}

	return nil
}

// validateInput checks the required fields in a fixed order so each missing
// field yields its own named error.
func (s *catalogService) validateInput(ctx context.Context, input ProductInput) error {
	if input.Name == "" {
		return ErrNameRequired
	}
	if input.Description == "" {
		return ErrDescriptionRequired
	}
	if input.Price <= 0 {
		return ErrPriceRequired
	}
	if input.CategoryID == 0 {
		return ErrCategoryRequired
	}
	if input.Quantity <= 0 {
		return ErrQuantityRequired
	}
	if input.Shipping == nil {
		return ErrShippingRequired
	}

	if len(input.Photo) > domain.MaxPhotoBytes {
		return ErrPhotoTooLarge
	}

	// The referenced category must exist at write time.
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return ErrCategoryNotFound
	}

	return nil
}

func (s *catalogService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}

	seen := make(map[string]struct{}, len(slugs))
	for _, sl := range slugs {
		if _, ok := seen[sl]; ok || sl == "" {
			continue
		}
		seen[sl] = struct{}{}

		if err := s.cache.Invalidate(ctx, sl); err != nil {
			logger.Warn("Failed to invalidate cached product", err)
		}
	}
}
