package catalog

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"gomart/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindBySlug(ctx context.Context, slug string) (domain.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindPage(ctx context.Context, page, pageSize int) ([]domain.Product, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindFiltered(ctx context.Context, categoryIDs []uint, price *domain.PriceRange) ([]domain.Product, error) {
	args := m.Called(ctx, categoryIDs, price)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Search(ctx context.Context, keyword string) ([]domain.Product, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) FindRelated(ctx context.Context, excludeID, categoryID uint, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, excludeID, categoryID, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindByCategoryID(ctx context.Context, categoryID uint) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindPhoto(ctx context.Context, id uint) ([]byte, string, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product, withPhoto bool) error {
	args := m.Called(ctx, product, withPhoto)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id uint) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (domain.Category, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Category), args.Error(1)
}

func boolPtr(b bool) *bool { return &b }

func validInput(photoSize int) ProductInput {
	return ProductInput{
		Name:             "Mechanical Keyboard",
		Description:      "Tenkeyless, brown switches",
		Price:            89.99,
		Quantity:         10,
		CategoryID:       3,
		Shipping:         boolPtr(true),
		Photo:            bytes.Repeat([]byte{0xAB}, photoSize),
		PhotoContentType: "image/jpeg",
	}
}

func TestListProducts_NormalizesPage(t *testing.T) {
	productRepo := new(mockProductRepo)
	svc := NewCatalogService(productRepo, new(mockCategoryRepo), nil)

	productRepo.On("FindPage", mock.Anything, 1, DefaultPageSize).
		Return([]domain.Product{{ID: 1}}, nil)

	products, err := svc.ListProducts(context.Background(), 0, 0)

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	productRepo.AssertExpectations(t)
}

func TestFilterProducts_NoConstraintsPassesThrough(t *testing.T) {
	productRepo := new(mockProductRepo)
	svc := NewCatalogService(productRepo, new(mockCategoryRepo), nil)

	productRepo.On("FindFiltered", mock.Anything, []uint(nil), (*domain.PriceRange)(nil)).
		Return([]domain.Product{{ID: 1}, {ID: 2}}, nil)

	products, err := svc.FilterProducts(context.Background(), nil, nil)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	productRepo.AssertExpectations(t)
}

func TestRelatedProducts_ExcludesSelfAndCapsResult(t *testing.T) {
	productRepo := new(mockProductRepo)
	svc := NewCatalogService(productRepo, new(mockCategoryRepo), nil)

	productRepo.On("FindRelated", mock.Anything, uint(5), uint(3), RelatedLimit).
		Return([]domain.Product{{ID: 6}, {ID: 7}}, nil)

	products, err := svc.RelatedProducts(context.Background(), 5, 3)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	productRepo.AssertExpectations(t)
}

func TestCreateProduct_ValidationOrder(t *testing.T) {
	productRepo := new(mockProductRepo)
	categoryRepo := new(mockCategoryRepo)
	svc := NewCatalogService(productRepo, categoryRepo, nil)

	cases := []struct {
		name    string
		mutate  func(*ProductInput)
		wantErr error
	}{
		{"missing name", func(in *ProductInput) { in.Name = "" }, ErrNameRequired},
		{"missing description", func(in *ProductInput) { in.Description = "" }, ErrDescriptionRequired},
		{"zero price", func(in *ProductInput) { in.Price = 0 }, ErrPriceRequired},
		{"missing category", func(in *ProductInput) { in.CategoryID = 0 }, ErrCategoryRequired},
		{"zero quantity", func(in *ProductInput) { in.Quantity = 0 }, ErrQuantityRequired},
		{"missing shipping", func(in *ProductInput) { in.Shipping = nil }, ErrShippingRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(16)
			tc.mutate(&input)

			_, err := svc.CreateProduct(context.Background(), input)

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_PhotoBoundary(t *testing.T) {
	productRepo := new(mockProductRepo)
	categoryRepo := new(mockCategoryRepo)
	svc := NewCatalogService(productRepo, categoryRepo, nil)

	// One byte over the limit is rejected before any store call.
	over := validInput(domain.MaxPhotoBytes + 1)
	_, err := svc.CreateProduct(context.Background(), over)
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
	productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	// Exactly at the limit is accepted.
	categoryRepo.On("FindByID", mock.Anything, uint(3)).Return(domain.Category{ID: 3}, nil)
	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	exact := validInput(domain.MaxPhotoBytes)
	created, err := svc.CreateProduct(context.Background(), exact)

	assert.NoError(t, err)
	assert.Len(t, created.Photo, domain.MaxPhotoBytes)
	assert.Equal(t, "mechanical-keyboard", created.Slug)
	productRepo.AssertExpectations(t)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	productRepo := new(mockProductRepo)
	categoryRepo := new(mockCategoryRepo)
	svc := NewCatalogService(productRepo, categoryRepo, nil)

	categoryRepo.On("FindByID", mock.Anything, uint(3)).
		Return(domain.Category{}, errors.New("record not found"))

	_, err := svc.CreateProduct(context.Background(), validInput(16))

	assert.ErrorIs(t, err, ErrCategoryNotFound)
	productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetProductBySlug_NoCacheStillWorks(t *testing.T) {
	productRepo := new(mockProductRepo)
	svc := NewCatalogService(productRepo, new(mockCategoryRepo), nil)

	productRepo.On("FindBySlug", mock.Anything, "mechanical-keyboard").
		Return(domain.Product{ID: 5, Slug: "mechanical-keyboard"}, nil)

	product, err := svc.GetProductBySlug(context.Background(), "mechanical-keyboard")

	assert.NoError(t, err)
	assert.Equal(t, uint(5), product.ID)
}

func TestGetProductBySlug_NotFound(t *testing.T) {
	productRepo := new(mockProductRepo)
	svc := NewCatalogService(productRepo, new(mockCategoryRepo), nil)

	productRepo.On("FindBySlug", mock.Anything, "nope").
		Return(domain.Product{}, errors.New("record not found"))

	_, err := svc.GetProductBySlug(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPhoto_EmptyPayloadIsNotFound(t *testing.T) {
	productRepo := new(mockProductRepo)
	svc := NewCatalogService(productRepo, new(mockCategoryRepo), nil)

	productRepo.On("FindPhoto", mock.Anything, uint(5)).
		Return([]byte{}, "", nil)

	_, _, err := svc.GetPhoto(context.Background(), 5)

	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestGetPhoto_ReturnsBytesAndContentType(t *testing.T) {
	productRepo := new(mockProductRepo)
	svc := NewCatalogService(productRepo, new(mockCategoryRepo), nil)

	payload := []byte{0xFF, 0xD8, 0xFF}
	productRepo.On("FindPhoto", mock.Anything, uint(5)).
		Return(payload, "image/jpeg", nil)

	photo, contentType, err := svc.GetPhoto(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, payload, photo)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestDeleteProduct_IdempotentOnMissing(t *testing.T) {
	productRepo := new(mockProductRepo)
	svc := NewCatalogService(productRepo, new(mockCategoryRepo), nil)

	productRepo.On("FindByID", mock.Anything, uint(99)).
		Return(domain.Product{}, errors.New("record not found"))
	productRepo.On("Delete", mock.Anything, uint(99)).Return(nil)

	err := svc.DeleteProduct(context.Background(), 99)

	assert.NoError(t, err)
	productRepo.AssertExpectations(t)
}
