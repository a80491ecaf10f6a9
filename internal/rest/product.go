package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"gomart/business/catalog"
	"gomart/domain"
	"gomart/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	ListProducts(ctx context.Context, page, pageSize int) ([]domain.Product, error)
	FilterProducts(ctx context.Context, categoryIDs []uint, price *domain.PriceRange) ([]domain.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	RelatedProducts(ctx context.Context, productID, categoryID uint) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetProductsByCategorySlug(ctx context.Context, slug string) ([]domain.Product, domain.Category, error)
	GetPhoto(ctx context.Context, productID uint) ([]byte, string, error)
	CreateProduct(ctx context.Context, input catalog.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, input catalog.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type ProductHandler struct {
	catalogService CatalogService
	timeout        time.Duration
}

func NewProductHandler(catalogService CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		timeout:        10 * time.Second,
	}
}

type FilterProductsRequest struct {
	CategoryIDs []uint    `json:"category_ids"`
	PriceRange  []float64 `json:"price_range"`
}

// GetProducts serves the general listing: newest first, twelve per page.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid page"})
		}
		page = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.catalogService.ListProducts(ctx, page, catalog.ListPageSize)
	if err != nil {
		logger.Error("Failed to list products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to list products"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

// GetProductPage serves the paginated storefront list, six per page.
func (h *ProductHandler) GetProductPage(c echo.Context) error {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid page"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.catalogService.ListProducts(ctx, page, catalog.DefaultPageSize)
	if err != nil {
		logger.Error("Failed to list product page", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to list products"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) FilterProducts(c echo.Context) error {
	var req FilterProductsRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var price *domain.PriceRange
	if len(req.PriceRange) == 2 {
		price = &domain.PriceRange{Min: req.PriceRange[0], Max: req.PriceRange[1]}
	} else if len(req.PriceRange) != 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "price_range must be [min, max]"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.catalogService.FilterProducts(ctx, req.CategoryIDs, price)
	if err != nil {
		logger.Error("Failed to filter products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to filter products"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	keyword := c.Param("keyword")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.catalogService.SearchProducts(ctx, keyword)
	if err != nil {
		logger.Error("Failed to search products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to search products"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) CountProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	total, err := h.catalogService.CountProducts(ctx)
	if err != nil {
		logger.Error("Failed to count products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to count products"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{"total": total}))
}

func (h *ProductHandler) RelatedProducts(c echo.Context) error {
	productID, err := parseUintParam(c, "pid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}
	categoryID, err := parseUintParam(c, "cid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.catalogService.RelatedProducts(ctx, productID, categoryID)
	if err != nil {
		logger.Error("Failed to find related products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to find related products"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) GetProductBySlug(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.catalogService.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to find product by slug", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to find product"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

func (h *ProductHandler) GetProductsByCategorySlug(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, cat, err := h.catalogService.GetProductsByCategorySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to find products by category slug", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to find products"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"category": cat,
		"products": products,
	}))
}

// GetPhoto streams the stored photo bytes with the stored content type.
func (h *ProductHandler) GetPhoto(c echo.Context) error {
	productID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	photo, contentType, err := h.catalogService.GetPhoto(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get product photo", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to get photo"})
	}

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	return c.Blob(http.StatusOK, contentType, photo)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	input, err := h.bindProductForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.catalogService.CreateProduct(ctx, input)
	if err != nil {
		return h.writeProductError(c, err, "Failed to create product")
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(product))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	input, err := h.bindProductForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.catalogService.UpdateProduct(ctx, productID, input)
	if err != nil {
		return h.writeProductError(c, err, "Failed to update product")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.catalogService.DeleteProduct(ctx, productID); err != nil {
		logger.Error("Failed to delete product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to delete product"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "product deleted",
		"product_id": productID,
	})
}

// bindProductForm reads the multipart fields shared by create and update.
// Product writes are multipart rather than JSON because of the binary photo.
func (h *ProductHandler) bindProductForm(c echo.Context) (catalog.ProductInput, error) {
	input := catalog.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}

	if raw := c.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return catalog.ProductInput{}, errors.New("invalid price")
		}
		input.Price = price
	}

	if raw := c.FormValue("quantity"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.ProductInput{}, errors.New("invalid quantity")
		}
		input.Quantity = quantity
	}

	if raw := c.FormValue("category_id"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return catalog.ProductInput{}, errors.New("invalid category id")
		}
		input.CategoryID = uint(categoryID)
	}

	// An absent shipping field must stay distinguishable from "false".
	if raw := c.FormValue("shipping"); raw != "" {
		shipping, err := strconv.ParseBool(raw)
		if err != nil {
			return catalog.ProductInput{}, errors.New("invalid shipping flag")
		}
		input.Shipping = &shipping
	}

	fileHeader, err := c.FormFile("photo")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return catalog.ProductInput{}, errors.New("failed to read photo")
		}
		defer file.Close()

		photo, err := io.ReadAll(file)
		if err != nil {
			return catalog.ProductInput{}, errors.New("failed to read photo")
		}

		input.Photo = photo
		input.PhotoContentType = fileHeader.Header.Get("Content-Type")
	}

	return input, nil
}

func (h *ProductHandler) writeProductError(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, catalog.ErrPhotoTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, ResponseError{Message: err.Error()})
	case errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrDescriptionRequired),
		errors.Is(err, catalog.ErrPriceRequired),
		errors.Is(err, catalog.ErrCategoryRequired),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrQuantityRequired),
		errors.Is(err, catalog.ErrShippingRequired):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Error(logMsg, err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: "internal error"})
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	parsed, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}

	return uint(parsed), nil
}
