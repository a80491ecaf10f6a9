package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gomart/business/category"
	"gomart/domain"
	"gomart/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error)
	UpdateCategory(ctx context.Context, id uint, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	categoryService CategoryService
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		timeout:         10 * time.Second,
	}
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.categoryService.CreateCategory(ctx, req.Name)
	if err != nil {
		if errors.Is(err, category.ErrNameRequired) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to create category", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to create category"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories, err := h.categoryService.GetAllCategories(ctx)
	if err != nil {
		logger.Error("Failed to list categories", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to list categories"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(categories))
}

func (h *CategoryHandler) GetCategoryBySlug(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	found, err := h.categoryService.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to find category", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to find category"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category id"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.categoryService.UpdateCategory(ctx, categoryID, req.Name)
	if err != nil {
		if errors.Is(err, category.ErrNameRequired) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		if errors.Is(err, category.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to update category", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to update category"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.categoryService.DeleteCategory(ctx, categoryID); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to delete category", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to delete category"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "category deleted",
	})
}
