package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gomart/business/orders"
	"gomart/domain"
	"gomart/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		ClientToken(ctx context.Context) (string, error)
		Checkout(ctx context.Context, buyerID uint, productIDs []uint, nonce string) (domain.Order, error)
		ListOwnOrders(ctx context.Context, buyerID uint) ([]domain.Order, error)
		ListAllOrders(ctx context.Context) ([]domain.Order, error)
		UpdateStatus(ctx context.Context, orderID uint, status string) error
	}

	CheckoutRequest struct {
		Cart  []uint `json:"cart"`
		Nonce string `json:"nonce"`
	}

	UpdateStatusRequest struct {
		Status string `json:"status"`
	}
)

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		ordersService: ordersService,
		timeout:       30 * time.Second,
	}
}

// ClientToken hands the storefront a one-time gateway token for tokenizing
// payment details client-side.
func (h *OrdersHandler) ClientToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, err := h.ordersService.ClientToken(ctx)
	if err != nil {
		logger.Error("Failed to generate client token", err)
		return c.JSON(http.StatusBadGateway, ResponseError{Message: "payment gateway unavailable"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"client_token": token,
	}))
}

func (h *OrdersHandler) Checkout(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.Checkout(ctx, buyerID, req.Cart, req.Nonce)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyCart),
			errors.Is(err, orders.ErrNonceRequired),
			errors.Is(err, orders.ErrProductNotFound):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		case strings.Contains(err.Error(), "gateway"):
			// Gateway rejections are expected business outcomes; surface the
			// gateway's message without creating anything.
			return c.JSON(http.StatusPaymentRequired, ResponseError{Message: err.Error()})
		}
		logger.Error("Checkout failed", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "checkout failed"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(order))
}

func (h *OrdersHandler) GetMyOrders(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	ownOrders, err := h.ordersService.ListOwnOrders(ctx, buyerID)
	if err != nil {
		logger.Error("Failed to list own orders", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to list orders"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ownOrders))
}

func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	allOrders, err := h.ordersService.ListAllOrders(ctx)
	if err != nil {
		logger.Error("Failed to list all orders", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to list orders"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(allOrders))
}

func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	orderID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid order id"})
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ordersService.UpdateStatus(ctx, orderID, req.Status); err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		case errors.Is(err, orders.ErrUnknownStatus),
			errors.Is(err, orders.ErrTerminalStatus):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to update order status", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to update order status"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "order status updated",
	})
}
