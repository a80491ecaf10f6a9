package orders

import (
	"context"
	"errors"
	"fmt"

	"gomart/domain"
	"gomart/pkg/logger"
	"gomart/pkg/metrics"
)

var (
	ErrEmptyCart       = errors.New("cart must contain at least one product")
	ErrNonceRequired   = errors.New("payment nonce is required")
	ErrProductNotFound = errors.New("product not found")
	ErrNotFound        = errors.New("order not found")
	ErrUnknownStatus   = errors.New("unknown order status")
	ErrTerminalStatus  = errors.New("order status can no longer change")
)

const (
	subjectOrderConfirmation = "Your order is confirmed"
	bodyOrderConfirmation    = "Hi %v, we received your payment of %.2f for order #%v. We will let you know once it ships."
)

// OrdersRepository contract interface
type OrdersRepository interface {
	CreateWithStock(ctx context.Context, order *domain.Order, quantities map[uint]int) error
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	FindByBuyer(ctx context.Context, buyerID uint) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// ProductReader is the narrow slice of the catalog store checkout needs.
type ProductReader interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type UserReader interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// PaymentGateway is the opaque remote payment collaborator.
type PaymentGateway interface {
	GenerateClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, amount float64, nonce string) (domain.Transaction, error)
}

// EmailSender delivers best-effort order confirmations; nil disables them.
type EmailSender interface {
	SendEmail(toName, toEmail, subject, message string) error
}

type OrdersService struct {
	orderRepo   OrdersRepository
	productRepo ProductReader
	userRepo    UserReader
	gateway     PaymentGateway
	mailer      EmailSender
}

func NewOrdersService(orderRepo OrdersRepository, productRepo ProductReader, userRepo UserReader, gateway PaymentGateway, mailer EmailSender) *OrdersService {
	return &OrdersService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		mailer:      mailer,
	}
}

func (s *OrdersService) ClientToken(ctx context.Context) (string, error) {
	token, err := s.gateway.GenerateClientToken(ctx)
	if err != nil {
		logger.Error("Failed to generate gateway client token", err)
		return "", err
	}

	return token, nil
}

// Checkout totals the cart from current store prices, submits the sale to the
// gateway, and only on gateway success persists the order and decrements
// stock in one transaction. A gateway failure persists nothing.
func (s *OrdersService) Checkout(ctx context.Context, buyerID uint, productIDs []uint, nonce string) (domain.Order, error) {
	if len(productIDs) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	if nonce == "" {
		return domain.Order{}, ErrNonceRequired
	}

	quantities := make(map[uint]int, len(productIDs))
	for _, id := range productIDs {
		quantities[id]++
	}

	var total float64
	products := make([]domain.Product, 0, len(quantities))
	seen := make(map[uint]bool, len(quantities))
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
		}

		if product.Quantity < quantities[id] {
			return domain.Order{}, domain.ErrInsufficientStock
		}

		// Client-supplied prices are never trusted.
		total += product.Price * float64(quantities[id])
		products = append(products, domain.Product{ID: product.ID})
	}

	transaction, err := s.gateway.Sale(ctx, total, nonce)
	if err != nil {
		logger.Warn("Gateway rejected sale", err, "buyer_id", buyerID, "amount", total)
		metrics.CheckoutTotal.WithLabelValues("gateway_declined").Inc()
		return domain.Order{}, err
	}

	order := domain.Order{
		BuyerID:        buyerID,
		Products:       products,
		Status:         domain.StatusNotProcessed,
		PaymentSuccess: true,
		TransactionID:  transaction.ID,
		Amount:         total,
	}

	if err := s.orderRepo.CreateWithStock(ctx, &order, quantities); err != nil {
		logger.Error("Failed to persist order after gateway success", err, "transaction_id", transaction.ID)
		metrics.CheckoutTotal.WithLabelValues("failed").Inc()
		return domain.Order{}, err
	}

	metrics.CheckoutTotal.WithLabelValues("approved").Inc()
	logger.Info("Order created", "order_id", order.ID, "buyer_id", buyerID, "amount", total)

	s.sendConfirmation(ctx, buyerID, order)

	return order, nil
}

// ListOwnOrders returns the buyer's orders, newest first, with products
// populated (photo excluded) and the buyer reduced to a display name.
func (s *OrdersService) ListOwnOrders(ctx context.Context, buyerID uint) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindByBuyer(ctx, buyerID)
	if err != nil {
		logger.Error("Failed to list orders", err)
		return nil, err
	}

	sanitizeBuyers(orders)
	return orders, nil
}

func (s *OrdersService) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list all orders", err)
		return nil, err
	}

	sanitizeBuyers(orders)
	return orders, nil
}

// UpdateStatus sets the order's status. The value must be one of the five
// known statuses, and orders in a terminal status may not transition at all.
func (s *OrdersService) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	if !domain.KnownOrderStatus(status) {
		return ErrUnknownStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return ErrNotFound
	}

	if domain.TerminalOrderStatus(order.Status) {
		return ErrTerminalStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		logger.Error("Failed to update order status", err)
		return err
	}

	logger.Info("Order status updated", "order_id", orderID, "status", status)
	return nil
}

func (s *OrdersService) sendConfirmation(ctx context.Context, buyerID uint, order domain.Order) {
	if s.mailer == nil {
		return
	}

	buyer, err := s.userRepo.FindByID(ctx, buyerID)
	if err != nil {
		logger.Warn("Failed to load buyer for confirmation email", err)
		return
	}

	body := fmt.Sprintf(bodyOrderConfirmation, buyer.FullName, order.Amount, order.ID)
	if err := s.mailer.SendEmail(buyer.FullName, buyer.Email, subjectOrderConfirmation, body); err != nil {
		logger.Warn("Failed to send order confirmation email", err)
	}
}

// sanitizeBuyers trims each populated buyer down to id and display name so no
// other personal fields leak through order listings.
func sanitizeBuyers(orders []domain.Order) {
	for i := range orders {
		if orders[i].Buyer == nil {
			continue
		}

		orders[i].Buyer = &domain.User{
			ID:       orders[i].Buyer.ID,
			FullName: orders[i].Buyer.FullName,
		}
	}
}
