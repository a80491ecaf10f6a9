package orders

import (
	"context"
	"errors"
	"testing"

	"gomart/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockOrdersRepo struct {
	mock.Mock
}

func (m *mockOrdersRepo) CreateWithStock(ctx context.Context, order *domain.Order, quantities map[uint]int) error {
	args := m.Called(ctx, order, quantities)
	return args.Error(0)
}

func (m *mockOrdersRepo) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrdersRepo) FindByBuyer(ctx context.Context, buyerID uint) ([]domain.Order, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrdersRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrdersRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockProductReader struct {
	mock.Mock
}

func (m *mockProductReader) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) FindByID(ctx context.Context, id uint) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) GenerateClientToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) Sale(ctx context.Context, amount float64, nonce string) (domain.Transaction, error) {
	args := m.Called(ctx, amount, nonce)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func newTestService(orderRepo *mockOrdersRepo, productRepo *mockProductReader, gateway *mockGateway) *OrdersService {
	return NewOrdersService(orderRepo, productRepo, new(mockUserReader), gateway, nil)
}

func TestCheckout_EmptyCartAndMissingNonce(t *testing.T) {
	svc := newTestService(new(mockOrdersRepo), new(mockProductReader), new(mockGateway))

	_, err := svc.Checkout(context.Background(), 1, nil, "nonce")
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.Checkout(context.Background(), 1, []uint{5}, "")
	assert.ErrorIs(t, err, ErrNonceRequired)
}

func TestCheckout_UnknownProduct(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	productRepo := new(mockProductReader)
	gateway := new(mockGateway)
	svc := newTestService(orderRepo, productRepo, gateway)

	productRepo.On("FindByID", mock.Anything, uint(5)).
		Return(domain.Product{}, errors.New("record not found"))

	_, err := svc.Checkout(context.Background(), 1, []uint{5}, "nonce")

	assert.ErrorIs(t, err, ErrProductNotFound)
	gateway.AssertNotCalled(t, "Sale", mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "CreateWithStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_InsufficientStockBeforeGateway(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	productRepo := new(mockProductReader)
	gateway := new(mockGateway)
	svc := newTestService(orderRepo, productRepo, gateway)

	productRepo.On("FindByID", mock.Anything, uint(5)).
		Return(domain.Product{ID: 5, Price: 10, Quantity: 1}, nil)

	// Two of a product that has one in stock.
	_, err := svc.Checkout(context.Background(), 1, []uint{5, 5}, "nonce")

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	gateway.AssertNotCalled(t, "Sale", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_GatewayDeclinePersistsNothing(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	productRepo := new(mockProductReader)
	gateway := new(mockGateway)
	svc := newTestService(orderRepo, productRepo, gateway)

	productRepo.On("FindByID", mock.Anything, uint(5)).
		Return(domain.Product{ID: 5, Price: 25.50, Quantity: 3}, nil)
	gateway.On("Sale", mock.Anything, 25.50, "nonce").
		Return(domain.Transaction{}, errors.New("gateway rejected sale: processor declined"))

	_, err := svc.Checkout(context.Background(), 1, []uint{5}, "nonce")

	assert.Error(t, err)
	orderRepo.AssertNotCalled(t, "CreateWithStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_TotalsFromStorePrices(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	productRepo := new(mockProductReader)
	gateway := new(mockGateway)
	svc := newTestService(orderRepo, productRepo, gateway)

	productRepo.On("FindByID", mock.Anything, uint(5)).
		Return(domain.Product{ID: 5, Price: 10, Quantity: 5}, nil)
	productRepo.On("FindByID", mock.Anything, uint(8)).
		Return(domain.Product{ID: 8, Price: 4.5, Quantity: 2}, nil)

	// Cart: two of product 5, one of product 8 -> 24.50.
	gateway.On("Sale", mock.Anything, 24.5, "nonce").
		Return(domain.Transaction{ID: "txn-1", Status: "submitted_for_settlement", Amount: 24.5}, nil)

	orderRepo.On("CreateWithStock", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.BuyerID == 1 &&
			o.Status == domain.StatusNotProcessed &&
			o.PaymentSuccess &&
			o.TransactionID == "txn-1" &&
			o.Amount == 24.5 &&
			len(o.Products) == 2
	}), map[uint]int{5: 2, 8: 1}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 77
		}).
		Return(nil)

	order, err := svc.Checkout(context.Background(), 1, []uint{5, 8, 5}, "nonce")

	assert.NoError(t, err)
	assert.Equal(t, uint(77), order.ID)
	orderRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestListOrders_SanitizesBuyer(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	svc := newTestService(orderRepo, new(mockProductReader), new(mockGateway))

	orderRepo.On("FindByBuyer", mock.Anything, uint(1)).Return([]domain.Order{
		{
			ID: 3,
			Buyer: &domain.User{
				ID:             1,
				FullName:       "Jane Buyer",
				Email:          "jane@example.com",
				Password:       "hash",
				SecurityAnswer: "blue",
			},
		},
	}, nil)

	orders, err := svc.ListOwnOrders(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "Jane Buyer", orders[0].Buyer.FullName)
	assert.Empty(t, orders[0].Buyer.Email)
	assert.Empty(t, orders[0].Buyer.Password)
	assert.Empty(t, orders[0].Buyer.SecurityAnswer)
}

func TestUpdateStatus_UnknownValue(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	svc := newTestService(orderRepo, new(mockProductReader), new(mockGateway))

	err := svc.UpdateStatus(context.Background(), 3, "On Hold")

	assert.ErrorIs(t, err, ErrUnknownStatus)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_OrderNotFound(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	svc := newTestService(orderRepo, new(mockProductReader), new(mockGateway))

	orderRepo.On("FindByID", mock.Anything, uint(3)).
		Return(domain.Order{}, errors.New("record not found"))

	err := svc.UpdateStatus(context.Background(), 3, domain.StatusShipped)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_TerminalOrderRejected(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	svc := newTestService(orderRepo, new(mockProductReader), new(mockGateway))

	orderRepo.On("FindByID", mock.Anything, uint(3)).
		Return(domain.Order{ID: 3, Status: domain.StatusDelivered}, nil)

	err := svc.UpdateStatus(context.Background(), 3, domain.StatusProcessing)

	assert.ErrorIs(t, err, ErrTerminalStatus)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_Success(t *testing.T) {
	orderRepo := new(mockOrdersRepo)
	svc := newTestService(orderRepo, new(mockProductReader), new(mockGateway))

	orderRepo.On("FindByID", mock.Anything, uint(3)).
		Return(domain.Order{ID: 3, Status: domain.StatusProcessing}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, uint(3), domain.StatusShipped).Return(nil)

	err := svc.UpdateStatus(context.Background(), 3, domain.StatusShipped)

	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
}
