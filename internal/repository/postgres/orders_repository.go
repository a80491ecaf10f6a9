package postgres

import (
	"context"
	"errors"
	"fmt"

	"gomart/domain"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// CreateWithStock persists the order and decrements each referenced product's
// quantity in a single transaction. The decrement is conditional on enough
// stock remaining, which closes the race between concurrent checkouts: the
// losing request rolls back with domain.ErrInsufficientStock.
func (r *OrdersRepository) CreateWithStock(ctx context.Context, order *domain.Order, quantities map[uint]int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, qty := range quantities {
			result := tx.Model(&domain.Product{}).
				Where("id = ? AND quantity >= ?", productID, qty).
				Update("quantity", gorm.Expr("quantity - ?", qty))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return domain.ErrInsufficientStock
			}
		}

		// Omit Products.* so the join rows are written without re-saving
		// the product records themselves.
		if err := tx.Omit("Products.*").Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
}

func (r *OrdersRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	var order domain.Order

	err := r.DB.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, errors.New("order not found")
		}
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

func (r *OrdersRepository) FindByBuyer(ctx context.Context, buyerID uint) ([]domain.Order, error) {
	var orders []domain.Order

	err := r.DB.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Omit("photo")
		}).
		Preload("Buyer").
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

func (r *OrdersRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order

	err := r.DB.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Omit("photo")
		}).
		Preload("Buyer").
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.DB.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("order not found")
	}

	return nil
}
