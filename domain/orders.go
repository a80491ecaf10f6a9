package domain

import (
	"errors"
	"time"
)

const (
	StatusNotProcessed = "Not Processed"
	StatusProcessing   = "Processing"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

// ErrInsufficientStock is returned by the order store when the conditional
// stock decrement matches no row.
var ErrInsufficientStock = errors.New("insufficient stock")

type Order struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BuyerID        uint      `gorm:"column:buyer_id;not null" json:"buyer_id"`
	Buyer          *User     `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Products       []Product `gorm:"many2many:order_products" json:"products"`
	Status         string    `gorm:"column:status;not null;default:'Not Processed'" json:"status"`
	PaymentSuccess bool      `gorm:"column:payment_success" json:"payment_success"`
	TransactionID  string    `gorm:"column:transaction_id" json:"transaction_id"`
	Amount         float64   `gorm:"column:amount;type:numeric" json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// Transaction is the payment gateway's sale result. It is recorded on the
// order but never persisted as its own entity.
type Transaction struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

func KnownOrderStatus(status string) bool {
	switch status {
	case StatusNotProcessed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// TerminalOrderStatus reports whether an order in this status may no longer
// transition anywhere.
func TerminalOrderStatus(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}
