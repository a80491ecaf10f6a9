package domain

import (
	"time"
)

// MaxPhotoBytes is the hard ceiling for a stored product photo. The boundary
// is exact: a payload of this size is accepted, one byte more is rejected.
const MaxPhotoBytes = 1_000_000

type Product struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"column:name;not null" json:"name"`
	Slug             string    `gorm:"column:slug;index;not null" json:"slug"`
	Description      string    `gorm:"column:description;type:text" json:"description"`
	Price            float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	Quantity         int       `gorm:"column:quantity;not null" json:"quantity"`
	CategoryID       uint      `gorm:"column:category_id;not null" json:"category_id"`
	Category         *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Shipping         bool      `gorm:"column:shipping" json:"shipping"`
	Photo            []byte    `gorm:"column:photo;type:bytea" json:"-"`
	PhotoContentType string    `gorm:"column:photo_content_type" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// PriceRange is an inclusive [Min, Max] price constraint.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
