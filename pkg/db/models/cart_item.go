package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one line of a CartRecord. Position preserves insertion order.
type CartItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID       uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	Position     int             `gorm:"column:position;not null"`
	ProductID    string          `gorm:"column:product_id;not null"`
	Size         *string         `gorm:"column:size"`
	Color        *string         `gorm:"column:color"`
	Quantity     int             `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric;not null"`
	ProductName  *string         `gorm:"column:product_name"`
	ProductSlug  *string         `gorm:"column:product_slug"`
	ProductImage *string         `gorm:"column:product_image"`
}

func (CartItem) TableName() string { return "cart_items" }

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
