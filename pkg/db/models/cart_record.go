package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartRecord is the persisted cart for one session. Totals are informational;
// readers always recompute them from the items.
type CartRecord struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SessionID string          `gorm:"column:session_id;not null;uniqueIndex"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric;not null;default:0"`
	Tax       decimal.Decimal `gorm:"column:tax;type:numeric;not null;default:0"`
	Shipping  decimal.Decimal `gorm:"column:shipping;type:numeric;not null;default:0"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric;not null;default:0"`
	Items     []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (CartRecord) TableName() string { return "carts" }

func (c *CartRecord) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	return nil
}
