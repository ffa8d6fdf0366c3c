package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ColorOption is a named swatch a product can be ordered in.
type ColorOption struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Product is a catalog listing the cart can reference.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex"`
	Name          string           `gorm:"column:name;not null"`
	Description   string           `gorm:"column:description;not null;default:''"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric;not null"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric"`
	Image         string           `gorm:"column:image;not null;default:''"`
	Category      string           `gorm:"column:category;not null;index"`
	Sizes         []string         `gorm:"column:sizes;type:jsonb;serializer:json"`
	Colors        []ColorOption    `gorm:"column:colors;type:jsonb;serializer:json"`
	InStock       bool             `gorm:"column:in_stock;not null;default:true"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time        `gorm:"column:created_at"`
	UpdatedAt     time.Time        `gorm:"column:updated_at"`
}

// BeforeCreate assigns the primary key and UTC timestamps so keyset cursors
// compare the same way on every dialect.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return nil
}

// OffersSize reports whether size is selectable. Products without declared
// sizes accept none.
func (p Product) OffersSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// OffersColor reports whether a color with the given name is selectable.
func (p Product) OffersColor(name string) bool {
	for _, c := range p.Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}
