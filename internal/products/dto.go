package product

import (
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/google/uuid"
)

// ProductDTO is the catalog payload returned to shoppers. Prices are decimal
// strings.
type ProductDTO struct {
	ID            uuid.UUID            `json:"id"`
	Slug          string               `json:"slug"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Price         string               `json:"price"`
	OriginalPrice *string              `json:"original_price,omitempty"`
	Discount      *int                 `json:"discount,omitempty"`
	Image         string               `json:"image"`
	Category      string               `json:"category"`
	Sizes         []string             `json:"sizes"`
	Colors        []models.ColorOption `json:"colors"`
	InStock       bool                 `json:"in_stock"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ProductListResult is one page of the catalog.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps a product row to its payload.
func FromModel(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Image:       p.Image,
		Category:    p.Category,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
	}
	if dto.Sizes == nil {
		dto.Sizes = []string{}
	}
	if dto.Colors == nil {
		dto.Colors = []models.ColorOption{}
	}
	if p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price) {
		orig := p.OriginalPrice.StringFixed(2)
		dto.OriginalPrice = &orig
		pct := int(p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Shift(2).Round(0).IntPart())
		dto.Discount = &pct
	}
	return dto
}
