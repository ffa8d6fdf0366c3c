package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the persisted form of a cart. Stored totals are informational:
// Restore recomputes them from the items.
type Record struct {
	Items     []ItemRecord    `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ItemRecord is the persisted form of a line item.
type ItemRecord struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Size      *string          `json:"size,omitempty"`
	Color     *string          `json:"color,omitempty"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Product   *ProductSnapshot `json:"product,omitempty"`
}

// Snapshot captures the cart for persistence.
func (c *Cart) Snapshot() Record {
	items := make([]ItemRecord, 0, len(c.items))
	for _, item := range c.items {
		cp := item.clone()
		items = append(items, ItemRecord{
			ProductID: cp.ProductID,
			Quantity:  cp.Quantity,
			Size:      cp.Size,
			Color:     cp.Color,
			UnitPrice: cp.UnitPrice,
			Product:   cp.Product,
		})
	}
	return Record{
		Items:    items,
		Subtotal: c.totals.Subtotal,
		Tax:      c.totals.Tax,
		Shipping: c.totals.Shipping,
		Total:    c.totals.Total,
	}
}

// Restore rebuilds a cart from a record. Quantities are clamped to
// [1, MaxQuantity], duplicate slots are merged in first-seen order keeping the
// first unit price, and totals are recomputed with policy.
func Restore(policy Policy, rec Record) (*Cart, error) {
	c := &Cart{policy: policy}
	for _, ir := range rec.Items {
		if strings.TrimSpace(ir.ProductID) == "" {
			return nil, ErrMissingProduct
		}
		if ir.UnitPrice.IsNegative() {
			return nil, ErrNegativePrice.WithDetails(map[string]any{"product_id": ir.ProductID})
		}
		qty := clampQuantity(ir.Quantity)
		variant := Variant{Size: ir.Size, Color: ir.Color}
		if idx := c.indexOf(ir.ProductID, variant); idx >= 0 {
			c.items[idx].Quantity = clampQuantity(c.items[idx].Quantity + qty)
			continue
		}
		item := LineItem{
			ProductID: ir.ProductID,
			Size:      ir.Size,
			Color:     ir.Color,
			Quantity:  qty,
			UnitPrice: ir.UnitPrice,
			Product:   ir.Product,
		}
		c.items = append(c.items, item.clone())
	}
	c.recompute()
	return c, nil
}
