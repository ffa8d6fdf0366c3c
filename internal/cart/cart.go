package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is optional display data carried alongside a line item.
type ProductSnapshot struct {
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}

// Product is what AddItem needs to know about a catalog entry.
type Product struct {
	ID       string
	Price    decimal.Decimal
	Snapshot *ProductSnapshot
}

// Variant selects a size and color. A nil selector is "not chosen" and never
// equals a chosen value, including "".
type Variant struct {
	Size  *string
	Color *string
}

// Sized is shorthand for a variant with only a size chosen.
func Sized(size string) Variant { return Variant{Size: &size} }

// SizedColor is shorthand for a variant with both selectors chosen.
func SizedColor(size, color string) Variant { return Variant{Size: &size, Color: &color} }

// Colored is shorthand for a variant with only a color chosen.
func Colored(color string) Variant { return Variant{Color: &color} }

func (v Variant) equal(o Variant) bool {
	return equalSelector(v.Size, o.Size) && equalSelector(v.Color, o.Color)
}

func (v Variant) clone() Variant {
	return Variant{Size: cloneString(v.Size), Color: cloneString(v.Color)}
}

// String renders the variant for logs.
func (v Variant) String() string {
	parts := make([]string, 0, 2)
	if v.Size != nil {
		parts = append(parts, "size="+*v.Size)
	}
	if v.Color != nil {
		parts = append(parts, "color="+*v.Color)
	}
	return strings.Join(parts, ",")
}

func equalSelector(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// MaxQuantity is the most units a single slot may hold.
const MaxQuantity = 9999

// LineItem is one slot of the cart.
type LineItem struct {
	ProductID string
	Size      *string
	Color     *string
	Quantity  int
	UnitPrice decimal.Decimal
	Product   *ProductSnapshot
}

// Variant returns the item's selectors.
func (i LineItem) Variant() Variant {
	return Variant{Size: i.Size, Color: i.Color}
}

// LineTotal is UnitPrice * Quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i LineItem) clone() LineItem {
	out := i
	out.Size = cloneString(i.Size)
	out.Color = cloneString(i.Color)
	if i.Product != nil {
		snap := *i.Product
		out.Product = &snap
	}
	return out
}

// Cart is a single shopper's cart. It is not safe for concurrent use; callers
// serialize access per session.
type Cart struct {
	policy Policy
	items  []LineItem
	totals Totals
}

// New returns an empty cart priced with policy. All four totals start at zero.
func New(policy Policy) *Cart {
	c := &Cart{policy: policy}
	c.reset()
	return c
}

// AddItem merges quantity into the matching slot or appends a new one priced
// at product.Price. An existing slot keeps its original unit price. A merge
// that would push the slot past MaxQuantity is rejected without mutation.
func (c *Cart) AddItem(product Product, quantity int, variant Variant) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if strings.TrimSpace(product.ID) == "" {
		return ErrMissingProduct
	}
	if product.Price.IsNegative() {
		return ErrNegativePrice
	}

	if idx := c.indexOf(product.ID, variant); idx >= 0 {
		if c.items[idx].Quantity > MaxQuantity-quantity {
			return ErrInvalidQuantity
		}
		c.items[idx].Quantity += quantity
	} else {
		v := variant.clone()
		item := LineItem{
			ProductID: product.ID,
			Size:      v.Size,
			Color:     v.Color,
			Quantity:  quantity,
			UnitPrice: product.Price,
		}
		if product.Snapshot != nil {
			snap := *product.Snapshot
			item.Product = &snap
		}
		c.items = append(c.items, item)
	}
	c.recompute()
	return nil
}

// RemoveItem deletes the exact slot. Removing a missing slot is a no-op.
func (c *Cart) RemoveItem(productID string, variant Variant) {
	if idx := c.indexOf(productID, variant); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
	c.recompute()
}

// UpdateQuantity sets the slot's quantity, clamped to [1, MaxQuantity]. It
// never creates a slot.
func (c *Cart) UpdateQuantity(productID string, quantity int, variant Variant) {
	if idx := c.indexOf(productID, variant); idx >= 0 {
		c.items[idx].Quantity = clampQuantity(quantity)
	}
	c.recompute()
}

// Clear empties the cart and zeroes every total.
func (c *Cart) Clear() {
	c.items = nil
	c.reset()
}

// Count is the total number of units across all slots.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal { return c.totals.Subtotal }
func (c *Cart) Tax() decimal.Decimal      { return c.totals.Tax }
func (c *Cart) Shipping() decimal.Decimal { return c.totals.Shipping }
func (c *Cart) Total() decimal.Decimal    { return c.totals.Total }
func (c *Cart) Totals() Totals            { return c.totals }
func (c *Cart) Policy() Policy            { return c.policy }

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.clone()
	}
	return out
}

// Find returns the slot matching productID and variant.
func (c *Cart) Find(productID string, variant Variant) (LineItem, bool) {
	if idx := c.indexOf(productID, variant); idx >= 0 {
		return c.items[idx].clone(), true
	}
	return LineItem{}, false
}

func (c *Cart) indexOf(productID string, variant Variant) int {
	for i, item := range c.items {
		if item.ProductID == productID && item.Variant().equal(variant) {
			return i
		}
	}
	return -1
}

func clampQuantity(n int) int {
	return min(max(1, n), MaxQuantity)
}

// reset is the state of a new or cleared cart. Every other mutation prices
// through the policy, so an emptied cart still carries the flat fee.
func (c *Cart) reset() {
	c.totals = Totals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
}

func (c *Cart) recompute() {
	subtotal := decimal.Zero
	for _, item := range c.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	c.totals = c.policy.Price(subtotal)
}
