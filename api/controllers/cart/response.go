package cart

import (
	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/internal/cart"
)

func newCartResponse(sessionID string, c *cart.Cart) cartdto.Cart {
	lines := c.Items()
	items := make([]cartdto.CartItem, 0, len(lines))
	for _, line := range lines {
		item := cartdto.CartItem{
			ProductID: line.ProductID,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
			LineTotal: line.LineTotal().String(),
		}
		if line.Product != nil {
			item.Product = &cartdto.ProductInfo{
				Name:  line.Product.Name,
				Slug:  line.Product.Slug,
				Image: line.Product.Image,
			}
		}
		items = append(items, item)
	}

	totals := c.Totals()
	return cartdto.Cart{
		SessionID: sessionID,
		Items:     items,
		ItemCount: c.Count(),
		Subtotal:  totals.Subtotal.String(),
		Tax:       totals.Tax.String(),
		Shipping:  totals.Shipping.String(),
		Total:     totals.Total.String(),
		Currency:  c.Policy().Currency,
	}
}
