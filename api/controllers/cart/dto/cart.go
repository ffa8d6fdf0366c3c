package cartdto

// Cart is the cart snapshot returned by every cart endpoint. Money fields are
// exact decimal strings.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  string     `json:"subtotal"`
	Tax       string     `json:"tax"`
	Shipping  string     `json:"shipping"`
	Total     string     `json:"total"`
	Currency  string     `json:"currency"`
}

// CartItem is one cart slot.
type CartItem struct {
	ProductID string       `json:"product_id"`
	Size      *string      `json:"size"`
	Color     *string      `json:"color"`
	Quantity  int          `json:"quantity"`
	UnitPrice string       `json:"unit_price"`
	LineTotal string       `json:"line_total"`
	Product   *ProductInfo `json:"product,omitempty"`
}

// ProductInfo is the display snapshot captured when the slot was created.
type ProductInfo struct {
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}
