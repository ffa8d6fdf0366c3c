package cartdto

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  *int    `json:"quantity" validate:"required,max=9999"`
	Size      *string `json:"size,omitempty" validate:"omitempty,max=64"`
	Color     *string `json:"color,omitempty" validate:"omitempty,max=64"`
}

// UpdateQuantityRequest is the body of PATCH /api/v1/cart/items/{productId}.
// Quantities below one are clamped to one by the cart.
// The max tag mirrors cart.MaxQuantity.
type UpdateQuantityRequest struct {
	Quantity *int    `json:"quantity" validate:"required,max=9999"`
	Size     *string `json:"size,omitempty" validate:"omitempty,max=64"`
	Color    *string `json:"color,omitempty" validate:"omitempty,max=64"`
}
