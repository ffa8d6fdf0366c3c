package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/validators"
	"github.com/angelmondragon/storefront-cart/internal/cart"
)

func toAddItemInput(payload cartdto.AddItemRequest) cart.AddItemInput {
	return cart.AddItemInput{
		ProductID: payload.ProductID,
		Quantity:  *payload.Quantity,
		Size:      payload.Size,
		Color:     payload.Color,
	}
}

func toUpdateQuantityInput(productID string, payload cartdto.UpdateQuantityRequest) cart.UpdateQuantityInput {
	return cart.UpdateQuantityInput{
		ProductID: productID,
		Quantity:  *payload.Quantity,
		Size:      payload.Size,
		Color:     payload.Color,
	}
}

// slotFromQuery reads the removal slot: the product from the path and the
// selectors from ?size= and ?color=. An absent parameter is an unselected
// option; an empty one selects "".
func slotFromQuery(r *http.Request) cart.SlotInput {
	return cart.SlotInput{
		ProductID: chi.URLParam(r, "productId"),
		Size:      validators.OptionalQuery(r, "size"),
		Color:     validators.OptionalQuery(r, "color"),
	}
}
