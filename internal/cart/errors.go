package cart

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

var (
	ErrInvalidQuantity = pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", MaxQuantity))
	ErrMissingProduct  = pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	ErrNegativePrice   = pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	ErrMissingSession  = pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
)
