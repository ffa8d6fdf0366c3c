package cart

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/shopspring/decimal"
)

// Policy holds the pricing parameters a cart is totalled with.
type Policy struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFlatFee       decimal.Decimal
	Currency              string
}

// Totals are the four derived money figures of a cart.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// DefaultPolicy returns 10% tax with free shipping strictly above 100.00 and a
// 10.00 flat fee otherwise.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:               decimal.RequireFromString("0.10"),
		FreeShippingThreshold: decimal.RequireFromString("100.00"),
		ShippingFlatFee:       decimal.RequireFromString("10.00"),
		Currency:              "USD",
	}
}

// PolicyFromConfig parses the pricing config into a validated Policy.
func PolicyFromConfig(cfg config.PricingConfig) (Policy, error) {
	def := DefaultPolicy()
	taxRate, err := parseDecimal("tax rate", cfg.TaxRate, def.TaxRate)
	if err != nil {
		return Policy{}, err
	}
	threshold, err := parseDecimal("free shipping threshold", cfg.FreeShippingThreshold, def.FreeShippingThreshold)
	if err != nil {
		return Policy{}, err
	}
	fee, err := parseDecimal("shipping flat fee", cfg.ShippingFlatFee, def.ShippingFlatFee)
	if err != nil {
		return Policy{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = def.Currency
	}

	p := Policy{
		TaxRate:               taxRate,
		FreeShippingThreshold: threshold,
		ShippingFlatFee:       fee,
		Currency:              currency,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func parseDecimal(name, raw string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v, nil
}

// Validate rejects negative pricing parameters.
func (p Policy) Validate() error {
	switch {
	case p.TaxRate.IsNegative():
		return fmt.Errorf("tax rate must not be negative")
	case p.FreeShippingThreshold.IsNegative():
		return fmt.Errorf("free shipping threshold must not be negative")
	case p.ShippingFlatFee.IsNegative():
		return fmt.Errorf("shipping flat fee must not be negative")
	}
	return nil
}

// Price derives tax, shipping and total from a subtotal. Tax is exact; callers
// round only for display.
func (p Policy) Price(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(p.TaxRate)
	shipping := p.ShippingFlatFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
