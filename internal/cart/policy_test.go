package cart

import (
	"testing"

	"github.com/angelmondragon/storefront-cart/pkg/config"
)

func TestPolicyFromConfig(t *testing.T) {
	p, err := PolicyFromConfig(config.PricingConfig{
		TaxRate:               "0.0825",
		FreeShippingThreshold: "75",
		ShippingFlatFee:       " 5.50 ",
		Currency:              "eur",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "tax rate", p.TaxRate, "0.0825")
	assertDecimal(t, "threshold", p.FreeShippingThreshold, "75")
	assertDecimal(t, "fee", p.ShippingFlatFee, "5.5")
	if p.Currency != "EUR" {
		t.Fatalf("expected EUR, got %s", p.Currency)
	}
}

func TestPolicyFromConfigDefaults(t *testing.T) {
	p, err := PolicyFromConfig(config.PricingConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultPolicy()
	if !p.TaxRate.Equal(def.TaxRate) || !p.ShippingFlatFee.Equal(def.ShippingFlatFee) || p.Currency != "USD" {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestPolicyFromConfigRejectsBadValues(t *testing.T) {
	cases := []config.PricingConfig{
		{TaxRate: "ten percent"},
		{TaxRate: "-0.1"},
		{FreeShippingThreshold: "-1"},
		{ShippingFlatFee: "-10"},
	}
	for _, cfg := range cases {
		if _, err := PolicyFromConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestPolicyPriceBoundary(t *testing.T) {
	p := DefaultPolicy()
	at := p.Price(dec("100"))
	assertDecimal(t, "shipping at threshold", at.Shipping, "10")
	above := p.Price(dec("100.01"))
	assertDecimal(t, "shipping above threshold", above.Shipping, "0")
	assertDecimal(t, "total above threshold", above.Total, "110.011")
}
