package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

type addPayload struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Size      *string `json:"size,omitempty"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"0b6c6f4e-6f0a-4d58-9d43-0f0b3c7d1a11","quantity":2,"size":"M"}`))
		var p addPayload
		if err := DecodeJSONBody(req, &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Quantity != 2 || p.Size == nil || *p.Size != "M" {
			t.Fatalf("unexpected payload %+v", p)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"x","quantity":1,"coupon":"FREE"}`))
		var p addPayload
		err := DecodeJSONBody(req, &p)
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("validation details", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"nope","quantity":0}`))
		var p addPayload
		err := DecodeJSONBody(req, &p)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		details, ok := typed.Details().(map[string]string)
		if !ok {
			t.Fatalf("expected field details, got %T", typed.Details())
		}
		if details["product_id"] != "must be a valid uuid" {
			t.Fatalf("unexpected product_id detail %q", details["product_id"])
		}
		if details["quantity"] != "must be greater than 0" {
			t.Fatalf("unexpected quantity detail %q", details["quantity"])
		}
	})
}

func TestParseQueryInt(t *testing.T) {
	cases := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 24, false},
		{"limit=10", 10, false},
		{"limit=abc", 0, true},
		{"limit=0", 0, true},
		{"limit=500", 0, true},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		got, err := ParseQueryInt(req, "limit", 24, 1, 100)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: unexpected error state %v", tc.query, err)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("%q: expected %d got %d", tc.query, tc.want, got)
		}
	}
}

func TestOptionalQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?size=&color=Red", nil)
	if got := OptionalQuery(req, "size"); got == nil || *got != "" {
		t.Fatalf("expected empty selector, got %v", got)
	}
	if got := OptionalQuery(req, "color"); got == nil || *got != "Red" {
		t.Fatalf("expected Red, got %v", got)
	}
	if got := OptionalQuery(req, "missing"); got != nil {
		t.Fatalf("expected nil for absent key, got %q", *got)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  shirts  ", 0); got != "shirts" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("accessories", 4); got != "acce" {
		t.Fatalf("unexpected %q", got)
	}
}
