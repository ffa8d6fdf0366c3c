package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

type stubCartService struct {
	cart        *cartsvc.Cart
	err         error
	lastSession string
	lastAdd     cartsvc.AddItemInput
	lastRemove  cartsvc.SlotInput
	lastUpdate  cartsvc.UpdateQuantityInput
	cleared     bool
}

func (s *stubCartService) GetCart(ctx context.Context, sessionID string) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	return s.cart, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, sessionID string, input cartsvc.AddItemInput) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	s.lastAdd = input
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, sessionID string, input cartsvc.SlotInput) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	s.lastRemove = input
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, sessionID string, input cartsvc.UpdateQuantityInput) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	s.lastUpdate = input
	return s.cart, s.err
}

func (s *stubCartService) ClearCart(ctx context.Context, sessionID string) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	s.cleared = true
	return s.cart, s.err
}

func sampleCart(t *testing.T) *cartsvc.Cart {
	t.Helper()
	c := cartsvc.New(cartsvc.DefaultPolicy())
	shirt := cartsvc.Product{
		ID:       "shirt",
		Price:    decimal.RequireFromString("25.00"),
		Snapshot: &cartsvc.ProductSnapshot{Name: "Linen Shirt", Slug: "linen-shirt"},
	}
	if err := c.AddItem(shirt, 2, cartsvc.Sized("M")); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return c
}

func withSession(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
}

func withProductParam(req *http.Request, productID string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", productID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) cartdto.Cart {
	t.Helper()
	var envelope struct {
		Data cartdto.Cart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartFetchSuccess(t *testing.T) {
	stub := &stubCartService{cart: sampleCart(t)}
	handler := CartFetch(stub, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), "sess-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastSession != "sess-1" {
		t.Fatalf("expected session to be forwarded, got %q", stub.lastSession)
	}

	body := decodeCart(t, resp)
	if body.SessionID != "sess-1" || body.ItemCount != 2 || len(body.Items) != 1 {
		t.Fatalf("unexpected cart payload %+v", body)
	}
	if body.Subtotal != "50" || body.Tax != "5" || body.Shipping != "10" || body.Total != "65" {
		t.Fatalf("unexpected totals %+v", body)
	}
	item := body.Items[0]
	if item.Size == nil || *item.Size != "M" || item.Color != nil {
		t.Fatalf("unexpected selectors %+v", item)
	}
	if item.LineTotal != "50" || item.Product == nil || item.Product.Name != "Linen Shirt" {
		t.Fatalf("unexpected item %+v", item)
	}
	if body.Currency != "USD" {
		t.Fatalf("unexpected currency %q", body.Currency)
	}
}

func TestCartFetchRequiresSession(t *testing.T) {
	resp := httptest.NewRecorder()
	CartFetch(&stubCartService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartFetchDependencyFailure(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeDependency, "load cart")}
	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), "sess-1")
	resp := httptest.NewRecorder()
	CartFetch(stub, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestCartAddItem(t *testing.T) {
	stub := &stubCartService{cart: sampleCart(t)}
	body := `{"product_id":"shirt","quantity":2,"size":"M"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), "sess-1")
	resp := httptest.NewRecorder()
	CartAddItem(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.lastAdd.ProductID != "shirt" || stub.lastAdd.Quantity != 2 {
		t.Fatalf("unexpected add input %+v", stub.lastAdd)
	}
	if stub.lastAdd.Size == nil || *stub.lastAdd.Size != "M" || stub.lastAdd.Color != nil {
		t.Fatalf("unexpected selectors %+v", stub.lastAdd)
	}
}

func TestCartAddItemRejectsBadBodies(t *testing.T) {
	cases := map[string]string{
		"missing quantity": `{"product_id":"shirt"}`,
		"missing product":  `{"quantity":1}`,
		"unknown field":    `{"product_id":"shirt","quantity":1,"coupon":"x"}`,
		"malformed":        `{"product_id":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &stubCartService{cart: sampleCart(t)}
			req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), "sess-1")
			resp := httptest.NewRecorder()
			CartAddItem(stub, nil).ServeHTTP(resp, req)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
			if stub.lastSession != "" {
				t.Fatalf("service should not be called")
			}
		})
	}
}

func TestCartAddItemSurfacesInvalidQuantity(t *testing.T) {
	stub := &stubCartService{err: cartsvc.ErrInvalidQuantity}
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"shirt","quantity":0}`)), "sess-1")
	resp := httptest.NewRecorder()
	CartAddItem(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), string(pkgerrors.CodeValidation)) {
		t.Fatalf("expected validation code, got %s", resp.Body.String())
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	stub := &stubCartService{cart: sampleCart(t)}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/shirt", strings.NewReader(`{"quantity":0,"size":"M"}`))
	req = withSession(withProductParam(req, "shirt"), "sess-1")
	resp := httptest.NewRecorder()
	CartUpdateQuantity(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.lastUpdate.ProductID != "shirt" || stub.lastUpdate.Quantity != 0 {
		t.Fatalf("unexpected update input %+v", stub.lastUpdate)
	}
	if stub.lastUpdate.Size == nil || *stub.lastUpdate.Size != "M" {
		t.Fatalf("expected size selector, got %+v", stub.lastUpdate)
	}
}

func TestCartRemoveItemReadsSelectorsFromQuery(t *testing.T) {
	stub := &stubCartService{cart: sampleCart(t)}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/shirt?size=M&color=", nil)
	req = withSession(withProductParam(req, "shirt"), "sess-1")
	resp := httptest.NewRecorder()
	CartRemoveItem(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastRemove.ProductID != "shirt" {
		t.Fatalf("unexpected product %q", stub.lastRemove.ProductID)
	}
	if stub.lastRemove.Size == nil || *stub.lastRemove.Size != "M" {
		t.Fatalf("expected size M, got %v", stub.lastRemove.Size)
	}
	if stub.lastRemove.Color == nil || *stub.lastRemove.Color != "" {
		t.Fatalf("expected empty color selector, got %v", stub.lastRemove.Color)
	}
}

func TestCartRemoveItemRequiresProduct(t *testing.T) {
	stub := &stubCartService{cart: sampleCart(t)}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/", nil)
	req = withSession(withProductParam(req, " "), "sess-1")
	resp := httptest.NewRecorder()
	CartRemoveItem(stub, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartClear(t *testing.T) {
	stub := &stubCartService{cart: cartsvc.New(cartsvc.DefaultPolicy())}
	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil), "sess-1")
	resp := httptest.NewRecorder()
	CartClear(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !stub.cleared {
		t.Fatal("expected ClearCart to be called")
	}
	body := decodeCart(t, resp)
	if body.ItemCount != 0 || len(body.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", body)
	}
	if body.Subtotal != "0" || body.Shipping != "0" || body.Total != "0" {
		t.Fatalf("expected zero totals, got %+v", body)
	}
}

func TestCartHandlersWithoutService(t *testing.T) {
	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), "sess-1")
	resp := httptest.NewRecorder()
	CartFetch(nil, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
