package product

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubReader struct {
	products map[uuid.UUID]*models.Product
	page     pagination.Page[models.Product]
	listErr  error
	getErr   error
	lastList ListQuery
}

func (s *stubReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubReader) List(ctx context.Context, query ListQuery) (pagination.Page[models.Product], error) {
	s.lastList = query
	return s.page, s.listErr
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestGetProductMapsErrors(t *testing.T) {
	active := &models.Product{ID: uuid.New(), Slug: "tee", Price: decimal.RequireFromString("20"), IsActive: true}
	inactive := &models.Product{ID: uuid.New(), Slug: "old", Price: decimal.RequireFromString("20")}
	reader := &stubReader{products: map[uuid.UUID]*models.Product{active.ID: active, inactive.ID: inactive}}
	svc, err := NewService(reader)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	dto, err := svc.GetProduct(ctx, active.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if dto.Price != "20.00" || dto.Sizes == nil || dto.Colors == nil {
		t.Fatalf("unexpected dto %+v", dto)
	}

	if _, err := svc.GetProduct(ctx, inactive.ID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("inactive product should be not found, got %v", err)
	}
	if _, err := svc.GetProduct(ctx, uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("missing product should be not found, got %v", err)
	}

	reader.getErr = errors.New("connection reset")
	if _, err := svc.GetProduct(ctx, active.ID); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("db failure should be dependency error, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	reader := &stubReader{page: pagination.Page[models.Product]{
		Items:      []models.Product{{ID: uuid.New(), Slug: "tee", Price: decimal.RequireFromString("9.5"), IsActive: true}},
		NextCursor: "next",
	}}
	svc, _ := NewService(reader)

	out, err := svc.ListProducts(context.Background(), ListProductsInput{Category: "tops", Pagination: pagination.Params{Limit: 5}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Products) != 1 || out.Products[0].Price != "9.50" || out.NextCursor != "next" {
		t.Fatalf("unexpected result %+v", out)
	}
	if reader.lastList.Category != "tops" || reader.lastList.Pagination.Limit != 5 {
		t.Fatalf("query not forwarded: %+v", reader.lastList)
	}

	if _, err := svc.ListProducts(context.Background(), ListProductsInput{Pagination: pagination.Params{Cursor: "%%%"}}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("bad cursor should be validation error, got %v", err)
	}

	reader.listErr = errors.New("timeout")
	if _, err := svc.ListProducts(context.Background(), ListProductsInput{}); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("db failure should be dependency error, got %v", err)
	}
}

func TestFromModelDiscount(t *testing.T) {
	orig := decimal.RequireFromString("80")
	dto := FromModel(models.Product{Price: decimal.RequireFromString("60"), OriginalPrice: &orig})
	if dto.OriginalPrice == nil || *dto.OriginalPrice != "80.00" {
		t.Fatalf("expected original price, got %+v", dto.OriginalPrice)
	}
	if dto.Discount == nil || *dto.Discount != 25 {
		t.Fatalf("expected 25%% discount, got %+v", dto.Discount)
	}

	same := decimal.RequireFromString("60")
	dto = FromModel(models.Product{Price: decimal.RequireFromString("60"), OriginalPrice: &same})
	if dto.OriginalPrice != nil || dto.Discount != nil {
		t.Fatal("no discount expected when original price is not higher")
	}
}
