package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// DBStore persists carts in the carts/cart_items tables.
type DBStore struct {
	repo *Repository
	tx   txRunner
}

// NewDBStore wires the repository with the client's transaction runner.
func NewDBStore(repo *Repository, tx txRunner) (*DBStore, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &DBStore{repo: repo, tx: tx}, nil
}

func (s *DBStore) Backend() string { return "postgres" }

func (s *DBStore) Load(ctx context.Context, sessionID string) (*Record, error) {
	row, err := s.repo.FindBySession(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := recordFromModel(row)
	return &rec, nil
}

func (s *DBStore) Save(ctx context.Context, sessionID string, rec Record) error {
	row := recordToModel(sessionID, rec)
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Replace(ctx, row)
	})
}

func (s *DBStore) Delete(ctx context.Context, sessionID string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteBySession(ctx, sessionID)
	})
}

func recordToModel(sessionID string, rec Record) *models.CartRecord {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	row := &models.CartRecord{
		SessionID: sessionID,
		Subtotal:  rec.Subtotal,
		Tax:       rec.Tax,
		Shipping:  rec.Shipping,
		Total:     rec.Total,
		UpdatedAt: updated.UTC(),
		Items:     make([]models.CartItem, 0, len(rec.Items)),
	}
	for i, item := range rec.Items {
		mi := models.CartItem{
			Position:  i,
			ProductID: item.ProductID,
			Size:      cloneString(item.Size),
			Color:     cloneString(item.Color),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.Product != nil {
			mi.ProductName = &item.Product.Name
			mi.ProductSlug = optional(item.Product.Slug)
			mi.ProductImage = optional(item.Product.Image)
		}
		row.Items = append(row.Items, mi)
	}
	return row
}

func recordFromModel(row *models.CartRecord) Record {
	rec := Record{
		Items:     make([]ItemRecord, 0, len(row.Items)),
		Subtotal:  row.Subtotal,
		Tax:       row.Tax,
		Shipping:  row.Shipping,
		Total:     row.Total,
		UpdatedAt: row.UpdatedAt,
	}
	for _, mi := range row.Items {
		item := ItemRecord{
			ProductID: mi.ProductID,
			Quantity:  mi.Quantity,
			Size:      mi.Size,
			Color:     mi.Color,
			UnitPrice: mi.UnitPrice,
		}
		if mi.ProductName != nil {
			item.Product = &ProductSnapshot{
				Name:  *mi.ProductName,
				Slug:  deref(mi.ProductSlug),
				Image: deref(mi.ProductImage),
			}
		}
		rec.Items = append(rec.Items, item)
	}
	return rec
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
