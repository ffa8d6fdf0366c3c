package cart

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes persistence operations for session carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindBySession loads the cart and its items in position order.
func (r *Repository) FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("session_id = ?", sessionID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Replace writes record as the session's only cart, replacing any existing
// items. Callers run it inside a transaction.
func (r *Repository) Replace(ctx context.Context, record *models.CartRecord) error {
	items := record.Items
	record.Items = nil
	defer func() { record.Items = items }()

	var existing models.CartRecord
	err := r.db.WithContext(ctx).
		Select("id", "created_at").
		Where("session_id = ?", record.SessionID).
		Take(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		err := r.db.WithContext(ctx).
			Model(&models.CartRecord{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"subtotal":   record.Subtotal,
				"tax":        record.Tax,
				"shipping":   record.Shipping,
				"total":      record.Total,
				"updated_at": record.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).Where("cart_id = ?", existing.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
	}

	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].CartID = record.ID
		items[i].Position = i
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// DeleteBySession removes the session's cart and items.
func (r *Repository) DeleteBySession(ctx context.Context, sessionID string) error {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("session_id = ?", sessionID).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	_, err := r.deleteCarts(ctx, ids)
	return err
}

// DeleteIdleBefore removes up to limit carts whose last update precedes cutoff,
// oldest first, and reports how many carts were deleted.
func (r *Repository) DeleteIdleBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	var ids []string
	query := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("updated_at < ?", cutoff.UTC()).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return r.deleteCarts(ctx, ids)
}

func (r *Repository) deleteCarts(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Where("cart_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartRecord{})
	return res.RowsAffected, res.Error
}
