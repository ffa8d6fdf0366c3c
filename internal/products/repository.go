package product

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads and seeds catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
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

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID returns the product or gorm.ErrRecordNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListQuery filters a catalog listing.
type ListQuery struct {
	Pagination      pagination.Params
	Category        string
	IncludeInactive bool
}

// List returns active products newest first using keyset pagination.
func (r *Repository) List(ctx context.Context, query ListQuery) (pagination.Page[models.Product], error) {
	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return pagination.Page[models.Product]{}, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if !query.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		qb = qb.Where("category = ?", category)
	}
	if cursor != nil {
		at := cursor.CreatedAt.UTC()
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", at, at, cursor.ID)
	}

	var rows []models.Product
	err = qb.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(query.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return pagination.Page[models.Product]{}, err
	}

	return pagination.Build(rows, query.Pagination.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	}), nil
}
