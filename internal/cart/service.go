package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	opAddItem        = "add_item"
	opRemoveItem     = "remove_item"
	opUpdateQuantity = "update_quantity"
	opClear          = "clear"
)

// ProductLoader resolves catalog entries for AddItem.
type ProductLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes session-scoped cart operations. Each mutation loads the
// stored cart, applies one engine operation and persists the result before
// returning it.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID string, input SlotInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, input UpdateQuantityInput) (*Cart, error)
	ClearCart(ctx context.Context, sessionID string) (*Cart, error)
}

// AddItemInput identifies a catalog product and the units to add.
type AddItemInput struct {
	ProductID string
	Quantity  int
	Size      *string
	Color     *string
}

// SlotInput identifies an existing cart slot.
type SlotInput struct {
	ProductID string
	Size      *string
	Color     *string
}

func (in SlotInput) variant() Variant {
	return Variant{Size: in.Size, Color: in.Color}
}

// UpdateQuantityInput sets the quantity of an existing slot.
type UpdateQuantityInput struct {
	ProductID string
	Quantity  int
	Size      *string
	Color     *string
}

type service struct {
	store    Store
	products ProductLoader
	policy   Policy
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
	locks    *sessionLocks
	now      func() time.Time
}

// NewService builds a cart service backed by the provided store and catalog.
func NewService(store Store, products ProductLoader, policy Policy, logg *logger.Logger, m *metrics.CartMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &service{
		store:    store,
		products: products,
		policy:   policy,
		logg:     logg,
		metrics:  m,
		locks:    newSessionLocks(),
		now:      time.Now,
	}, nil
}

func (s *service) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	return s.load(ctx, sessionID)
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error) {
	return s.mutate(ctx, opAddItem, sessionID, func(c *Cart) error {
		if input.Quantity <= 0 || input.Quantity > MaxQuantity {
			return ErrInvalidQuantity
		}
		product, err := s.resolveProduct(ctx, input)
		if err != nil {
			return err
		}
		return c.AddItem(product, input.Quantity, Variant{Size: input.Size, Color: input.Color})
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, input SlotInput) (*Cart, error) {
	return s.mutate(ctx, opRemoveItem, sessionID, func(c *Cart) error {
		if strings.TrimSpace(input.ProductID) == "" {
			return ErrMissingProduct
		}
		c.RemoveItem(input.ProductID, input.variant())
		return nil
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, input UpdateQuantityInput) (*Cart, error) {
	return s.mutate(ctx, opUpdateQuantity, sessionID, func(c *Cart) error {
		if strings.TrimSpace(input.ProductID) == "" {
			return ErrMissingProduct
		}
		c.UpdateQuantity(input.ProductID, input.Quantity, Variant{Size: input.Size, Color: input.Color})
		return nil
	})
}

// ClearCart drops the stored cart; the returned cart is empty.
func (s *service) ClearCart(ctx context.Context, sessionID string) (c *Cart, err error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()
	defer func() { s.record(ctx, opClear, sessionID, c, err) }()

	start := time.Now()
	err = s.store.Delete(ctx, sessionID)
	s.metrics.ObserveStore(s.store.Backend(), "delete", time.Since(start))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return New(s.policy), nil
}

func (s *service) mutate(ctx context.Context, op, sessionID string, apply func(*Cart) error) (c *Cart, err error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()
	defer func() { s.record(ctx, op, sessionID, c, err) }()

	c, err = s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err = apply(c); err != nil {
		return nil, err
	}

	rec := c.Snapshot()
	rec.UpdatedAt = s.now().UTC()
	start := time.Now()
	err = s.store.Save(ctx, sessionID, rec)
	s.metrics.ObserveStore(s.store.Backend(), "save", time.Since(start))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return c, nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	start := time.Now()
	rec, err := s.store.Load(ctx, sessionID)
	s.metrics.ObserveStore(s.store.Backend(), "load", time.Since(start))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if rec == nil {
		return New(s.policy), nil
	}
	c, err := Restore(s.policy, *rec)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored cart is invalid")
	}
	return c, nil
}

func (s *service) resolveProduct(ctx context.Context, input AddItemInput) (Product, error) {
	id, err := uuid.Parse(strings.TrimSpace(input.ProductID))
	if err != nil {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").
			WithDetails(map[string]any{"product_id": input.ProductID})
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !p.IsActive {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if input.Size != nil && len(p.Sizes) > 0 && !p.OffersSize(*input.Size) {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "size not offered").
			WithDetails(map[string]any{"size": *input.Size, "sizes": p.Sizes})
	}
	if input.Color != nil && len(p.Colors) > 0 && !p.OffersColor(*input.Color) {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "color not offered").
			WithDetails(map[string]any{"color": *input.Color})
	}
	return Product{
		ID:    p.ID.String(),
		Price: p.Price,
		Snapshot: &ProductSnapshot{
			Name:  p.Name,
			Slug:  p.Slug,
			Image: p.Image,
		},
	}, nil
}

func (s *service) record(ctx context.Context, op, sessionID string, c *Cart, err error) {
	s.metrics.IncMutation(op, err)

	fields := map[string]any{
		"op":         op,
		"session_id": sessionID,
	}
	if c != nil {
		fields["item_count"] = c.Count()
		fields["total"] = c.Total().String()
	}
	logCtx := s.logg.WithFields(ctx, fields)
	if err == nil {
		s.logg.Info(logCtx, "cart.mutation")
		return
	}
	if pkgerrors.HasCode(err, pkgerrors.CodeValidation) || pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		s.logg.Warn(s.logg.WithField(logCtx, "reason", err.Error()), "cart.mutation rejected")
		return
	}
	s.logg.Error(logCtx, "cart.mutation failed", err)
}
