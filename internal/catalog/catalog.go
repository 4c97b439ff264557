package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/esencia-ar/backend/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// OverrideRepository persists per-product edits made through the admin
// surface.
type OverrideRepository interface {
	GetAll(ctx context.Context) ([]*Override, error)
	Upsert(ctx context.Context, override *Override) error
	BulkUpsert(ctx context.Context, overrides []*Override) error
}

// Service serves the product catalog: a fixed base set merged with whatever
// overrides the admin has stored.
type Service struct {
	base      []domain.Product
	overrides OverrideRepository
}

func NewService(base []domain.Product, overrides OverrideRepository) *Service {
	return &Service{base: base, overrides: overrides}
}

// Products returns the base catalog with stored overrides applied. Products
// missing an explicit margin get the default.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	stored, err := s.overrides.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}

	byID := make(map[string]*Override, len(stored))
	for _, o := range stored {
		byID[o.ProductID] = o
	}

	out := make([]domain.Product, len(s.base))
	for i, p := range s.base {
		if o, ok := byID[p.ID]; ok {
			o.apply(&p)
		}
		if p.MarginPct == 0 {
			p.MarginPct = domain.DefaultMarginPct
		}
		out[i] = p
	}
	return out, nil
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// ApplyOverride stores a partial edit for one product.
func (s *Service) ApplyOverride(ctx context.Context, override *Override) error {
	if !s.knownProduct(override.ProductID) {
		return ErrProductNotFound
	}
	return s.overrides.Upsert(ctx, override)
}

// ApplyOverrides stores a batch of partial edits, rejecting the whole batch
// when any product id is unknown.
func (s *Service) ApplyOverrides(ctx context.Context, overrides []*Override) error {
	for _, o := range overrides {
		if !s.knownProduct(o.ProductID) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, o.ProductID)
		}
	}
	return s.overrides.BulkUpsert(ctx, overrides)
}

func (s *Service) knownProduct(id string) bool {
	for _, p := range s.base {
		if p.ID == id {
			return true
		}
	}
	return false
}
