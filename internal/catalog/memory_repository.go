package catalog

import (
	"context"
	"sync"
)

// memoryOverrideRepository keeps overrides in process memory. Used in tests
// and when no Mongo instance is configured.
type memoryOverrideRepository struct {
	mu        sync.RWMutex
	overrides map[string]*Override
}

func NewMemoryOverrideRepository() OverrideRepository {
	return &memoryOverrideRepository{overrides: make(map[string]*Override)}
}

func (m *memoryOverrideRepository) GetAll(ctx context.Context) ([]*Override, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Override, 0, len(m.overrides))
	for _, o := range m.overrides {
		copied := *o
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryOverrideRepository) Upsert(ctx context.Context, override *Override) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertLocked(override)
	return nil
}

func (m *memoryOverrideRepository) BulkUpsert(ctx context.Context, overrides []*Override) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range overrides {
		m.upsertLocked(o)
	}
	return nil
}

// upsertLocked merges field-by-field so a later edit to one field does not
// erase an earlier edit to another.
func (m *memoryOverrideRepository) upsertLocked(override *Override) {
	existing, ok := m.overrides[override.ProductID]
	if !ok {
		copied := *override
		m.overrides[override.ProductID] = &copied
		return
	}
	if override.Brand != nil {
		existing.Brand = override.Brand
	}
	if override.Name != nil {
		existing.Name = override.Name
	}
	if override.PriceUSD != nil {
		existing.PriceUSD = override.PriceUSD
	}
	if override.Scents != nil {
		existing.Scents = override.Scents
	}
	if override.MarginPct != nil {
		existing.MarginPct = override.MarginPct
	}
	if override.Stock != nil {
		existing.Stock = override.Stock
	}
}
