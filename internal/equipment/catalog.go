package equipment

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Catalog resolves an item id to an item. Implementations return
// domain.ErrItemNotFound (possibly wrapped) when the id is unknown.
type Catalog interface {
	Get(ctx context.Context, id string) (*domain.Item, error)
}

// CatalogFunc adapts a plain function to the Catalog interface
type CatalogFunc func(ctx context.Context, id string) (*domain.Item, error)

// Get calls f(ctx, id)
func (f CatalogFunc) Get(ctx context.Context, id string) (*domain.Item, error) {
	return f(ctx, id)
}

// StaticCatalog is an in-memory item table keyed by normalized id
type StaticCatalog struct {
	items map[string]domain.Item
}

// NewStaticCatalog indexes items by their normalized id. Later duplicates
// replace earlier ones.
func NewStaticCatalog(items []domain.Item) *StaticCatalog {
	c := &StaticCatalog{items: make(map[string]domain.Item, len(items))}
	for _, it := range items {
		it.ID = NormalizeID(it.ID)
		c.items[it.ID] = it
	}
	return c
}

// Get returns a copy of the catalog entry
func (c *StaticCatalog) Get(_ context.Context, id string) (*domain.Item, error) {
	it, ok := c.items[NormalizeID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	out := it
	out.Effects = append([]domain.Effect(nil), it.Effects...)
	return &out, nil
}

// Len returns the number of items in the catalog
func (c *StaticCatalog) Len() int {
	return len(c.items)
}

// Chain tries each catalog in order and returns the first hit.
// Errors other than not-found stop the chain.
type Chain []Catalog

// Get walks the chain
func (ch Chain) Get(ctx context.Context, id string) (*domain.Item, error) {
	for _, c := range ch {
		it, err := c.Get(ctx, id)
		if err == nil {
			return it, nil
		}
		if !errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
}
