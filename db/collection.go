package db

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/ltman/goldleaf/registry"
	"bitbucket.org/ltman/goldleaf/schema"
)

// ErrNotMatched is returned by Save when the identity filter does not match
// exactly one document.
var ErrNotMatched = errors.New("identity filter did not match exactly one document")

// Collection binds a registered record type to a store.
type Collection[T any] struct {
	store    Store
	compiled *schema.Compiled
}

// NewCollection looks T up in the default registry.
func NewCollection[T any](store Store) (*Collection[T], error) {
	return NewCollectionFrom[T](registry.Default, store)
}

func NewCollectionFrom[T any](r *registry.Registry, store Store) (*Collection[T], error) {
	compiled, err := registry.Lookup[T](r)
	if err != nil {
		return nil, err
	}
	return &Collection[T]{store: store, compiled: compiled}, nil
}

func (c *Collection[T]) Name() string {
	return c.compiled.Identity.Collection
}

// Save replaces the stored document carrying the same identity as record.
// It never inserts.
func (c *Collection[T]) Save(ctx context.Context, record *T) error {
	identity := c.compiled.Identity

	key, err := identity.KeyValue(record)
	if err != nil {
		return fmt.Errorf("reading %s identity: %w", identity.Collection, err)
	}

	res, err := c.store.ReplaceOne(ctx, identity.Collection, identity.Filter(key), record)
	if err != nil {
		return fmt.Errorf("replacing %s document: %w", identity.Collection, err)
	}
	if res.MatchedCount != 1 {
		return fmt.Errorf("%w: %s matched %d documents by %s", ErrNotMatched, identity.Collection, res.MatchedCount, identity.KeyField)
	}
	return nil
}

func (c *Collection[T]) CreateIndices(ctx context.Context) error {
	return CreateIndices(ctx, c.store, c.compiled)
}

// CreateIndices creates every compiled index in build order. The first
// failure stops the run; indexes created before it are left in place.
func CreateIndices(ctx context.Context, store Store, compiled *schema.Compiled) error {
	collection := compiled.Identity.Collection
	for i, model := range compiled.Models() {
		if _, err := store.CreateIndex(ctx, collection, model); err != nil {
			return fmt.Errorf("creating index %d of %s: %w", i, collection, err)
		}
	}
	return nil
}
