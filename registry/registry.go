// Package registry keeps the compiled schema of every record type, keyed by
// the record's Go type. Types are registered once at start-up and only looked
// up afterwards.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"bitbucket.org/ltman/goldleaf/schema"
)

var (
	ErrNotRegistered     = errors.New("record type is not registered")
	ErrAlreadyRegistered = errors.New("record type is already registered")
)

// Default is the process-wide registry.
var Default = New()

type Registry struct {
	mu      sync.RWMutex
	schemas map[reflect.Type]*schema.Compiled
}

func New() *Registry {
	return &Registry{schemas: make(map[reflect.Type]*schema.Compiled)}
}

type options struct {
	expirationSecs uint64
}

type Option func(*options)

// WithExpiration expires every record of the type after secs seconds.
func WithExpiration(secs uint64) Option {
	return func(o *options) { o.expirationSecs = secs }
}

// Register compiles the db struct tags of T and stores the result.
func Register[T any](r *Registry, collection string, opts ...Option) (*schema.Compiled, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t := typeOf[T]()
	decl, err := schema.FromType(t, collection, o.expirationSecs)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", t, err)
	}
	compiled, err := schema.Compile(decl)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", t, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[t]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, t)
	}
	r.schemas[t] = compiled
	return compiled, nil
}

// MustRegister is like Register but panics, for use in package-level vars.
func MustRegister[T any](r *Registry, collection string, opts ...Option) *schema.Compiled {
	compiled, err := Register[T](r, collection, opts...)
	if err != nil {
		panic(err)
	}
	return compiled
}

func Lookup[T any](r *Registry) (*schema.Compiled, error) {
	t := typeOf[T]()

	r.mu.RLock()
	defer r.mu.RUnlock()
	compiled, ok := r.schemas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}
	return compiled, nil
}

// Collections lists the registered collections in no particular order.
func (r *Registry) Collections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.schemas))
	for _, c := range r.schemas {
		out = append(out, c.Identity.Collection)
	}
	return out
}

// typeOf strips pointers so T and *T share one entry.
func typeOf[T any]() reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
