package repository

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/ids"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

type options struct {
	now   func() time.Time
	newID func() string
}

type Option func(*options)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the identifier source.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: ids.New,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// collection is the in-memory copy of one stored JSON array. Writers build
// the next snapshot from a clone and only swap it in after the store accepted
// it, so a failed write leaves memory untouched.
type collection[T any] struct {
	mu    sync.RWMutex
	store store.Store
	key   string
	items []T
}

func loadCollection[T any](ctx context.Context, s store.Store, key string) (*collection[T], error) {
	var items []T
	if _, err := store.GetJSON(ctx, s, key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return &collection[T]{store: s, key: key, items: items}, nil
}

func (c *collection[T]) read(fn func(items []T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.items)
}

// errUnchanged lets an update callback finish without writing.
var errUnchanged = errors.New("unchanged")

func (c *collection[T]) update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(slices.Clone(c.items))
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := store.SetJSON(ctx, c.store, c.key, next); err != nil {
		return apperrors.NewInternal("persist "+c.key, err)
	}
	c.items = next
	return nil
}

func notFound(sentinel error, id string) error {
	return &apperrors.AppError{
		Type:    apperrors.TypeNotFound,
		Message: sentinel.Error() + ": " + id,
		Err:     sentinel,
	}
}

// touch returns now, clamped so it never precedes created.
func touch(created, now time.Time) time.Time {
	if now.Before(created) {
		return created
	}
	return now
}
