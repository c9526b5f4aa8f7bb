package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gmviana11/fornecedor-conecta/internal/seed"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

// tickingClock advances one second on every call.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *tickingClock {
	return &tickingClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("new-%d", n.Add(1))
	}
}

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, seed.Initialize(context.Background(), s, zerolog.Nop()))
	return s
}

// flakyStore fails every Set while failing is true.
type flakyStore struct {
	*store.MemoryStore
	failing atomic.Bool
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failing.Load() {
		return errors.New("quota exceeded")
	}
	return f.MemoryStore.Set(ctx, key, value)
}
