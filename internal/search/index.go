package search

import (
	"context"
	"strings"
	"sync"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
)

// Index answers free-text supplier queries with matching supplier ids.
type Index interface {
	Upsert(ctx context.Context, s models.Supplier) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]string, error)
}

// MemoryIndex matches substrings of name, description and tags.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]models.Supplier
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{docs: make(map[string]models.Supplier)}
}

func (m *MemoryIndex) Upsert(_ context.Context, s models.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[s.ID] = s.Clone()
	return nil
}

func (m *MemoryIndex) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, query string) ([]string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for id, s := range m.docs {
		if query == "" || repository.MatchesQuery(s, query) {
			out = append(out, id)
		}
	}
	return out, nil
}
