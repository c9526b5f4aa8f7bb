package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

// Initialize writes the reference dataset for every collection that has no
// stored value yet. Existing values are never touched.
func Initialize(ctx context.Context, s store.Store, log zerolog.Logger) error {
	collections := []struct {
		key  string
		data any
	}{
		{store.KeySuppliers, Suppliers()},
		{store.KeyUsers, Users()},
		{store.KeyServices, ServiceRequests()},
	}

	for _, c := range collections {
		exists, err := store.Exists(ctx, s, c.key)
		if err != nil {
			return fmt.Errorf("check %s: %w", c.key, err)
		}
		if exists {
			continue
		}
		if err := store.SetJSON(ctx, s, c.key, c.data); err != nil {
			return err
		}
		log.Info().Str("key", c.key).Msg("seeded collection")
	}
	return nil
}
