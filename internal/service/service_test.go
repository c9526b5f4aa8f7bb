package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gmviana11/fornecedor-conecta/internal/events/eventstest"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
	"github.com/gmviana11/fornecedor-conecta/internal/search"
	"github.com/gmviana11/fornecedor-conecta/internal/security"
	"github.com/gmviana11/fornecedor-conecta/internal/seed"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

var testParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store     *store.MemoryStore
	recorder  *eventstest.Recorder
	index     *search.MemoryIndex
	suppliers *repository.SupplierRepository
	requests  *repository.ServiceRequestRepository
	users     *repository.UserRepository

	supplierSvc *SupplierService
	requestSvc  *RequestService
	leadSvc     *LeadService
	statsSvc    *StatsService
	exportSvc   *ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	ms := store.NewMemoryStore()
	require.NoError(t, seed.Initialize(ctx, ms, log))

	var n atomic.Int64
	opts := []repository.Option{
		repository.WithClock(func() time.Time { return fixedNow }),
		repository.WithIDGenerator(func() string { return fmt.Sprintf("new-%d", n.Add(1)) }),
	}

	suppliers, err := repository.NewSupplierRepository(ctx, ms, opts...)
	require.NoError(t, err)
	requests, err := repository.NewServiceRequestRepository(ctx, ms, opts...)
	require.NoError(t, err)
	users, err := repository.NewUserRepository(ctx, ms)
	require.NoError(t, err)

	f := &fixture{
		store:     ms,
		recorder:  &eventstest.Recorder{},
		index:     search.NewMemoryIndex(),
		suppliers: suppliers,
		requests:  requests,
		users:     users,
	}
	f.supplierSvc = NewSupplierService(suppliers, f.index, f.recorder, log)
	require.NoError(t, f.supplierSvc.RebuildIndex(ctx))
	f.requestSvc = NewRequestService(requests, suppliers, f.recorder, log)
	f.leadSvc = NewLeadService(suppliers, f.recorder, log)
	f.statsSvc = NewStatsService(suppliers, requests)
	f.exportSvc = NewExportService(suppliers, requests, users)
	return f
}

func (f *fixture) user(t *testing.T, id string) models.User {
	t.Helper()
	u, err := f.users.GetByID(id)
	require.NoError(t, err)
	return u
}

func supplierIDs(items []models.Supplier) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, s.ID)
	}
	return out
}

func requestIDs(items []models.ServiceRequest) []string {
	out := make([]string, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}
