package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

func newSupplierRepo(t *testing.T, s store.Store) *SupplierRepository {
	t.Helper()
	clock := newClock()
	repo, err := NewSupplierRepository(context.Background(), s, WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	return repo
}

func TestSupplierCreate(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	repo := newSupplierRepo(t, s)

	site := "https://forno.example"
	created, err := repo.Create(ctx, models.SupplierInput{
		Name:        "Forno Bom",
		Category:    "Equipamentos de Cozinha",
		Description: "Fornos a lenha",
		Phone:       "(11) 90000-0000",
		Email:       "contato@forno.example",
		Website:     &site,
		Address:     "Rua A, 1",
	})
	require.NoError(t, err)

	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, models.SupplierStatusPending, created.Status)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Empty(t, created.Comments)
	assert.NotNil(t, created.Comments)
	assert.Len(t, repo.List(), 6)

	reloaded := newSupplierRepo(t, s)
	got, err := reloaded.GetByID("new-1")
	require.NoError(t, err)
	assert.Equal(t, "Forno Bom", got.Name)
	require.NotNil(t, got.Website)
	assert.Equal(t, site, *got.Website)
}

func TestSupplierUpdateHidesApprovedSupplier(t *testing.T) {
	ctx := context.Background()
	repo := newSupplierRepo(t, seededStore(t))
	before, err := repo.GetByID("1")
	require.NoError(t, err)

	hidden := models.SupplierStatusHidden
	require.NoError(t, repo.Update(ctx, "1", models.SupplierPatch{Status: &hidden}))

	var matches []models.Supplier
	for _, s := range repo.List() {
		if s.ID == "1" {
			matches = append(matches, s)
		}
	}
	require.Len(t, matches, 1)
	after := matches[0]
	assert.Equal(t, models.SupplierStatusHidden, after.Status)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	after.Status = before.Status
	after.UpdatedAt = before.UpdatedAt
	assert.Equal(t, before, after)
}

func TestSupplierUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	repo := newSupplierRepo(t, seededStore(t))

	phone := "(11) 91111-1111"
	tags := []string{"fogão", "chapa"}
	require.NoError(t, repo.Update(ctx, "3", models.SupplierPatch{Phone: &phone, Tags: &tags}))

	got, err := repo.GetByID("3")
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, tags, got.Tags)
	assert.Equal(t, "TechSolutions Franquias", got.Name)
	assert.Equal(t, models.SupplierStatusApproved, got.Status)
}

func TestSupplierUpdateRejectsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	repo := newSupplierRepo(t, seededStore(t))
	before, _ := repo.GetByID("2")

	hidden := models.SupplierStatusHidden
	name := "Renamed"
	err := repo.Update(ctx, "2", models.SupplierPatch{Name: &name, Status: &hidden})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	after, _ := repo.GetByID("2")
	assert.Equal(t, before, after)
}

func TestSupplierUpdateUnknownID(t *testing.T) {
	repo := newSupplierRepo(t, seededStore(t))
	before := repo.List()

	name := "ghost"
	err := repo.Update(context.Background(), "404", models.SupplierPatch{Name: &name})
	assert.ErrorIs(t, err, ErrSupplierNotFound)
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))
	assert.Equal(t, before, repo.List())
}

func TestSupplierDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	repo := newSupplierRepo(t, s)

	require.NoError(t, repo.Delete(ctx, "4"))
	require.NoError(t, repo.Delete(ctx, "4"))
	require.NoError(t, repo.Delete(ctx, "does-not-exist"))

	for _, sup := range repo.List() {
		assert.NotEqual(t, "4", sup.ID)
	}
	assert.Len(t, repo.List(), 4)
	assert.Len(t, newSupplierRepo(t, s).List(), 4)
}

func TestSupplierAddCommentAppends(t *testing.T) {
	ctx := context.Background()
	repo := newSupplierRepo(t, seededStore(t))
	before, _ := repo.GetByID("1")

	comment, err := repo.AddComment(ctx, "1", models.CommentInput{Text: "Entrega rápida", Author: "Admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.False(t, comment.CreatedAt.IsZero())

	after, _ := repo.GetByID("1")
	require.Len(t, after.Comments, len(before.Comments)+1)
	assert.Equal(t, before.Comments, after.Comments[:len(before.Comments)])
	assert.Equal(t, comment, after.Comments[len(after.Comments)-1])
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	_, err = repo.AddComment(ctx, "missing", models.CommentInput{Text: "x"})
	assert.ErrorIs(t, err, ErrSupplierNotFound)
}

func TestSupplierTransitionMethods(t *testing.T) {
	ctx := context.Background()
	repo := newSupplierRepo(t, seededStore(t))

	approved, err := repo.Approve(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, models.SupplierStatusApproved, approved.Status)

	hidden, err := repo.Hide(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, models.SupplierStatusHidden, hidden.Status)

	_, err = repo.Reject(ctx, "2")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = repo.Approve(ctx, "4")
	require.NoError(t, err)
}

func TestSupplierPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	fs := &flakyStore{MemoryStore: seededStore(t)}
	repo := newSupplierRepo(t, fs)
	before := repo.List()

	fs.failing.Store(true)
	_, err := repo.Create(ctx, models.SupplierInput{Name: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.TypeInternal))

	_, err = repo.Hide(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, before, repo.List())

	fs.failing.Store(false)
	_, err = repo.Hide(ctx, "1")
	require.NoError(t, err)
}

func TestSupplierMalformedCollection(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), store.KeySuppliers, []byte(`{"oops"`)))

	_, err := NewSupplierRepository(context.Background(), s)
	assert.Error(t, err)
}

func TestSupplierEmptyStore(t *testing.T) {
	repo, err := NewSupplierRepository(context.Background(), store.NewMemoryStore())
	require.NoError(t, err)
	assert.Empty(t, repo.List())
}

func TestSupplierConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo := newSupplierRepo(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, models.SupplierInput{Name: "concurrent"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, repo.List(), 20)
	assert.Len(t, newSupplierRepo(t, s).List(), 20)
}

func TestSupplierListReturnsCopies(t *testing.T) {
	repo := newSupplierRepo(t, seededStore(t))
	list := repo.List()
	list[0].Name = "mutated"
	list[0].Comments[0].Text = "mutated"

	got, _ := repo.GetByID(list[0].ID)
	assert.NotEqual(t, "mutated", got.Name)
	assert.NotEqual(t, "mutated", got.Comments[0].Text)
}
