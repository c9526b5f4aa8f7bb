package repository

import (
	"context"
	"errors"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

var ErrSupplierNotFound = errors.New("supplier not found")

type SupplierRepository struct {
	col  *collection[models.Supplier]
	opts options
}

// NewSupplierRepository loads the supplier collection once. A missing
// collection starts empty; malformed data is an error.
func NewSupplierRepository(ctx context.Context, s store.Store, opts ...Option) (*SupplierRepository, error) {
	col, err := loadCollection[models.Supplier](ctx, s, store.KeySuppliers)
	if err != nil {
		return nil, err
	}
	return &SupplierRepository{col: col, opts: buildOptions(opts)}, nil
}

func (r *SupplierRepository) List() []models.Supplier {
	var out []models.Supplier
	r.col.read(func(items []models.Supplier) {
		out = make([]models.Supplier, 0, len(items))
		for _, s := range items {
			out = append(out, s.Clone())
		}
	})
	return out
}

func (r *SupplierRepository) GetByID(id string) (models.Supplier, error) {
	var (
		found models.Supplier
		ok    bool
	)
	r.col.read(func(items []models.Supplier) {
		for _, s := range items {
			if s.ID == id {
				found, ok = s.Clone(), true
				return
			}
		}
	})
	if !ok {
		return models.Supplier{}, notFound(ErrSupplierNotFound, id)
	}
	return found, nil
}

// Filter returns the suppliers matching f, newest first.
func (r *SupplierRepository) Filter(f SupplierFilter) []models.Supplier {
	return FilterSuppliers(r.List(), f)
}

func (r *SupplierRepository) Create(ctx context.Context, input models.SupplierInput) (models.Supplier, error) {
	now := r.opts.now()
	supplier := models.Supplier{
		ID:          r.opts.newID(),
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Phone:       input.Phone,
		Email:       input.Email,
		Website:     input.Website,
		Address:     input.Address,
		Tags:        input.Tags,
		Status:      models.SupplierStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		Comments:    []models.Comment{},
	}
	supplier = supplier.Clone()

	err := r.col.update(ctx, func(items []models.Supplier) ([]models.Supplier, error) {
		return append(items, supplier), nil
	})
	if err != nil {
		return models.Supplier{}, err
	}
	return supplier.Clone(), nil
}

// Update merges patch into the supplier. A status in the patch must be a
// permitted transition from the current one.
func (r *SupplierRepository) Update(ctx context.Context, id string, patch models.SupplierPatch) error {
	_, err := r.mutate(ctx, id, func(s *models.Supplier) error {
		if patch.Status != nil {
			if err := s.Status.CheckTransition(*patch.Status); err != nil {
				return err
			}
		}
		patch.Apply(s)
		return nil
	})
	return err
}

// Delete removes the supplier. Deleting an unknown id is a no-op.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return r.col.update(ctx, func(items []models.Supplier) ([]models.Supplier, error) {
		out := items[:0]
		for _, s := range items {
			if s.ID != id {
				out = append(out, s)
			}
		}
		if len(out) == len(items) {
			return nil, errUnchanged
		}
		return out, nil
	})
}

func (r *SupplierRepository) AddComment(ctx context.Context, supplierID string, input models.CommentInput) (models.Comment, error) {
	comment := models.Comment{
		ID:     r.opts.newID(),
		Text:   input.Text,
		Author: input.Author,
	}
	_, err := r.mutate(ctx, supplierID, func(s *models.Supplier) error {
		comment.CreatedAt = r.opts.now()
		s.Comments = append(s.Comments, comment)
		return nil
	})
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

func (r *SupplierRepository) Approve(ctx context.Context, id string) (models.Supplier, error) {
	return r.setStatus(ctx, id, models.SupplierStatusApproved)
}

func (r *SupplierRepository) Reject(ctx context.Context, id string) (models.Supplier, error) {
	return r.setStatus(ctx, id, models.SupplierStatusRejected)
}

func (r *SupplierRepository) Hide(ctx context.Context, id string) (models.Supplier, error) {
	return r.setStatus(ctx, id, models.SupplierStatusHidden)
}

func (r *SupplierRepository) setStatus(ctx context.Context, id string, next models.SupplierStatus) (models.Supplier, error) {
	return r.mutate(ctx, id, func(s *models.Supplier) error {
		if err := s.Status.CheckTransition(next); err != nil {
			return err
		}
		s.Status = next
		return nil
	})
}

func (r *SupplierRepository) mutate(ctx context.Context, id string, fn func(*models.Supplier) error) (models.Supplier, error) {
	var updated models.Supplier
	err := r.col.update(ctx, func(items []models.Supplier) ([]models.Supplier, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			s := items[i].Clone()
			if err := fn(&s); err != nil {
				return nil, err
			}
			s.UpdatedAt = touch(s.CreatedAt, r.opts.now())
			items[i] = s
			updated = s.Clone()
			return items, nil
		}
		return nil, notFound(ErrSupplierNotFound, id)
	})
	if err != nil {
		return models.Supplier{}, err
	}
	return updated, nil
}
