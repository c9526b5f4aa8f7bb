package repository

import (
	"context"
	"errors"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

var ErrServiceRequestNotFound = errors.New("service request not found")

type ServiceRequestRepository struct {
	col  *collection[models.ServiceRequest]
	opts options
}

func NewServiceRequestRepository(ctx context.Context, s store.Store, opts ...Option) (*ServiceRequestRepository, error) {
	col, err := loadCollection[models.ServiceRequest](ctx, s, store.KeyServices)
	if err != nil {
		return nil, err
	}
	return &ServiceRequestRepository{col: col, opts: buildOptions(opts)}, nil
}

func (r *ServiceRequestRepository) List() []models.ServiceRequest {
	return r.where(func(models.ServiceRequest) bool { return true })
}

func (r *ServiceRequestRepository) ListByUser(userID string) []models.ServiceRequest {
	return r.where(func(sr models.ServiceRequest) bool { return sr.UserID == userID })
}

func (r *ServiceRequestRepository) ListBySupplier(supplierID string) []models.ServiceRequest {
	return r.where(func(sr models.ServiceRequest) bool { return sr.SupplierID == supplierID })
}

func (r *ServiceRequestRepository) where(match func(models.ServiceRequest) bool) []models.ServiceRequest {
	var out []models.ServiceRequest
	r.col.read(func(items []models.ServiceRequest) {
		out = make([]models.ServiceRequest, 0, len(items))
		for _, sr := range items {
			if match(sr) {
				out = append(out, sr.Clone())
			}
		}
	})
	return out
}

func (r *ServiceRequestRepository) GetByID(id string) (models.ServiceRequest, error) {
	matches := r.where(func(sr models.ServiceRequest) bool { return sr.ID == id })
	if len(matches) == 0 {
		return models.ServiceRequest{}, notFound(ErrServiceRequestNotFound, id)
	}
	return matches[0], nil
}

func (r *ServiceRequestRepository) Create(ctx context.Context, input models.ServiceRequestInput) (models.ServiceRequest, error) {
	now := r.opts.now()
	req := models.ServiceRequest{
		ID:           r.opts.newID(),
		UserID:       input.UserID,
		UserName:     input.UserName,
		SupplierID:   input.SupplierID,
		SupplierName: input.SupplierName,
		Category:     input.Category,
		Title:        input.Title,
		Description:  input.Description,
		Budget:       input.Budget,
		Status:       models.ServiceStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	req = req.Clone()

	err := r.col.update(ctx, func(items []models.ServiceRequest) ([]models.ServiceRequest, error) {
		return append(items, req), nil
	})
	if err != nil {
		return models.ServiceRequest{}, err
	}
	return req.Clone(), nil
}

// Update merges patch into the request. A status in the patch must be a
// permitted transition from the current one.
func (r *ServiceRequestRepository) Update(ctx context.Context, id string, patch models.ServiceRequestPatch) error {
	_, err := r.mutate(ctx, id, func(sr *models.ServiceRequest) error {
		if patch.Status != nil {
			if err := sr.Status.CheckTransition(*patch.Status); err != nil {
				return err
			}
		}
		patch.Apply(sr)
		return nil
	})
	return err
}

// Respond attaches the supplier's answer and marks the request responded.
// A responded request may be answered again; the new answer replaces the old.
func (r *ServiceRequestRepository) Respond(ctx context.Context, id string, input models.ResponseInput) (models.ServiceRequest, error) {
	return r.mutate(ctx, id, func(sr *models.ServiceRequest) error {
		if err := sr.Status.CheckTransition(models.ServiceStatusResponded); err != nil {
			return err
		}
		sr.Status = models.ServiceStatusResponded
		sr.SupplierResponse = &models.SupplierResponse{
			Message:     input.Message,
			Price:       input.Price,
			Timeline:    input.Timeline,
			RespondedAt: r.opts.now(),
		}
		return nil
	})
}

// Rate attaches a rating to a completed request. The status is unchanged
// and a request can be rated only once.
func (r *ServiceRequestRepository) Rate(ctx context.Context, id string, input models.RatingInput) (models.ServiceRequest, error) {
	if input.Stars < models.MinStars || input.Stars > models.MaxStars {
		return models.ServiceRequest{}, apperrors.NewValidation("stars must be between %d and %d", models.MinStars, models.MaxStars)
	}
	return r.mutate(ctx, id, func(sr *models.ServiceRequest) error {
		if sr.Status != models.ServiceStatusCompleted {
			return &apperrors.AppError{
				Type:    apperrors.TypeConflict,
				Message: "only completed requests can be rated, status is " + string(sr.Status),
				Err:     models.ErrInvalidTransition,
			}
		}
		if sr.Rating != nil {
			return apperrors.NewConflict("service request %s is already rated", sr.ID)
		}
		sr.Rating = &models.Rating{
			Stars:   input.Stars,
			Comment: input.Comment,
			RatedAt: r.opts.now(),
		}
		return nil
	})
}

func (r *ServiceRequestRepository) Accept(ctx context.Context, id string) (models.ServiceRequest, error) {
	return r.setStatus(ctx, id, models.ServiceStatusAccepted)
}

func (r *ServiceRequestRepository) Reject(ctx context.Context, id string) (models.ServiceRequest, error) {
	return r.setStatus(ctx, id, models.ServiceStatusRejected)
}

func (r *ServiceRequestRepository) Complete(ctx context.Context, id string) (models.ServiceRequest, error) {
	return r.setStatus(ctx, id, models.ServiceStatusCompleted)
}

func (r *ServiceRequestRepository) setStatus(ctx context.Context, id string, next models.ServiceStatus) (models.ServiceRequest, error) {
	return r.mutate(ctx, id, func(sr *models.ServiceRequest) error {
		if err := sr.Status.CheckTransition(next); err != nil {
			return err
		}
		sr.Status = next
		return nil
	})
}

func (r *ServiceRequestRepository) mutate(ctx context.Context, id string, fn func(*models.ServiceRequest) error) (models.ServiceRequest, error) {
	var updated models.ServiceRequest
	err := r.col.update(ctx, func(items []models.ServiceRequest) ([]models.ServiceRequest, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			sr := items[i].Clone()
			if err := fn(&sr); err != nil {
				return nil, err
			}
			sr.UpdatedAt = touch(sr.CreatedAt, r.opts.now())
			items[i] = sr
			updated = sr.Clone()
			return items, nil
		}
		return nil, notFound(ErrServiceRequestNotFound, id)
	})
	if err != nil {
		return models.ServiceRequest{}, err
	}
	return updated, nil
}
