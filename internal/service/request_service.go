package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/events"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
)

type RequestService struct {
	requests  *repository.ServiceRequestRepository
	suppliers *repository.SupplierRepository
	events    events.Publisher
	log       zerolog.Logger
}

func NewRequestService(
	requests *repository.ServiceRequestRepository,
	suppliers *repository.SupplierRepository,
	publisher events.Publisher,
	log zerolog.Logger,
) *RequestService {
	return &RequestService{requests: requests, suppliers: suppliers, events: publisher, log: log}
}

type CreateRequestInput struct {
	SupplierID  string  `json:"supplierId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      *string `json:"budget,omitempty"`
}

// Create opens a request from user to an approved supplier. Supplier name
// and category are copied from the supplier record.
func (s *RequestService) Create(ctx context.Context, user models.User, input CreateRequestInput) (models.ServiceRequest, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.SupplierID == "" || input.Title == "" || input.Description == "" {
		return models.ServiceRequest{}, apperrors.NewValidation("supplierId, title and description are required")
	}

	supplier, err := s.suppliers.GetByID(input.SupplierID)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if supplier.Status != models.SupplierStatusApproved {
		return models.ServiceRequest{}, apperrors.NewConflict("supplier %s is not accepting requests", supplier.ID)
	}

	budget := input.Budget
	if budget != nil && strings.TrimSpace(*budget) == "" {
		budget = nil
	}

	req, err := s.requests.Create(ctx, models.ServiceRequestInput{
		UserID:       user.ID,
		UserName:     user.Name,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Category:     supplier.Category,
		Title:        input.Title,
		Description:  input.Description,
		Budget:       budget,
	})
	if err != nil {
		return models.ServiceRequest{}, err
	}

	publish(ctx, s.events, s.log, events.TypeRequestCreated, req.ID, map[string]string{
		"user_id":     req.UserID,
		"supplier_id": req.SupplierID,
		"title":       req.Title,
	})
	return req, nil
}

func (s *RequestService) ListAll() []models.ServiceRequest {
	return s.requests.List()
}

// ListFor returns the requests visible to user.
func (s *RequestService) ListFor(user models.User) []models.ServiceRequest {
	switch user.Type {
	case models.UserTypeSuperAdmin:
		return s.requests.List()
	case models.UserTypeSupplier:
		if user.SupplierID == nil {
			return []models.ServiceRequest{}
		}
		return s.requests.ListBySupplier(*user.SupplierID)
	default:
		return s.requests.ListByUser(user.ID)
	}
}

func (s *RequestService) Get(user models.User, id string) (models.ServiceRequest, error) {
	req, err := s.requests.GetByID(id)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if !canView(user, req) {
		return models.ServiceRequest{}, apperrors.NewForbidden("not a party to this request")
	}
	return req, nil
}

func (s *RequestService) Respond(ctx context.Context, user models.User, id string, input models.ResponseInput) (models.ServiceRequest, error) {
	input.Message = strings.TrimSpace(input.Message)
	if input.Message == "" {
		return models.ServiceRequest{}, apperrors.NewValidation("response message is required")
	}
	if _, err := s.authorize(user, id, isSupplierOwner); err != nil {
		return models.ServiceRequest{}, err
	}

	req, err := s.requests.Respond(ctx, id, input)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	publish(ctx, s.events, s.log, events.TypeRequestResponded, req.ID, map[string]string{
		"supplier_id": req.SupplierID,
		"user_id":     req.UserID,
	})
	return req, nil
}

func (s *RequestService) Accept(ctx context.Context, user models.User, id string) (models.ServiceRequest, error) {
	return s.changeStatus(ctx, user, id, isRequester, s.requests.Accept)
}

func (s *RequestService) Reject(ctx context.Context, user models.User, id string) (models.ServiceRequest, error) {
	return s.changeStatus(ctx, user, id, isParty, s.requests.Reject)
}

func (s *RequestService) Complete(ctx context.Context, user models.User, id string) (models.ServiceRequest, error) {
	return s.changeStatus(ctx, user, id, isParty, s.requests.Complete)
}

func (s *RequestService) Rate(ctx context.Context, user models.User, id string, input models.RatingInput) (models.ServiceRequest, error) {
	if _, err := s.authorize(user, id, isRequester); err != nil {
		return models.ServiceRequest{}, err
	}
	input.Comment = strings.TrimSpace(input.Comment)

	req, err := s.requests.Rate(ctx, id, input)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	publish(ctx, s.events, s.log, events.TypeRequestRated, req.ID, map[string]any{
		"supplier_id": req.SupplierID,
		"stars":       req.Rating.Stars,
	})
	return req, nil
}

func (s *RequestService) changeStatus(
	ctx context.Context,
	user models.User,
	id string,
	allowed func(models.User, models.ServiceRequest) bool,
	apply func(context.Context, string) (models.ServiceRequest, error),
) (models.ServiceRequest, error) {
	before, err := s.authorize(user, id, allowed)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	after, err := apply(ctx, id)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if after.Status != before.Status {
		publish(ctx, s.events, s.log, events.TypeRequestStatusChanged, after.ID, map[string]string{
			"from": string(before.Status),
			"to":   string(after.Status),
		})
	}
	return after, nil
}

func (s *RequestService) authorize(user models.User, id string, allowed func(models.User, models.ServiceRequest) bool) (models.ServiceRequest, error) {
	req, err := s.requests.GetByID(id)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if user.Type == models.UserTypeSuperAdmin || allowed(user, req) {
		return req, nil
	}
	return models.ServiceRequest{}, apperrors.NewForbidden("not allowed to change this request")
}

func isRequester(user models.User, req models.ServiceRequest) bool {
	return user.ID == req.UserID
}

func isSupplierOwner(user models.User, req models.ServiceRequest) bool {
	return user.Type == models.UserTypeSupplier && user.SupplierID != nil && *user.SupplierID == req.SupplierID
}

func isParty(user models.User, req models.ServiceRequest) bool {
	return isRequester(user, req) || isSupplierOwner(user, req)
}

func canView(user models.User, req models.ServiceRequest) bool {
	return user.Type == models.UserTypeSuperAdmin || isParty(user, req)
}
