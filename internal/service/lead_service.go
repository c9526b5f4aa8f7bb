package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/events"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
)

// LeadService captures contact requests from anonymous visitors. Leads are
// not stored; they only travel as events.
type LeadService struct {
	suppliers *repository.SupplierRepository
	events    events.Publisher
	log       zerolog.Logger
	now       func() time.Time
}

func NewLeadService(suppliers *repository.SupplierRepository, publisher events.Publisher, log zerolog.Logger) *LeadService {
	return &LeadService{
		suppliers: suppliers,
		events:    publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *LeadService) Capture(ctx context.Context, lead models.Lead) (models.Lead, error) {
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)
	lead.Phone = strings.TrimSpace(lead.Phone)
	lead.Company = strings.TrimSpace(lead.Company)
	lead.Message = strings.TrimSpace(lead.Message)

	if lead.Name == "" || lead.Email == "" || lead.Phone == "" || lead.Company == "" {
		return models.Lead{}, apperrors.NewValidation("name, email, phone and company are required")
	}
	if _, err := mail.ParseAddress(lead.Email); err != nil {
		return models.Lead{}, apperrors.NewValidation("invalid email %q", lead.Email)
	}

	if lead.SupplierID != "" {
		sup, err := s.suppliers.GetByID(lead.SupplierID)
		if err != nil {
			return models.Lead{}, err
		}
		if sup.Status != models.SupplierStatusApproved {
			return models.Lead{}, apperrors.NewNotFound("supplier not found: %s", lead.SupplierID)
		}
		lead.SupplierName = sup.Name
	}
	lead.CreatedAt = s.now()

	e, err := events.New(events.TypeLeadCaptured, lead.SupplierID, lead)
	if err != nil {
		return models.Lead{}, apperrors.NewInternal("encode lead", err)
	}
	if err := s.events.Publish(ctx, e); err != nil {
		return models.Lead{}, apperrors.NewExternal("publish lead", err)
	}

	s.log.Info().Str("supplier_id", lead.SupplierID).Str("company", lead.Company).Msg("lead captured")
	return lead, nil
}
