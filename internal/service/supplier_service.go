package service

import (
	"context"
	"net/mail"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/events"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
	"github.com/gmviana11/fornecedor-conecta/internal/search"
)

type SupplierService struct {
	repo   *repository.SupplierRepository
	index  search.Index
	events events.Publisher
	log    zerolog.Logger
}

func NewSupplierService(repo *repository.SupplierRepository, index search.Index, publisher events.Publisher, log zerolog.Logger) *SupplierService {
	return &SupplierService{repo: repo, index: index, events: publisher, log: log}
}

func (s *SupplierService) Repository() *repository.SupplierRepository {
	return s.repo
}

// RebuildIndex pushes every stored supplier into the search index.
func (s *SupplierService) RebuildIndex(ctx context.Context) error {
	for _, sup := range s.repo.List() {
		if err := s.index.Upsert(ctx, sup); err != nil {
			return err
		}
	}
	return nil
}

func validateSupplierInput(in models.SupplierInput) error {
	required := []struct{ field, value string }{
		{"name", in.Name},
		{"category", in.Category},
		{"description", in.Description},
		{"phone", in.Phone},
		{"email", in.Email},
		{"address", in.Address},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperrors.NewValidation("invalid email %q", in.Email)
	}
	return nil
}

func trimInput(in models.SupplierInput) models.SupplierInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	if in.Website != nil {
		w := strings.TrimSpace(*in.Website)
		if w == "" {
			in.Website = nil
		} else {
			in.Website = &w
		}
	}
	tags := in.Tags[:0:0]
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	in.Tags = tags
	if len(in.Tags) == 0 {
		in.Tags = nil
	}
	return in
}

// Register stores a new supplier in pending status.
func (s *SupplierService) Register(ctx context.Context, input models.SupplierInput) (models.Supplier, error) {
	input = trimInput(input)
	if err := validateSupplierInput(input); err != nil {
		return models.Supplier{}, err
	}

	supplier, err := s.repo.Create(ctx, input)
	if err != nil {
		return models.Supplier{}, err
	}

	s.reindex(ctx, supplier)
	s.publish(ctx, events.TypeSupplierRegistered, supplier.ID, map[string]string{
		"name":     supplier.Name,
		"category": supplier.Category,
		"email":    supplier.Email,
	})
	return supplier, nil
}

type BrowseInput struct {
	Category string
	Query    string
}

// Browse lists approved suppliers, newest first.
func (s *SupplierService) Browse(ctx context.Context, input BrowseInput) ([]models.Supplier, error) {
	candidates := s.repo.Filter(repository.SupplierFilter{
		Statuses: []models.SupplierStatus{models.SupplierStatusApproved},
		Category: input.Category,
	})

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return candidates, nil
	}

	hits, err := s.index.Search(ctx, query)
	if err != nil {
		return nil, apperrors.NewExternal("search suppliers", err)
	}
	matched := make(map[string]struct{}, len(hits))
	for _, id := range hits {
		matched[id] = struct{}{}
	}

	// The index only narrows candidates; substring matching decides, since
	// typesense matches token prefixes with typo tolerance.
	lower := strings.ToLower(query)
	out := candidates[:0]
	for _, sup := range candidates {
		if _, ok := matched[sup.ID]; ok && repository.MatchesQuery(sup, lower) {
			out = append(out, sup)
		}
	}
	return out, nil
}

// GetPublic returns an approved supplier. Other statuses look like a miss.
func (s *SupplierService) GetPublic(id string) (models.Supplier, error) {
	sup, err := s.repo.GetByID(id)
	if err != nil {
		return models.Supplier{}, err
	}
	if sup.Status != models.SupplierStatusApproved {
		return models.Supplier{}, apperrors.NewNotFound("supplier not found: %s", id)
	}
	return sup, nil
}

// Categories lists the categories of approved suppliers, sorted.
func (s *SupplierService) Categories() []string {
	out := repository.Categories(s.repo.Filter(repository.SupplierFilter{
		Statuses: []models.SupplierStatus{models.SupplierStatusApproved},
	}))
	slices.Sort(out)
	return out
}

func (s *SupplierService) List(filter repository.SupplierFilter) []models.Supplier {
	return s.repo.Filter(filter)
}

func (s *SupplierService) Get(id string) (models.Supplier, error) {
	return s.repo.GetByID(id)
}

func (s *SupplierService) Update(ctx context.Context, id string, patch models.SupplierPatch) (models.Supplier, error) {
	before, err := s.repo.GetByID(id)
	if err != nil {
		return models.Supplier{}, err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return models.Supplier{}, err
	}
	after, err := s.repo.GetByID(id)
	if err != nil {
		return models.Supplier{}, err
	}

	s.reindex(ctx, after)
	if after.Status != before.Status {
		s.publishStatus(ctx, after, before.Status)
	}
	return after, nil
}

func (s *SupplierService) Approve(ctx context.Context, id string) (models.Supplier, error) {
	return s.transition(ctx, id, s.repo.Approve)
}

func (s *SupplierService) Reject(ctx context.Context, id string) (models.Supplier, error) {
	return s.transition(ctx, id, s.repo.Reject)
}

func (s *SupplierService) Hide(ctx context.Context, id string) (models.Supplier, error) {
	return s.transition(ctx, id, s.repo.Hide)
}

func (s *SupplierService) transition(ctx context.Context, id string, apply func(context.Context, string) (models.Supplier, error)) (models.Supplier, error) {
	before, err := s.repo.GetByID(id)
	if err != nil {
		return models.Supplier{}, err
	}
	after, err := apply(ctx, id)
	if err != nil {
		return models.Supplier{}, err
	}
	s.reindex(ctx, after)
	if after.Status != before.Status {
		s.publishStatus(ctx, after, before.Status)
	}
	return after, nil
}

func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.index.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("supplier_id", id).Msg("remove from search index failed")
	}
	return nil
}

func (s *SupplierService) AddComment(ctx context.Context, id string, input models.CommentInput) (models.Comment, error) {
	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return models.Comment{}, apperrors.NewValidation("comment text is required")
	}
	if strings.TrimSpace(input.Author) == "" {
		input.Author = "Admin"
	}
	return s.repo.AddComment(ctx, id, input)
}

func (s *SupplierService) reindex(ctx context.Context, sup models.Supplier) {
	if err := s.index.Upsert(ctx, sup); err != nil {
		s.log.Warn().Err(err).Str("supplier_id", sup.ID).Msg("search index update failed")
	}
}

func (s *SupplierService) publishStatus(ctx context.Context, sup models.Supplier, from models.SupplierStatus) {
	s.publish(ctx, events.TypeSupplierStatusChanged, sup.ID, map[string]string{
		"name": sup.Name,
		"from": string(from),
		"to":   string(sup.Status),
	})
}

func (s *SupplierService) publish(ctx context.Context, t events.Type, subject string, payload any) {
	publish(ctx, s.events, s.log, t, subject, payload)
}

// publish never fails the caller; the write it reports already happened.
func publish(ctx context.Context, p events.Publisher, log zerolog.Logger, t events.Type, subject string, payload any) {
	e, err := events.New(t, subject, payload)
	if err == nil {
		err = p.Publish(ctx, e)
	}
	if err != nil {
		log.Warn().Err(err).Str("type", string(t)).Str("subject", subject).Msg("publish event failed")
	}
}
