package models

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
)

// ErrInvalidTransition is wrapped by every rejected status change.
var ErrInvalidTransition = errors.New("invalid status transition")

type SupplierStatus string

const (
	SupplierStatusPending  SupplierStatus = "pending"
	SupplierStatusApproved SupplierStatus = "approved"
	SupplierStatusRejected SupplierStatus = "rejected"
	SupplierStatusHidden   SupplierStatus = "hidden"
)

var supplierTransitions = map[SupplierStatus][]SupplierStatus{
	SupplierStatusPending:  {SupplierStatusApproved, SupplierStatusRejected},
	SupplierStatusApproved: {SupplierStatusHidden, SupplierStatusRejected},
	SupplierStatusRejected: {SupplierStatusApproved},
	SupplierStatusHidden:   {SupplierStatusApproved},
}

func (s SupplierStatus) Valid() bool {
	_, ok := supplierTransitions[s]
	return ok
}

// CheckTransition returns nil when a supplier in status s may move to next.
// Re-applying the current status is always allowed.
func (s SupplierStatus) CheckTransition(next SupplierStatus) error {
	if !next.Valid() {
		return apperrors.NewValidation("unknown supplier status %q", next)
	}
	if s == next || slices.Contains(supplierTransitions[s], next) {
		return nil
	}
	return &apperrors.AppError{
		Type:    apperrors.TypeConflict,
		Message: fmt.Sprintf("supplier cannot move from %s to %s", s, next),
		Err:     ErrInvalidTransition,
	}
}

type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Supplier struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email"`
	Website     *string        `json:"website,omitempty"`
	Address     string         `json:"address"`
	Tags        []string       `json:"tags,omitempty"`
	Status      SupplierStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Comments    []Comment      `json:"comments"`
}

// Clone returns a copy that shares no mutable state with s.
func (s Supplier) Clone() Supplier {
	out := s
	if s.Website != nil {
		w := *s.Website
		out.Website = &w
	}
	out.Tags = slices.Clone(s.Tags)
	out.Comments = slices.Clone(s.Comments)
	if out.Comments == nil {
		out.Comments = []Comment{}
	}
	return out
}

// SupplierInput holds the fields accepted when a supplier registers.
type SupplierInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Website     *string  `json:"website,omitempty"`
	Address     string   `json:"address"`
	Tags        []string `json:"tags,omitempty"`
}

// SupplierPatch is a partial update; nil fields are left untouched.
type SupplierPatch struct {
	Name        *string         `json:"name,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Description *string         `json:"description,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Website     *string         `json:"website,omitempty"`
	Address     *string         `json:"address,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
	Status      *SupplierStatus `json:"status,omitempty"`
}

// Apply merges the non-nil fields of p into s. Status is copied as is;
// callers validate it first.
func (p SupplierPatch) Apply(s *Supplier) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Website != nil {
		w := *p.Website
		s.Website = &w
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.Tags != nil {
		s.Tags = slices.Clone(*p.Tags)
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
}

type CommentInput struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}
