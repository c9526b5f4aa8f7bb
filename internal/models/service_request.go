package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
)

type ServiceStatus string

const (
	ServiceStatusPending   ServiceStatus = "pending"
	ServiceStatusResponded ServiceStatus = "responded"
	ServiceStatusAccepted  ServiceStatus = "accepted"
	ServiceStatusRejected  ServiceStatus = "rejected"
	ServiceStatusCompleted ServiceStatus = "completed"
)

var serviceTransitions = map[ServiceStatus][]ServiceStatus{
	ServiceStatusPending:   {ServiceStatusResponded, ServiceStatusRejected},
	ServiceStatusResponded: {ServiceStatusResponded, ServiceStatusAccepted, ServiceStatusRejected, ServiceStatusCompleted},
	ServiceStatusAccepted:  {ServiceStatusCompleted},
	ServiceStatusRejected:  {},
	ServiceStatusCompleted: {},
}

func (s ServiceStatus) Valid() bool {
	_, ok := serviceTransitions[s]
	return ok
}

// Terminal reports whether no further status change is possible.
func (s ServiceStatus) Terminal() bool {
	return len(serviceTransitions[s]) == 0
}

// CheckTransition returns nil when a request in status s may move to next.
func (s ServiceStatus) CheckTransition(next ServiceStatus) error {
	if !next.Valid() {
		return apperrors.NewValidation("unknown service status %q", next)
	}
	if s == next || slices.Contains(serviceTransitions[s], next) {
		return nil
	}
	return &apperrors.AppError{
		Type:    apperrors.TypeConflict,
		Message: fmt.Sprintf("service request cannot move from %s to %s", s, next),
		Err:     ErrInvalidTransition,
	}
}

type SupplierResponse struct {
	Message     string    `json:"message"`
	Price       *string   `json:"price,omitempty"`
	Timeline    *string   `json:"timeline,omitempty"`
	RespondedAt time.Time `json:"respondedAt"`
}

type Rating struct {
	Stars   int       `json:"stars"`
	Comment string    `json:"comment"`
	RatedAt time.Time `json:"ratedAt"`
}

type ServiceRequest struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	UserName         string            `json:"userName"`
	SupplierID       string            `json:"supplierId"`
	SupplierName     string            `json:"supplierName"`
	Category         string            `json:"category"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Budget           *string           `json:"budget,omitempty"`
	Status           ServiceStatus     `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	SupplierResponse *SupplierResponse `json:"supplierResponse,omitempty"`
	Rating           *Rating           `json:"rating,omitempty"`
}

func (r ServiceRequest) Clone() ServiceRequest {
	out := r
	if r.Budget != nil {
		b := *r.Budget
		out.Budget = &b
	}
	if r.SupplierResponse != nil {
		resp := *r.SupplierResponse
		if resp.Price != nil {
			p := *resp.Price
			resp.Price = &p
		}
		if resp.Timeline != nil {
			tl := *resp.Timeline
			resp.Timeline = &tl
		}
		out.SupplierResponse = &resp
	}
	if r.Rating != nil {
		rating := *r.Rating
		out.Rating = &rating
	}
	return out
}

type ServiceRequestInput struct {
	UserID       string  `json:"userId"`
	UserName     string  `json:"userName"`
	SupplierID   string  `json:"supplierId"`
	SupplierName string  `json:"supplierName"`
	Category     string  `json:"category"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Budget       *string `json:"budget,omitempty"`
}

// ServiceRequestPatch is a partial update; nil fields are left untouched.
type ServiceRequestPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Budget      *string        `json:"budget,omitempty"`
	Status      *ServiceStatus `json:"status,omitempty"`
}

func (p ServiceRequestPatch) Apply(r *ServiceRequest) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Budget != nil {
		b := *p.Budget
		r.Budget = &b
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
}

type ResponseInput struct {
	Message  string  `json:"message"`
	Price    *string `json:"price,omitempty"`
	Timeline *string `json:"timeline,omitempty"`
}

type RatingInput struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

const (
	MinStars = 1
	MaxStars = 5
)
