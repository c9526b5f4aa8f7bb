package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/events"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
)

func validLead() models.Lead {
	return models.Lead{
		Name:       "Ana Costa",
		Email:      "ana@franquia.example.com",
		Phone:      "(21) 91111-2222",
		Company:    "Franquia Sabor",
		SupplierID: "1",
	}
}

func TestCaptureLead(t *testing.T) {
	f := newFixture(t)

	lead, err := f.leadSvc.Capture(context.Background(), validLead())
	require.NoError(t, err)
	assert.Equal(t, "Equipamentos Gastronômicos Silva", lead.SupplierName)
	assert.False(t, lead.CreatedAt.IsZero())

	evts := f.recorder.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeLeadCaptured, evts[0].Type)
	assert.Equal(t, "1", evts[0].Subject)

	var got models.Lead
	require.NoError(t, evts[0].Decode(&got))
	assert.Equal(t, "Franquia Sabor", got.Company)
}

func TestCaptureLeadValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validLead()
	in.Company = " "
	_, err := f.leadSvc.Capture(ctx, in)
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))

	in = validLead()
	in.SupplierID = "2"
	_, err = f.leadSvc.Capture(ctx, in)
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))

	assert.Empty(t, f.recorder.Events())
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("broker down")
}

func TestCaptureLeadPublishFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewLeadService(f.suppliers, failingPublisher{}, zerolog.Nop())

	_, err := svc.Capture(context.Background(), validLead())
	assert.Equal(t, apperrors.TypeExternal, apperrors.TypeOf(err))
}

func TestPublishFailureDoesNotFailWrites(t *testing.T) {
	f := newFixture(t)
	svc := NewSupplierService(f.suppliers, f.index, failingPublisher{}, zerolog.Nop())

	sup, err := svc.Approve(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, models.SupplierStatusApproved, sup.Status)
}
