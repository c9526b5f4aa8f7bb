package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
)

func TestSupplierTransitions(t *testing.T) {
	cases := []struct {
		from, to SupplierStatus
		ok       bool
	}{
		{SupplierStatusPending, SupplierStatusApproved, true},
		{SupplierStatusPending, SupplierStatusRejected, true},
		{SupplierStatusPending, SupplierStatusHidden, false},
		{SupplierStatusApproved, SupplierStatusHidden, true},
		{SupplierStatusApproved, SupplierStatusPending, false},
		{SupplierStatusHidden, SupplierStatusApproved, true},
		{SupplierStatusRejected, SupplierStatusApproved, true},
		{SupplierStatusRejected, SupplierStatusHidden, false},
		{SupplierStatusHidden, SupplierStatusHidden, true},
	}

	for _, tc := range cases {
		err := tc.from.CheckTransition(tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
			continue
		}
		require.Error(t, err, "%s -> %s", tc.from, tc.to)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.True(t, apperrors.Is(err, apperrors.TypeConflict))
	}
}

func TestSupplierUnknownStatus(t *testing.T) {
	err := SupplierStatusPending.CheckTransition("archived")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))
}

func TestServiceTransitions(t *testing.T) {
	assert.NoError(t, ServiceStatusPending.CheckTransition(ServiceStatusResponded))
	assert.NoError(t, ServiceStatusResponded.CheckTransition(ServiceStatusResponded))
	assert.NoError(t, ServiceStatusResponded.CheckTransition(ServiceStatusCompleted))
	assert.NoError(t, ServiceStatusAccepted.CheckTransition(ServiceStatusCompleted))

	assert.ErrorIs(t, ServiceStatusPending.CheckTransition(ServiceStatusCompleted), ErrInvalidTransition)
	assert.ErrorIs(t, ServiceStatusCompleted.CheckTransition(ServiceStatusPending), ErrInvalidTransition)
	assert.ErrorIs(t, ServiceStatusRejected.CheckTransition(ServiceStatusResponded), ErrInvalidTransition)

	assert.True(t, ServiceStatusCompleted.Terminal())
	assert.True(t, ServiceStatusRejected.Terminal())
	assert.False(t, ServiceStatusAccepted.Terminal())
}

func TestSupplierPatchApply(t *testing.T) {
	site := "https://example.com"
	s := Supplier{ID: "1", Name: "Old", Category: "A", Status: SupplierStatusApproved}
	name := "New"
	tags := []string{"forno"}
	hidden := SupplierStatusHidden

	SupplierPatch{Name: &name, Website: &site, Tags: &tags, Status: &hidden}.Apply(&s)

	assert.Equal(t, "New", s.Name)
	assert.Equal(t, "A", s.Category)
	require.NotNil(t, s.Website)
	assert.Equal(t, site, *s.Website)
	assert.Equal(t, []string{"forno"}, s.Tags)
	assert.Equal(t, SupplierStatusHidden, s.Status)

	tags[0] = "changed"
	assert.Equal(t, "forno", s.Tags[0])
}

func TestCloneDetachesPointers(t *testing.T) {
	price := "R$ 10"
	r := ServiceRequest{ID: "1", SupplierResponse: &SupplierResponse{Message: "ok", Price: &price}}
	c := r.Clone()
	*c.SupplierResponse.Price = "R$ 20"
	c.SupplierResponse.Message = "changed"

	assert.Equal(t, "R$ 10", *r.SupplierResponse.Price)
	assert.Equal(t, "ok", r.SupplierResponse.Message)
}
