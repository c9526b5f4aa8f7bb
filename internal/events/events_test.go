package events

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func TestValuesRoundTrip(t *testing.T) {
	e, err := New(TypeLeadCaptured, "1", leadPayload{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	back, err := FromValues(e.Values())
	require.NoError(t, err)
	assert.Equal(t, TypeLeadCaptured, back.Type)
	assert.Equal(t, "1", back.Subject)
	assert.True(t, e.OccurredAt.Equal(back.OccurredAt))

	var p leadPayload
	require.NoError(t, back.Decode(&p))
	assert.Equal(t, "Ana", p.Name)
}

func TestFromValuesRequiresType(t *testing.T) {
	_, err := FromValues(map[string]any{"subject": "1"})
	assert.Error(t, err)

	_, err = FromValues(map[string]any{"type": "x", "occurred_at": "yesterday"})
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	e, err := New(TypeRequestCreated, "42", map[string]string{"title": "Forno"})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), e))

	assert.Contains(t, buf.String(), `"type":"request.created"`)
	assert.Contains(t, buf.String(), `"title":"Forno"`)
}
