package jobs

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmviana11/fornecedor-conecta/internal/config"
	"github.com/gmviana11/fornecedor-conecta/internal/service"
)

type staticSnapshot struct {
	at  time.Time
	err error
}

func (s staticSnapshot) SnapshotJSON() ([]byte, time.Time, error) {
	if s.err != nil {
		return nil, time.Time{}, s.err
	}
	return []byte(`{"mxs-suppliers":[]}`), s.at, nil
}

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryObjects) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return nil
}

type fixedAlerts []service.Alert

func (f fixedAlerts) Alerts() []service.Alert { return f }

func TestRunSnapshot(t *testing.T) {
	at := time.Date(2025, 3, 1, 3, 0, 5, 0, time.UTC)
	objects := &memoryObjects{}
	s := NewScheduler(config.JobsConfig{}, staticSnapshot{at: at}, objects, fixedAlerts{}, nil, zerolog.Nop())

	key, err := s.RunSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snapshots/2025/03/01/030005.json", key)
	assert.JSONEq(t, `{"mxs-suppliers":[]}`, string(objects.objects[key]))
}

func TestRunSnapshotErrors(t *testing.T) {
	s := NewScheduler(config.JobsConfig{}, staticSnapshot{}, nil, fixedAlerts{}, nil, zerolog.Nop())
	_, err := s.RunSnapshot(context.Background())
	assert.Error(t, err)

	s = NewScheduler(config.JobsConfig{}, staticSnapshot{err: errors.New("boom")}, &memoryObjects{}, fixedAlerts{}, nil, zerolog.Nop())
	_, err = s.RunSnapshot(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestReportAlerts(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	s := NewScheduler(config.JobsConfig{}, staticSnapshot{}, nil, fixedAlerts{
		{Level: service.AlertError, Message: "Alto índice de rejeições de fornecedores", Action: "analyze"},
	}, nil, log)

	s.ReportAlerts()
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "analyze")
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(config.JobsConfig{AlertSchedule: "not a schedule"}, staticSnapshot{}, nil, fixedAlerts{}, nil, zerolog.Nop())
	assert.Error(t, s.Start())

	s = NewScheduler(config.JobsConfig{SnapshotSchedule: "0 3 * * *", AlertSchedule: "@hourly"}, staticSnapshot{}, &memoryObjects{}, fixedAlerts{}, nil, zerolog.Nop())
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}

type countingSweeper struct{ calls int }

func (c *countingSweeper) Sweep(context.Context) (int, error) {
	c.calls++
	return 2, nil
}

func TestSweepSessions(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(config.JobsConfig{}, staticSnapshot{}, nil, fixedAlerts{}, sweeper, zerolog.Nop())

	n, err := s.SweepSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, sweeper.calls)

	n, err = NewScheduler(config.JobsConfig{}, staticSnapshot{}, nil, fixedAlerts{}, nil, zerolog.Nop()).SweepSessions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	s = NewScheduler(config.JobsConfig{SessionSweepSchedule: "@every 15m"}, staticSnapshot{}, nil, fixedAlerts{}, sweeper, zerolog.Nop())
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}
