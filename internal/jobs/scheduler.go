package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/config"
	"github.com/gmviana11/fornecedor-conecta/internal/service"
)

const snapshotTimeout = time.Minute

type SnapshotSource interface {
	SnapshotJSON() ([]byte, time.Time, error)
}

type ObjectWriter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type AlertSource interface {
	Alerts() []service.Alert
}

type SessionSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Scheduler runs the periodic snapshot upload, alert report and session
// sweep. Objects may be nil, in which case snapshots are skipped.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.JobsConfig
	snapshots SnapshotSource
	objects   ObjectWriter
	alerts    AlertSource
	sessions  SessionSweeper
	log       zerolog.Logger
}

func NewScheduler(cfg config.JobsConfig, snapshots SnapshotSource, objects ObjectWriter, alerts AlertSource, sessions SessionSweeper, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		cfg:       cfg,
		snapshots: snapshots,
		objects:   objects,
		alerts:    alerts,
		sessions:  sessions,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if s.objects != nil && s.cfg.SnapshotSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.SnapshotSchedule, s.snapshotJob); err != nil {
			return fmt.Errorf("schedule snapshot: %w", err)
		}
	}
	if s.cfg.AlertSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.AlertSchedule, s.ReportAlerts); err != nil {
			return fmt.Errorf("schedule alerts: %w", err)
		}
	}
	if s.sessions != nil && s.cfg.SessionSweepSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.SessionSweepSchedule, s.sweepJob); err != nil {
			return fmt.Errorf("schedule session sweep: %w", err)
		}
	}

	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) snapshotJob() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if _, err := s.RunSnapshot(ctx); err != nil {
		s.log.Error().Err(err).Msg("snapshot failed")
	}
}

func (s *Scheduler) sweepJob() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if _, err := s.SweepSessions(ctx); err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
	}
}

// SweepSessions drops expired login sessions and returns how many went.
func (s *Scheduler) SweepSessions(ctx context.Context) (int, error) {
	if s.sessions == nil {
		return 0, nil
	}
	return s.sessions.Sweep(ctx)
}

// RunSnapshot uploads one snapshot and returns its object key.
func (s *Scheduler) RunSnapshot(ctx context.Context) (string, error) {
	if s.objects == nil {
		return "", fmt.Errorf("no object store configured")
	}
	data, takenAt, err := s.snapshots.SnapshotJSON()
	if err != nil {
		return "", err
	}
	key := SnapshotKey(takenAt)
	if err := s.objects.Put(ctx, key, data, "application/json"); err != nil {
		return "", err
	}
	s.log.Info().Str("key", key).Int("bytes", len(data)).Msg("snapshot uploaded")
	return key, nil
}

func SnapshotKey(t time.Time) string {
	return "snapshots/" + t.UTC().Format("2006/01/02/150405") + ".json"
}

// ReportAlerts logs the current dashboard alerts.
func (s *Scheduler) ReportAlerts() {
	alerts := s.alerts.Alerts()
	for _, a := range alerts {
		event := s.log.Info()
		switch a.Level {
		case service.AlertError:
			event = s.log.Error()
		case service.AlertWarning:
			event = s.log.Warn()
		}
		event.Str("action", a.Action).Msg(a.Message)
	}
	if len(alerts) == 0 {
		s.log.Debug().Msg("no marketplace alerts")
	}
}
