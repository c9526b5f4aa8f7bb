package tasks

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/events"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/queue"
)

type EventRecorder interface {
	RecordEvent(ctx context.Context, eventType string, err error)
}

// Processor handles marketplace events read from the stream. Handlers only
// log today; the lead handler is where outbound mail would hook in.
// Malformed events are reported as queue.ErrUnprocessable.
type Processor struct {
	logger  zerolog.Logger
	metrics EventRecorder
}

func NewProcessor(logger zerolog.Logger, metrics EventRecorder) *Processor {
	return &Processor{
		logger:  logger,
		metrics: metrics,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	e, err := events.FromValues(msg.Values)
	if err != nil {
		p.record(ctx, "invalid", err)
		return fmt.Errorf("%w: decode event %s: %w", queue.ErrUnprocessable, msg.ID, err)
	}

	err = p.dispatch(ctx, e)
	p.record(ctx, string(e.Type), err)
	return err
}

func (p *Processor) dispatch(ctx context.Context, e events.Event) error {
	log := p.logger.With().
		Str("type", string(e.Type)).
		Str("subject", e.Subject).
		Time("occurred_at", e.OccurredAt).
		Logger()

	switch e.Type {
	case events.TypeLeadCaptured:
		return p.handleLead(ctx, log, e)
	case events.TypeSupplierRegistered,
		events.TypeSupplierStatusChanged,
		events.TypeRequestCreated,
		events.TypeRequestResponded,
		events.TypeRequestStatusChanged,
		events.TypeRequestRated:
		log.Info().RawJSON("payload", e.Payload).Msg("marketplace event")
		return nil
	default:
		log.Warn().Msg("unknown event type")
		return nil
	}
}

func (p *Processor) handleLead(_ context.Context, log zerolog.Logger, e events.Event) error {
	var lead models.Lead
	if err := e.Decode(&lead); err != nil {
		return fmt.Errorf("%w: decode lead: %w", queue.ErrUnprocessable, err)
	}
	log.Info().
		Str("company", lead.Company).
		Str("email", lead.Email).
		Str("supplier_id", lead.SupplierID).
		Msg("lead received")
	return nil
}

func (p *Processor) record(ctx context.Context, eventType string, err error) {
	if p.metrics != nil {
		p.metrics.RecordEvent(ctx, eventType, err)
	}
}
