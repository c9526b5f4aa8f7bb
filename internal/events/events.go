package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Type string

const (
	TypeLeadCaptured          Type = "lead.captured"
	TypeSupplierRegistered    Type = "supplier.registered"
	TypeSupplierStatusChanged Type = "supplier.status_changed"
	TypeRequestCreated        Type = "request.created"
	TypeRequestResponded      Type = "request.responded"
	TypeRequestStatusChanged  Type = "request.status_changed"
	TypeRequestRated          Type = "request.rated"
)

// Event is a marketplace fact published after a successful write.
type Event struct {
	Type       Type            `json:"type"`
	Subject    string          `json:"subject"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

func New(t Type, subject string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return Event{Type: t, Subject: subject, OccurredAt: time.Now().UTC(), Payload: raw}, nil
}

// Values flattens the event into redis stream fields.
func (e Event) Values() map[string]any {
	return map[string]any{
		"type":        string(e.Type),
		"subject":     e.Subject,
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
		"payload":     string(e.Payload),
	}
}

// FromValues rebuilds an event from redis stream fields.
func FromValues(values map[string]any) (Event, error) {
	str := func(k string) string {
		v, _ := values[k].(string)
		return v
	}
	e := Event{
		Type:    Type(str("type")),
		Subject: str("subject"),
		Payload: json.RawMessage(str("payload")),
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("event without type")
	}
	if ts := str("occurred_at"); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Event{}, fmt.Errorf("parse occurred_at: %w", err)
		}
		e.OccurredAt = t
	}
	if len(e.Payload) == 0 {
		e.Payload = json.RawMessage("null")
	}
	return e, nil
}

// Decode unmarshals the payload into out.
func (e Event) Decode(out any) error {
	return json.Unmarshal(e.Payload, out)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// StreamPublisher appends events to a redis stream.
type StreamPublisher struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

func NewStreamPublisher(client redis.Cmdable, stream string, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *StreamPublisher) Publish(ctx context.Context, e Event) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: e.Values(),
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.log.Info().
		Str("type", string(e.Type)).
		Str("subject", e.Subject).
		RawJSON("payload", e.Payload).
		Msg("event")
	return nil
}
