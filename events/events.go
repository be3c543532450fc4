package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingCreated       = "BookingCreated"
	EventBookingStatusChanged = "BookingStatusChanged"
	EventBookingDeleted       = "BookingDeleted"
	EventShiftStarted         = "ShiftStarted"
	EventShiftEnded           = "ShiftEnded"
	EventShiftAdded           = "ShiftAdded"
	EventStaffCreated         = "StaffCreated"
	EventMessageSent          = "MessageSent"
	EventMenuChanged          = "MenuChanged"
	EventReviewSubmitted      = "ReviewSubmitted"
)

const producerName = "restaurant-booking"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

func NewEnvelope(eventType, correlationID string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producerName,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

// Publisher emits domain events. Publishing is best effort and never retried.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload interface{}) error
}

type Noop struct{}

func (Noop) Publish(context.Context, string, string, interface{}) error { return nil }

// Recorder keeps published envelopes in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) Publish(_ context.Context, eventType, key string, payload interface{}) error {
	env, err := NewEnvelope(eventType, key, payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, env)
	return nil
}

func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.EventType)
	}
	return out
}
