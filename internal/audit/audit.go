package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Outcome classifies an audit event.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
	OutcomeWarning Outcome = "WARNING"
)

// Event is one immutable audit record. Subject is the acting identity's
// ID, or a sentinel ("unknown", "system") when no identity is
// established.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Subject   string            `json:"subject"`
	Action    string            `json:"action"`
	Outcome   Outcome           `json:"outcome"`
	IP        string            `json:"ip,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Sink receives recorded events. Implementations must tolerate
// concurrent calls; the dispatcher serializes them, but sinks are also
// usable directly.
type Sink interface {
	Record(ctx context.Context, event Event)
}

// NoOpSink discards every event.
type NoOpSink struct{}

func (NoOpSink) Record(context.Context, Event) {}

// ChannelSink forwards events into a buffered channel, for callers
// that consume the trail themselves (tests, UI log viewers).
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan Event, buffer)}
}

// Record never blocks: when the buffer is full the event is dropped,
// so an undrained sink cannot wedge the dispatcher's drain on Close.
func (s *ChannelSink) Record(_ context.Context, event Event) {
	select {
	case s.events <- event:
	default:
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink appends one JSON object per line to a writer.
type JSONWriterSink struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Record(_ context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.writer.Write(append(data, '\n'))
}
