// Package audit records rule-set mutations as structured events. Writes are
// queued and persisted asynchronously so audit logging never slows down the
// management API.
package audit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Action constants for audit events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Status constants for audit events.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Event is one recorded rule-set mutation.
type Event struct {
	OccurredAt   time.Time      `json:"occurred_at"`
	RequestID    string         `json:"request_id,omitempty"`
	Action       string         `json:"action"`
	RuleSetID    string         `json:"rule_set_id"`
	Title        string         `json:"title,omitempty"`
	Source       Source         `json:"source"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// Source carries request metadata about who triggered the mutation.
type Source struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock with time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Service queues audit events and writes them to a sink in the background.
type Service struct {
	sink   Sink
	clock  Clock
	log    zerolog.Logger
	queue  chan Event
	stopCh chan struct{}
	done   chan struct{}
	closed int32
}

// NewService creates an audit service and starts its background worker.
func NewService(sink Sink, clock Clock, queueSize int, log zerolog.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	s := &Service{
		sink:   sink,
		clock:  clock,
		log:    log,
		queue:  make(chan Event, queueSize),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *Service) worker() {
	defer close(s.done)
	for {
		select {
		case event := <-s.queue:
			s.write(event)
		case <-s.stopCh:
			// drain remaining events before stopping
			for {
				select {
				case event := <-s.queue:
					s.write(event)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) write(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.sink.Write(ctx, event); err != nil {
		s.log.Error().Err(err).Str("rule_set_id", event.RuleSetID).Msg("audit write failed")
	}
}

// Log queues an event. Non-blocking; events are dropped when the queue is
// full rather than stalling the caller.
func (s *Service) Log(event Event) {
	if atomic.LoadInt32(&s.closed) == 1 {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.clock.Now()
	}
	if event.Status == "" {
		event.Status = StatusSuccess
	}

	select {
	case s.queue <- event:
	default:
		s.log.Warn().Str("rule_set_id", event.RuleSetID).Str("action", event.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops the worker after draining pending events. Safe to call more
// than once.
func (s *Service) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	close(s.stopCh)
	<-s.done
	return nil
}
