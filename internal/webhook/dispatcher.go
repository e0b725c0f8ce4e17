package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/govisibility/internal/telemetry"
)

const (
	queueSize = 1000

	// how much of a failed response body makes it into the log
	maxResponseBodySize = 1024
)

// Dispatcher queues rule-set change events and delivers them to matching
// endpoints in the background, with per-endpoint retry and HMAC signing.
type Dispatcher struct {
	registry *Registry
	client   *http.Client
	log      zerolog.Logger
	queue    chan Event
	done     chan struct{}
	closed   int32
}

// NewDispatcher creates a dispatcher over a registry. Call Start to begin
// delivery.
func NewDispatcher(registry *Registry, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
		queue:    make(chan Event, queueSize),
		done:     make(chan struct{}),
	}
}

// Registry exposes the subscription registry for the management API.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Start begins processing queued events.
func (d *Dispatcher) Start() {
	go d.worker()
}

// Close shuts the queue and waits for pending deliveries. Safe to call more
// than once.
func (d *Dispatcher) Close() error {
	if !atomic.CompareAndSwapInt32(&d.closed, 0, 1) {
		return nil
	}
	close(d.queue)
	<-d.done
	return nil
}

// Dispatch queues an event without blocking the caller. Events are dropped
// when the queue is full.
func (d *Dispatcher) Dispatch(event Event) {
	if atomic.LoadInt32(&d.closed) == 1 {
		return
	}
	select {
	case d.queue <- event:
	default:
		d.log.Warn().Str("event", event.Type).Str("ruleset", event.Resource.ID).Msg("webhook queue full, dropping event")
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for event := range d.queue {
		for _, ep := range d.registry.Matching(event.Type) {
			d.deliverWithRetry(context.Background(), ep, event)
		}
	}
}

func (d *Dispatcher) deliverWithRetry(ctx context.Context, ep Endpoint, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		d.log.Error().Err(err).Str("event", event.Type).Msg("webhook payload marshal failed")
		return
	}

	signature := ComputeHMAC(payload, ep.Secret)
	deliveryID := uuid.New().String()

	for attempt := 0; attempt <= ep.MaxRetries; attempt++ {
		start := time.Now()

		req, err := http.NewRequest(http.MethodPost, ep.URL, bytes.NewReader(payload))
		if err != nil {
			d.log.Error().Err(err).Str("url", ep.URL).Msg("webhook request build failed")
			telemetry.WebhookDeliveries.WithLabelValues("error").Inc()
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Visibility-Signature", signature)
		req.Header.Set("X-Visibility-Event", event.Type)
		req.Header.Set("X-Visibility-Delivery", deliveryID)

		reqCtx, cancel := context.WithTimeout(ctx, ep.Timeout)
		resp, err := d.client.Do(req.WithContext(reqCtx))

		var statusCode int
		var responseBody string
		if err == nil {
			statusCode = resp.StatusCode
			bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
			responseBody = string(bodyBytes)
			resp.Body.Close()
		}
		cancel()

		if err == nil && statusCode >= 200 && statusCode < 300 {
			telemetry.WebhookDeliveries.WithLabelValues("success").Inc()
			d.registry.Touch(ep.ID)
			d.log.Debug().
				Stringer("endpoint", ep.ID).
				Str("event", event.Type).
				Int("status", statusCode).
				Dur("duration", time.Since(start)).
				Int("attempt", attempt+1).
				Msg("webhook delivered")
			return
		}

		logEv := d.log.Warn().
			Stringer("endpoint", ep.ID).
			Str("url", ep.URL).
			Str("event", event.Type).
			Int("status", statusCode).
			Int("attempt", attempt+1)
		if err != nil {
			logEv = logEv.Err(err)
		} else if responseBody != "" {
			logEv = logEv.Str("body", responseBody)
		}

		if attempt < ep.MaxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			logEv.Dur("retry_in", backoff).Msg("webhook delivery failed, retrying")
			time.Sleep(backoff)
		} else {
			logEv.Msg("webhook delivery failed permanently")
			telemetry.WebhookDeliveries.WithLabelValues("failure").Inc()
		}
	}
}
