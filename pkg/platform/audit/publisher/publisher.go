// Package publisher delivers audit events to a sink, synchronously or through
// a bounded async buffer drained by a background worker.
package publisher

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "tradeverify/pkg/platform/audit"
	"tradeverify/pkg/platform/sentinel"
)

const drainBatch = 64

// Publisher stamps events and forwards them to a Sink.
type Publisher struct {
	sink    audit.Sink
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time

	buffer *ringBuffer
	wake   chan struct{}
	stop   chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking. When more than size events are
// pending, the oldest are dropped.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.buffer = newRingBuffer(size)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPublisher creates a publisher. In async mode a worker goroutine runs until Close.
func NewPublisher(sink audit.Sink, opts ...Option) *Publisher {
	p := &Publisher{
		sink:   sink,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wake = make(chan struct{}, 1)
		p.stop = make(chan struct{})
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit fills ID, Timestamp and Category when unset and delivers the event.
// In async mode sink errors are logged and counted, never returned.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	select {
	case <-p.closed:
		return sentinel.ErrInvalidState
	default:
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	p.metrics.incEmitted(string(event.Category))

	if p.buffer == nil {
		if err := p.sink.Append(ctx, event); err != nil {
			p.metrics.incSinkFailures()
			return err
		}
		return nil
	}

	if p.buffer.enqueue(event) {
		p.metrics.incDropped()
	}
	p.metrics.setBuffered(p.buffer.len())
	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}

// Dropped returns how many buffered events were discarded.
func (p *Publisher) Dropped() int64 {
	if p.buffer == nil {
		return 0
	}
	return p.buffer.droppedCount()
}

// Close stops the worker after draining pending events. Safe to call twice.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		if p.stop != nil {
			close(p.stop)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *Publisher) drain() {
	// Sink calls must not outlive shutdown indefinitely.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for {
		batch := p.buffer.dequeueBatch(drainBatch)
		if len(batch) == 0 {
			p.metrics.setBuffered(0)
			return
		}
		for _, event := range batch {
			if err := p.sink.Append(ctx, event); err != nil {
				p.metrics.incSinkFailures()
				p.logger.Warn("audit sink append failed",
					"action", event.Action,
					"event_id", event.ID,
					"error", err,
				)
			}
		}
	}
}
