package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrClosed is returned by Publish after Shutdown
var ErrClosed = errors.New("notify: dispatcher closed")

// ErrQueueFull is returned by Publish when the event was dropped
var ErrQueueFull = errors.New("notify: queue full")

type Options struct {
	QueueSize   int
	MaxAttempts int
	Timeout     time.Duration
	BaseBackoff time.Duration
	Logger      *zap.Logger
}

// Dispatcher fans events out to sinks from a single worker goroutine
type Dispatcher struct {
	sinks []Sink
	opts  Options
	log   *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher starts the worker. With no sinks every event is discarded.
func NewDispatcher(opts Options, sinks ...Sink) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		sinks:  sinks,
		opts:   opts,
		log:    opts.Logger.Named("notify"),
		queue:  make(chan Event, opts.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues an event without blocking.
func (d *Dispatcher) Publish(event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- event:
		return nil
	default:
		d.log.Warn("dropping event, queue full",
			zap.String("entity", event.EntityType),
			zap.String("id", event.ID),
			zap.String("kind", string(event.Kind)),
		)
		return ErrQueueFull
	}
}

// Shutdown stops accepting events and drains the queue. When ctx expires
// first, in-flight deliveries are cancelled and the rest are dropped.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-d.done
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		if d.ctx.Err() != nil {
			d.log.Warn("dropping event on shutdown", zap.String("id", event.ID))
			continue
		}
		for _, sink := range d.sinks {
			d.deliver(sink, event)
		}
	}
}

func (d *Dispatcher) deliver(sink Sink, event Event) {
	log := d.log.With(
		zap.String("sink", sink.Name()),
		zap.String("entity", event.EntityType),
		zap.String("id", event.ID),
		zap.String("kind", string(event.Kind)),
	)

	backoff := d.opts.BaseBackoff
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(d.ctx, d.opts.Timeout)
		err := sink.Deliver(ctx, event)
		cancel()
		if err == nil {
			log.Debug("event delivered", zap.Int("attempt", attempt))
			return
		}
		if attempt == d.opts.MaxAttempts {
			log.Error("event delivery failed, giving up", zap.Int("attempts", attempt), zap.Error(err))
			return
		}
		log.Warn("event delivery failed, retrying", zap.Int("attempt", attempt), zap.Duration("backoff", backoff), zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-d.ctx.Done():
			timer.Stop()
			log.Warn("event delivery abandoned on shutdown")
			return
		}
		backoff *= 2
	}
}
