package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	failures int
	calls    int
	events   []Event
	block    chan struct{}
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(ctx context.Context, event Event) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failures > 0 {
		s.failures--
		return errors.New("boom")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) snapshot() (int, []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]Event(nil), s.events...)
}

func fastOptions() Options {
	return Options{QueueSize: 8, MaxAttempts: 3, Timeout: time.Second, BaseBackoff: time.Millisecond}
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(fastOptions(), sink)

	require.NoError(t, d.Publish(Event{Kind: PublishingChanged, ID: "a"}))
	require.NoError(t, d.Publish(Event{Kind: Deleted, ID: "b"}))
	require.NoError(t, d.Shutdown(context.Background()))

	_, events := sink.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestDispatcherRetriesThenSucceeds(t *testing.T) {
	sink := &recordingSink{failures: 2}
	d := NewDispatcher(fastOptions(), sink)

	require.NoError(t, d.Publish(Event{ID: "retry"}))
	require.NoError(t, d.Shutdown(context.Background()))

	calls, events := sink.snapshot()
	assert.Equal(t, 3, calls)
	assert.Len(t, events, 1)
}

func TestDispatcherGivesUpAfterMaxAttempts(t *testing.T) {
	sink := &recordingSink{failures: 10}
	d := NewDispatcher(fastOptions(), sink)

	require.NoError(t, d.Publish(Event{ID: "lost"}))
	require.NoError(t, d.Shutdown(context.Background()))

	calls, events := sink.snapshot()
	assert.Equal(t, 3, calls)
	assert.Empty(t, events)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	opts := fastOptions()
	opts.QueueSize = 1
	d := NewDispatcher(opts, sink)

	// The first event is taken by the worker and blocks it; the second fills
	// the queue. After that publishing must drop.
	require.NoError(t, d.Publish(Event{ID: "1"}))
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, d.Publish(Event{ID: "2"}))
	assert.ErrorIs(t, d.Publish(Event{ID: "3"}), ErrQueueFull)

	close(sink.block)
	require.NoError(t, d.Shutdown(context.Background()))
	_, events := sink.snapshot()
	assert.Len(t, events, 2)
}

func TestDispatcherShutdownDeadline(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := NewDispatcher(fastOptions(), sink)
	require.NoError(t, d.Publish(Event{ID: "stuck"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)
	assert.ErrorIs(t, d.Publish(Event{ID: "late"}), ErrClosed)
}
