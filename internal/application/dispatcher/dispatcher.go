package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gleeworld/approvals/internal/domain/event"
)

// Dispatcher routes domain events to registered handlers
type Dispatcher interface {
	// Subscribe registers a named handler for an event type
	Subscribe(eventType event.Type, name string, handler Handler)

	// Dispatch sends the event to all registered handlers in order,
	// returning the first error encountered
	Dispatch(ctx context.Context, evt *event.Event) error

	// DispatchAsync sends the event to handlers without waiting for them
	DispatchAsync(ctx context.Context, evt *event.Event)

	// Close shuts down the dispatcher and waits for async handlers
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) Subscribe(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], HandlerInfo{
		Name:      name,
		EventType: eventType,
		Handler:   handler,
	})

	if d.logger != nil {
		d.logger.Info("Handler registered", "event_type", eventType, "handler_name", name)
	}
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return fmt.Errorf("dispatcher is closed")
	}
	if evt == nil {
		return fmt.Errorf("event cannot be nil")
	}

	d.mu.RLock()
	handlers := append([]HandlerInfo(nil), d.handlers[evt.Type]...)
	d.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handler(ctx, evt); err != nil {
			if d.logger != nil {
				d.logger.Error("Handler failed",
					"event_type", evt.Type, "handler_name", h.Name, "error", err)
			}
			return fmt.Errorf("handler %s: %w", h.Name, err)
		}
	}
	return nil
}

func (d *eventDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	if d.closed.Load() || evt == nil {
		return
	}

	d.mu.RLock()
	handlers := append([]HandlerInfo(nil), d.handlers[evt.Type]...)
	d.mu.RUnlock()

	for _, h := range handlers {
		h := h
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := h.Handler(ctx, evt); err != nil && d.logger != nil {
				d.logger.Error("Async handler failed",
					"event_type", evt.Type, "handler_name", h.Name, "error", err)
			}
		}()
	}
}

func (d *eventDispatcher) Close() error {
	d.closed.Store(true)
	d.wg.Wait()
	return nil
}

// Verify interface compliance
var _ Dispatcher = (*eventDispatcher)(nil)
