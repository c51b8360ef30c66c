package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gleeworld/approvals/internal/domain/event"
)

type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) errorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func testEvent(eventType event.Type) *event.Event {
	return event.NewEvent(eventType, "req-1", map[string]interface{}{
		"previous_status": "pending",
		"new_status":      "forwarded",
	})
}

func TestDispatcher_SubscribeAndDispatch(t *testing.T) {
	d := NewDispatcher()

	var received []*event.Event
	d.Subscribe(event.TypeStateChanged, "recorder", func(ctx context.Context, evt *event.Event) error {
		received = append(received, evt)
		return nil
	})

	evt := testEvent(event.TypeStateChanged)
	if err := d.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("received %d events, want 1", len(received))
	}
	if received[0].RequestID != "req-1" {
		t.Errorf("RequestID = %v, want req-1", received[0].RequestID)
	}
	if received[0].GetPayloadString("new_status") != "forwarded" {
		t.Errorf("payload new_status = %v, want forwarded", received[0].GetPayloadString("new_status"))
	}
}

func TestDispatcher_HandlersRunInRegistrationOrder(t *testing.T) {
	d := NewDispatcher()

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		d.Subscribe(event.TypeRequestCreated, name, func(ctx context.Context, evt *event.Event) error {
			order = append(order, name)
			return nil
		})
	}

	if err := d.Dispatch(context.Background(), testEvent(event.TypeRequestCreated)); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %v, want %v", i, order[i], want[i])
		}
	}
}

func TestDispatcher_FirstErrorStopsDispatch(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(WithLogger(logger))

	handlerErr := errors.New("handler exploded")
	thirdRan := false

	d.Subscribe(event.TypeStateChanged, "ok", func(ctx context.Context, evt *event.Event) error {
		return nil
	})
	d.Subscribe(event.TypeStateChanged, "failing", func(ctx context.Context, evt *event.Event) error {
		return handlerErr
	})
	d.Subscribe(event.TypeStateChanged, "after", func(ctx context.Context, evt *event.Event) error {
		thirdRan = true
		return nil
	})

	err := d.Dispatch(context.Background(), testEvent(event.TypeStateChanged))
	if !errors.Is(err, handlerErr) {
		t.Errorf("Dispatch() error = %v, want wrapped %v", err, handlerErr)
	}
	if thirdRan {
		t.Error("handlers after the failing one should not run")
	}
	if logger.errorCount() != 1 {
		t.Errorf("logged errors = %d, want 1", logger.errorCount())
	}
}

func TestDispatcher_DispatchUnsubscribedType(t *testing.T) {
	d := NewDispatcher()

	called := false
	d.Subscribe(event.TypeRequestCreated, "creator", func(ctx context.Context, evt *event.Event) error {
		called = true
		return nil
	})

	if err := d.Dispatch(context.Background(), testEvent(event.TypeRequestDeleted)); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}
	if called {
		t.Error("handler for a different event type should not run")
	}
}

func TestDispatcher_DispatchNilEvent(t *testing.T) {
	d := NewDispatcher()

	if err := d.Dispatch(context.Background(), nil); err == nil {
		t.Error("Dispatch(nil) should fail")
	}
}

func TestDispatcher_DispatchAsync(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	count := 0
	done := make(chan struct{})

	d.Subscribe(event.TypeStateChanged, "async", func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		close(done)
		return nil
	})

	d.DispatchAsync(context.Background(), testEvent(event.TypeStateChanged))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async handler did not run within 1s")
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
}

func TestDispatcher_AsyncHandlerErrorIsLogged(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(WithLogger(logger))

	d.Subscribe(event.TypeNotificationFailed, "failing", func(ctx context.Context, evt *event.Event) error {
		return errors.New("send failed")
	})

	d.DispatchAsync(context.Background(), testEvent(event.TypeNotificationFailed))

	if err := d.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if logger.errorCount() != 1 {
		t.Errorf("logged errors = %d, want 1", logger.errorCount())
	}
}

func TestDispatcher_CloseWaitsForAsyncHandlers(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	finished := false

	d.Subscribe(event.TypeStateChanged, "slow", func(ctx context.Context, evt *event.Event) error {
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		finished = true
		mu.Unlock()
		return nil
	})

	d.DispatchAsync(context.Background(), testEvent(event.TypeStateChanged))

	if err := d.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !finished {
		t.Error("Close() should wait for in-flight async handlers")
	}
}

func TestDispatcher_RejectsDispatchAfterClose(t *testing.T) {
	d := NewDispatcher()

	called := false
	d.Subscribe(event.TypeStateChanged, "handler", func(ctx context.Context, evt *event.Event) error {
		called = true
		return nil
	})

	if err := d.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if err := d.Dispatch(context.Background(), testEvent(event.TypeStateChanged)); err == nil {
		t.Error("Dispatch() after Close() should fail")
	}

	d.DispatchAsync(context.Background(), testEvent(event.TypeStateChanged))
	if called {
		t.Error("no handler should run after Close()")
	}
}
