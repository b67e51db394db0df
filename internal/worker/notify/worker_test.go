package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/notification"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	name  string
	err   error
	block chan struct{}

	mu     sync.Mutex
	events []notification.Event
}

func (s *recordingSender) Name() string {
	return s.name
}

func (s *recordingSender) Send(ctx context.Context, event notification.Event) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)

	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.events)
}

func event(id string) notification.Event {
	return notification.Event{
		Kind:      notification.KindStatusChange,
		Order:     order.Order{ID: id},
		OldStatus: order.StatusPending,
		NewStatus: order.StatusInProgress,
	}
}

func TestNotifyNeverBlocks(t *testing.T) {
	d := NewDispatcher(nil, WithQueueSize(2))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			d.Notify(event("ord"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
	assert.Len(t, d.queue, 2)
}

func TestDispatcherDeliversToEverySender(t *testing.T) {
	email := &recordingSender{name: "email"}
	inApp := &recordingSender{name: "message"}
	d := NewDispatcher([]Sender{email, inApp}, WithWorkers(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		d.Start(ctx)
	}()

	for _, id := range []string{"a", "b", "c"} {
		d.Notify(event(id))
	}

	require.Eventually(t, func() bool {
		return email.count() == 3 && inApp.count() == 3
	}, time.Second, 5*time.Millisecond)

	d.Stop()
	<-stopped
}

func TestDispatcherSwallowsSenderErrors(t *testing.T) {
	broken := &recordingSender{name: "broken", err: errors.New("502 bad gateway")}
	healthy := &recordingSender{name: "healthy"}
	d := NewDispatcher([]Sender{broken, healthy}, WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		d.Start(ctx)
	}()

	d.Notify(event("a"))
	d.Notify(event("b"))

	require.Eventually(t, func() bool {
		return healthy.count() == 2
	}, time.Second, 5*time.Millisecond)
	// One attempt per event, no retry.
	assert.Equal(t, 2, broken.count())

	d.Stop()
	<-stopped
}

func TestDispatcherDrainsOnStop(t *testing.T) {
	sender := &recordingSender{name: "email"}
	d := NewDispatcher([]Sender{sender}, WithWorkers(1), WithQueueSize(10))

	for _, id := range []string{"a", "b", "c", "d"} {
		d.Notify(event(id))
	}
	d.Stop()

	d.Start(context.Background())

	assert.Equal(t, 4, sender.count())
}

func TestDispatcherSendTimeout(t *testing.T) {
	slow := &recordingSender{name: "slow", block: make(chan struct{})}
	d := NewDispatcher([]Sender{slow}, WithWorkers(1), WithSendTimeout(20*time.Millisecond))

	d.Notify(event("a"))
	d.Stop()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		d.Start(context.Background())
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not give up on a hung sender")
	}
	assert.Zero(t, slow.count())
}
