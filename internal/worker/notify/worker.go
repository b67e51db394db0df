package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/notification"
	"github.com/spf13/viper"
)

const (
	defaultQueueSize   = 256
	defaultWorkers     = 4
	defaultSendTimeout = 10 * time.Second
)

// Sender delivers one event over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, event notification.Event) error
}

// Dispatcher delivers notification events in the background.
// Delivery is attempted once per sender; failures are logged and dropped.
type Dispatcher struct {
	senders     []Sender
	queue       chan notification.Event
	workers     int
	sendTimeout time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

type Option func(*Dispatcher)

func WithQueueSize(size int) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queue = make(chan notification.Event, size)
		}
	}
}

func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

func WithSendTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

// NewDispatcher creates a dispatcher for the given senders.
func NewDispatcher(senders []Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		senders:     senders,
		queue:       make(chan notification.Event, defaultQueueSize),
		workers:     defaultWorkers,
		sendTimeout: defaultSendTimeout,
		stopCh:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// NewDispatcherFromConfig creates a dispatcher sized by the notifications.* keys.
func NewDispatcherFromConfig(senders []Sender) *Dispatcher {
	return NewDispatcher(
		senders,
		WithQueueSize(viper.GetInt("notifications.queue_size")),
		WithWorkers(viper.GetInt("notifications.workers")),
		WithSendTimeout(time.Duration(viper.GetInt("notifications.timeout_seconds"))*time.Second),
	)
}

// Notify enqueues an event and returns immediately.
// When the queue is full the event is dropped.
func (d *Dispatcher) Notify(event notification.Event) {
	select {
	case d.queue <- event:
	default:
		slog.Warn("Notification queue is full, dropping event",
			"order_id", event.Order.ID,
			"kind", event.Kind,
			"new_status", event.NewStatus,
		)
	}
}

// Start runs the workers and blocks until ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	slog.Info("Notification dispatcher started", "workers", d.workers, "senders", len(d.senders))

	for range d.workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run(ctx)
		}()
	}

	d.wg.Wait()
	slog.Info("Notification dispatcher stopped")
}

// Stop signals the workers to drain the queue and exit.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			d.drain(ctx)

			return
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.queue:
			d.deliver(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event notification.Event) {
	for _, sender := range d.senders {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
		err := sender.Send(sendCtx, event)
		cancel()

		if err != nil {
			slog.Error("Failed to deliver notification",
				"sender", sender.Name(),
				"order_id", event.Order.ID,
				"kind", event.Kind,
				"error", err,
			)

			continue
		}

		slog.Debug("Notification delivered", "sender", sender.Name(), "order_id", event.Order.ID)
	}
}
