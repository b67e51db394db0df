package ordersvc

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/dal/interfaces/iblobstore"
	"github.com/handywriterz/order-admin-svc/internal/service/models/auditlog"
	"github.com/handywriterz/order-admin-svc/internal/service/models/message"
	"github.com/handywriterz/order-admin-svc/internal/service/models/notification"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/submission"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory table keyed by order id.
type fakeStore struct {
	mu       sync.Mutex
	rows     map[string]order.Order
	queryErr error
	writeErr error
	writes   int
	attempts int
}

func newFakeStore(orders ...order.Order) *fakeStore {
	f := &fakeStore{rows: make(map[string]order.Order)}
	for _, o := range orders {
		f.rows[o.ID] = o
	}

	return f
}

func (f *fakeStore) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	res := make([]order.Order, 0, len(f.rows))
	for _, o := range f.rows {
		res = append(res, o.Clone())
	}

	return res, nil
}

func (f *fakeStore) mutate(id string, fn func(o *order.Order)) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++
	if f.writeErr != nil {
		return false, f.writeErr
	}

	o, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	fn(&o)
	f.rows[id] = o
	f.writes++

	return true, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id string, status order.Status, at time.Time) (bool, error) {
	return f.mutate(id, func(o *order.Order) {
		o.Status = status
		o.UpdatedAt = at
	})
}

func (f *fakeStore) UpdatePaymentStatus(
	_ context.Context,
	id string,
	ps order.PaymentStatus,
	at time.Time,
) (bool, error) {
	return f.mutate(id, func(o *order.Order) {
		o.PaymentStatus = ps
		o.UpdatedAt = at
	})
}

func (f *fakeStore) AppendFiles(
	_ context.Context,
	id string,
	files []order.File,
	status order.Status,
	at time.Time,
) (bool, error) {
	return f.mutate(id, func(o *order.Order) {
		o.Files = append(o.Clone().Files, files...)
		o.Status = status
		o.UpdatedAt = at
	})
}

func (f *fakeStore) row(id string) (order.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.rows[id]

	return o.Clone(), ok
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.writes
}

func (f *fakeStore) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.attempts
}

type fakeSubmissions struct {
	mu    sync.Mutex
	subs  []submission.Submission
	err   error
	token string

	// gate, when set, parks the next List call until it is closed; entered is signalled first.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeSubmissions) List(_ context.Context, token string) ([]submission.Submission, error) {
	f.mu.Lock()
	gate, entered := f.gate, f.entered
	f.gate, f.entered = nil, nil
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.token = token
	if f.err != nil {
		return nil, f.err
	}

	return f.subs, nil
}

func (f *fakeSubmissions) set(subs ...submission.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subs = subs
}

func (f *fakeSubmissions) hold(gate, entered chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gate, f.entered = gate, entered
}

func (f *fakeSubmissions) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

type fakeBlob struct {
	failing map[string]bool
}

func (f *fakeBlob) Upload(
	_ context.Context,
	orderID string,
	name string,
	_ string,
	content io.Reader,
) (iblobstore.Object, error) {
	if f.failing[name] {
		return iblobstore.Object{}, errors.New("upload rejected")
	}

	n, err := io.Copy(io.Discard, content)
	if err != nil {
		return iblobstore.Object{}, err
	}

	return iblobstore.Object{
		Path: "orders/" + orderID + "/" + name,
		URL:  "https://blob.example.com/orders/" + orderID + "/" + name,
		Size: n,
	}, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (f *fakeNotifier) Notify(e notification.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, e)
}

func (f *fakeNotifier) all() []notification.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]notification.Event(nil), f.events...)
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditlog.Entry
	err     error
}

func (f *fakeAudit) Insert(_ context.Context, e auditlog.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)

	return nil
}

type fakeMessages struct {
	mu       sync.Mutex
	messages []message.OrderMessage
}

func (f *fakeMessages) Insert(_ context.Context, m message.OrderMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.messages = append(f.messages, m)

	return nil
}

func (f *fakeMessages) ListByOrder(_ context.Context, orderID string) ([]message.OrderMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make([]message.OrderMessage, 0)
	for _, m := range f.messages {
		if m.OrderID == orderID {
			res = append(res, m)
		}
	}

	return res, nil
}
