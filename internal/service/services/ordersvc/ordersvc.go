package ordersvc

import (
	"sync"

	"github.com/handywriterz/order-admin-svc/internal/dal/interfaces/iauditrepo"
	"github.com/handywriterz/order-admin-svc/internal/dal/interfaces/iblobstore"
	"github.com/handywriterz/order-admin-svc/internal/dal/interfaces/imessagerepo"
	"github.com/handywriterz/order-admin-svc/internal/dal/interfaces/iorderrepo"
	"github.com/handywriterz/order-admin-svc/internal/dal/interfaces/isubmissionrepo"
	"github.com/handywriterz/order-admin-svc/internal/service/models/notification"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/im7mortal/kmutex"
	"github.com/juju/clock"
	"go.opentelemetry.io/otel"
)

const defaultUploadConcurrency = 4

var tracer = otel.Tracer("order-admin-svc/ordersvc")

type notifier interface {
	Notify(event notification.Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(notification.Event) {}

// OrderService is a service for administering orders and submissions.
type OrderService struct {
	orderRepo         iorderrepo.IOrderRepository
	submissionSource  isubmissionrepo.ISubmissionSource
	submissionWriter  iorderrepo.IOrderWriter
	messageRepo       imessagerepo.IMessageRepository
	auditRepo         iauditrepo.IAuditRepository
	blobStore         iblobstore.IBlobStore
	notifier          notifier
	clock             clock.Clock
	uploadConcurrency int

	// locks serializes mutations of the same order id within the process.
	locks *kmutex.Kmutex

	mu     sync.Mutex
	boards map[string]*board
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		notifier:          nopNotifier{},
		clock:             clock.WallClock,
		uploadConcurrency: defaultUploadConcurrency,
		locks:             kmutex.New(),
		boards:            make(map[string]*board),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil {
		panic("ordersvc: order repository is required")
	}

	return s
}

// WithOrderRepository sets the orders table repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithSubmissionSource sets the submissions endpoint reader.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSubmissionSource(source isubmissionrepo.ISubmissionSource) option {
	return func(s *OrderService) {
		s.submissionSource = source
	}
}

// WithSubmissionWriter sets the writer for the submissions table.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSubmissionWriter(writer iorderrepo.IOrderWriter) option {
	return func(s *OrderService) {
		s.submissionWriter = writer
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithMessageRepository(repo imessagerepo.IMessageRepository) option {
	return func(s *OrderService) {
		s.messageRepo = repo
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(repo iauditrepo.IAuditRepository) option {
	return func(s *OrderService) {
		s.auditRepo = repo
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithBlobStore(store iblobstore.IBlobStore) option {
	return func(s *OrderService) {
		s.blobStore = store
	}
}

// WithNotifier sets the dispatcher that receives status change events.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithNotifier(n notifier) option {
	return func(s *OrderService) {
		if n != nil {
			s.notifier = n
		}
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(clk clock.Clock) option {
	return func(s *OrderService) {
		if clk != nil {
			s.clock = clk
		}
	}
}

// WithUploadConcurrency bounds the number of parallel blob uploads per request.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUploadConcurrency(n int) option {
	return func(s *OrderService) {
		if n > 0 {
			s.uploadConcurrency = n
		}
	}
}

// writers returns the record writers in the order they are tried,
// starting with the one owning the source the order was read from.
func (s *OrderService) writers(source order.Source) []iorderrepo.IOrderWriter {
	if s.submissionWriter == nil {
		return []iorderrepo.IOrderWriter{s.orderRepo}
	}

	if source == order.SourceSubmissions {
		return []iorderrepo.IOrderWriter{s.submissionWriter, s.orderRepo}
	}

	return []iorderrepo.IOrderWriter{s.orderRepo, s.submissionWriter}
}

func (s *OrderService) boardFor(adminID string) *board {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[adminID]
	if !ok {
		b = newBoard()
		s.boards[adminID] = b
	}

	return b
}
