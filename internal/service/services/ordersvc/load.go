package ordersvc

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SourceError is a failed read of one source.
type SourceError struct {
	Source order.Source
	Err    error
}

// LoadError reports the sources that could not be read during LoadOrders.
// The collection returned alongside it is still usable: failed sources
// contribute their last known records.
type LoadError struct {
	Failures []SourceError
}

func (e *LoadError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Source, f.Err))
	}

	return "failed to load orders from " + strings.Join(parts, "; ")
}

func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}

	return errs
}

// Failed reports whether the given source could not be read.
func (e *LoadError) Failed(source order.Source) bool {
	for _, f := range e.Failures {
		if f.Source == source {
			return true
		}
	}

	return false
}

// LoadOrders reads both sources, merges them newest first and replaces the admin's board.
// A non-nil error is always a *LoadError; the returned slice is never nil.
func (s *OrderService) LoadOrders(ctx context.Context, sess session.Session) ([]order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.LoadOrders")
	defer span.End()

	b := s.boardFor(sess.AdminID)
	defer b.beginReload()()

	var (
		fromOrders, fromSubmissions []order.Order
		ordersErr, submissionsErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		fromOrders, ordersErr = s.orderRepo.Query(ctx, nil)

		return nil
	})
	g.Go(func() error {
		fromSubmissions, submissionsErr = s.readSubmissions(ctx, sess.Token)

		return nil
	})
	_ = g.Wait()

	loadErr := &LoadError{}
	if ordersErr != nil {
		slog.ErrorContext(ctx, "Failed to load orders", "source", order.SourceOrders, "error", ordersErr)
		loadErr.Failures = append(loadErr.Failures, SourceError{Source: order.SourceOrders, Err: ordersErr})
		fromOrders = b.fromSource(order.SourceOrders)
	}
	if submissionsErr != nil {
		slog.ErrorContext(ctx, "Failed to load orders", "source", order.SourceSubmissions, "error", submissionsErr)
		loadErr.Failures = append(loadErr.Failures, SourceError{Source: order.SourceSubmissions, Err: submissionsErr})
		fromSubmissions = b.fromSource(order.SourceSubmissions)
	}

	merged := mergeOrders(ctx, fromOrders, fromSubmissions)
	b.replace(merged)

	span.SetAttributes(
		attribute.Int("orders.count", len(fromOrders)),
		attribute.Int("submissions.count", len(fromSubmissions)),
	)

	if len(loadErr.Failures) > 0 {
		span.SetStatus(codes.Error, loadErr.Error())

		return b.snapshot(), loadErr
	}

	return b.snapshot(), nil
}

func (s *OrderService) readSubmissions(ctx context.Context, token string) ([]order.Order, error) {
	if s.submissionSource == nil {
		return []order.Order{}, nil
	}

	subs, err := s.submissionSource.List(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	res := make([]order.Order, 0, len(subs))
	for _, sub := range subs {
		res = append(res, sub.ToOrder(now))
	}

	return res, nil
}

// mergeOrders concatenates both sources and sorts by CreatedAt descending, ties by id.
// An id present in both sources keeps the orders table record.
func mergeOrders(ctx context.Context, fromOrders, fromSubmissions []order.Order) []order.Order {
	merged := make([]order.Order, 0, len(fromOrders)+len(fromSubmissions))
	seen := make(map[string]struct{}, cap(merged))

	for _, list := range [][]order.Order{fromOrders, fromSubmissions} {
		for _, o := range list {
			if _, ok := seen[o.ID]; ok {
				slog.WarnContext(ctx, "Duplicate order id across sources", "order_id", o.ID, "source", o.Source)

				continue
			}
			seen[o.ID] = struct{}{}
			merged = append(merged, o)
		}
	}

	slices.SortStableFunc(merged, func(a, b order.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return merged
}

// loadedBoard returns the admin's board, loading it on first use.
func (s *OrderService) loadedBoard(ctx context.Context, sess session.Session) (*board, error) {
	b := s.boardFor(sess.AdminID)
	if b.isLoaded() {
		return b, nil
	}

	if _, err := s.LoadOrders(ctx, sess); err != nil {
		return b, err
	}

	return b, nil
}

// Orders returns one filtered page of the admin's board.
// A *LoadError may accompany a valid page when the board was loaded by this call.
func (s *OrderService) Orders(
	ctx context.Context,
	sess session.Session,
	filter order.ListFilter,
) (order.Page, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Orders")
	defer span.End()

	b, loadErr := s.loadedBoard(ctx, sess)

	page := paginate(filterOrders(b.snapshot(), filter), filter.Page, filter.PageSize)

	return page, loadErr
}

// GetOrder returns one order of the admin's board.
func (s *OrderService) GetOrder(ctx context.Context, sess session.Session, id string) (order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetOrder", withOrderID(id))
	defer span.End()

	b, err := s.loadedBoard(ctx, sess)
	var loadErr *LoadError
	if err != nil && !errors.As(err, &loadErr) {
		return order.Order{}, err
	}

	o, ok := b.get(id)
	if !ok {
		return order.Order{}, fmt.Errorf("%w: %s", order.ErrNotFound, id)
	}

	return o, nil
}

func filterOrders(orders []order.Order, filter order.ListFilter) []order.Order {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	res := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if search != "" && !matchesSearch(o, search) {
			continue
		}
		res = append(res, o)
	}

	return res
}

func matchesSearch(o order.Order, search string) bool {
	for _, field := range []string{o.UserName, o.UserEmail, o.ServiceType, o.SubjectArea} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}

	return false
}

func paginate(orders []order.Order, page, pageSize int) order.Page {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	start := min((page-1)*pageSize, len(orders))
	end := min(start+pageSize, len(orders))

	return order.Page{
		Orders:   orders[start:end],
		Total:    len(orders),
		Page:     page,
		PageSize: pageSize,
	}
}
