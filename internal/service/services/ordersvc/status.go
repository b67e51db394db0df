package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/handywriterz/order-admin-svc/internal/dal/interfaces/iorderrepo"
	"github.com/handywriterz/order-admin-svc/internal/service/models/auditlog"
	"github.com/handywriterz/order-admin-svc/internal/service/models/notification"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	ActionStatusUpdated        = "order_status_updated"
	ActionPaymentStatusUpdated = "order_payment_status_updated"
	ActionFilesAttached        = "order_files_attached"
	ActionMessageSent          = "order_message_sent"
)

// AttachResult is the outcome of AttachResponseFiles.
type AttachResult struct {
	Order order.Order `json:"order"`
	// Skipped lists the names of files that failed to upload.
	Skipped []string `json:"skipped"`
}

func withOrderID(id string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("order.id", id))
}

// SetOrderStatus persists a new status for a loaded order and notifies its owner.
func (s *OrderService) SetOrderStatus(
	ctx context.Context,
	sess session.Session,
	id string,
	status order.Status,
) (order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.SetOrderStatus", withOrderID(id))
	defer span.End()

	if !status.Valid() {
		return order.Order{}, fmt.Errorf("%w: %q", order.ErrInvalidStatus, status)
	}

	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	b, current, release, err := s.lookup(ctx, sess, id)
	if err != nil {
		return order.Order{}, err
	}
	defer release()

	now := s.clock.Now()
	err = s.write(ctx, id, current.Source, func(w iorderrepo.IOrderWriter) (bool, error) {
		return w.UpdateStatus(ctx, id, status, now)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return order.Order{}, err
	}

	updated, _ := b.update(id, func(o *order.Order) {
		o.Status = status
		o.UpdatedAt = now
	})

	action := notification.ActionLabel(current.Status, status)
	s.recordActivity(ctx, sess, id, ActionStatusUpdated, now, map[string]string{
		"from":   current.Status.String(),
		"to":     status.String(),
		"action": action,
	})

	s.notifier.Notify(notification.Event{
		Kind:       notification.KindStatusChange,
		Order:      updated,
		OldStatus:  current.Status,
		NewStatus:  status,
		Action:     action,
		ActorID:    sess.AdminID,
		OccurredAt: now,
	})

	return updated, nil
}

// SetPaymentStatus persists a new payment status for a loaded order. Status is left untouched.
func (s *OrderService) SetPaymentStatus(
	ctx context.Context,
	sess session.Session,
	id string,
	paymentStatus order.PaymentStatus,
) (order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.SetPaymentStatus", withOrderID(id))
	defer span.End()

	if !paymentStatus.Valid() {
		return order.Order{}, fmt.Errorf("%w: %q", order.ErrInvalidPaymentStatus, paymentStatus)
	}

	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	b, current, release, err := s.lookup(ctx, sess, id)
	if err != nil {
		return order.Order{}, err
	}
	defer release()

	now := s.clock.Now()
	err = s.write(ctx, id, current.Source, func(w iorderrepo.IOrderWriter) (bool, error) {
		return w.UpdatePaymentStatus(ctx, id, paymentStatus, now)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return order.Order{}, err
	}

	updated, _ := b.update(id, func(o *order.Order) {
		o.PaymentStatus = paymentStatus
		o.UpdatedAt = now
	})

	s.recordActivity(ctx, sess, id, ActionPaymentStatusUpdated, now, map[string]string{
		"from": current.PaymentStatus.String(),
		"to":   paymentStatus.String(),
	})

	return updated, nil
}

// AttachResponseFiles uploads the given files, appends the ones that made it
// and marks the order completed. Files that fail to upload are skipped.
func (s *OrderService) AttachResponseFiles(
	ctx context.Context,
	sess session.Session,
	id string,
	uploads []order.Upload,
) (AttachResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.AttachResponseFiles",
		withOrderID(id),
		trace.WithAttributes(attribute.Int("files.count", len(uploads))),
	)
	defer span.End()

	if len(uploads) == 0 {
		return AttachResult{}, order.ErrNoFilesUploaded
	}

	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	b, current, release, err := s.lookup(ctx, sess, id)
	if err != nil {
		return AttachResult{}, err
	}
	defer release()

	files, skipped := s.uploadAll(ctx, id, uploads)
	if len(files) == 0 {
		span.SetStatus(codes.Error, "no files uploaded")

		return AttachResult{Skipped: skipped}, fmt.Errorf("%w: order %s", order.ErrNoFilesUploaded, id)
	}

	now := s.clock.Now()
	err = s.write(ctx, id, current.Source, func(w iorderrepo.IOrderWriter) (bool, error) {
		return w.AppendFiles(ctx, id, files, order.StatusCompleted, now)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return AttachResult{Skipped: skipped}, err
	}

	updated, _ := b.update(id, func(o *order.Order) {
		merged := make([]order.File, 0, len(o.Files)+len(files))
		merged = append(merged, o.Files...)
		o.Files = append(merged, files...)
		o.Status = order.StatusCompleted
		o.UpdatedAt = now
	})

	action := notification.ActionLabel(current.Status, order.StatusCompleted)
	s.recordActivity(ctx, sess, id, ActionFilesAttached, now, map[string]string{
		"from":     current.Status.String(),
		"to":       order.StatusCompleted.String(),
		"attached": fmt.Sprint(len(files)),
		"skipped":  fmt.Sprint(len(skipped)),
	})

	s.notifier.Notify(notification.Event{
		Kind:       notification.KindStatusChange,
		Order:      updated,
		OldStatus:  current.Status,
		NewStatus:  order.StatusCompleted,
		Action:     action,
		ActorID:    sess.AdminID,
		OccurredAt: now,
	})

	if skipped == nil {
		skipped = []string{}
	}

	return AttachResult{Order: updated, Skipped: skipped}, nil
}

// uploadAll stores every upload that still has content and keeps the input order.
func (s *OrderService) uploadAll(ctx context.Context, id string, uploads []order.Upload) ([]order.File, []string) {
	results := make([]*order.File, len(uploads))

	var g errgroup.Group
	g.SetLimit(s.uploadConcurrency)

	for i, u := range uploads {
		g.Go(func() error {
			if u.Uploaded() {
				results[i] = &order.File{Name: u.Name, URL: u.URL, Path: u.Path, Size: u.Size}

				return nil
			}

			if u.Content == nil || s.blobStore == nil {
				slog.WarnContext(ctx, "Skipping file without content", "order_id", id, "file", u.Name)

				return nil
			}

			obj, err := s.blobStore.Upload(ctx, id, u.Name, u.ContentType, u.Content)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to upload file", "order_id", id, "file", u.Name, "error", err)

				return nil
			}

			size := obj.Size
			if size == 0 {
				size = u.Size
			}
			results[i] = &order.File{Name: u.Name, URL: obj.URL, Path: obj.Path, Size: size}

			return nil
		})
	}
	_ = g.Wait()

	files := make([]order.File, 0, len(uploads))
	var skipped []string
	for i, f := range results {
		if f == nil {
			skipped = append(skipped, uploads[i].Name)

			continue
		}
		files = append(files, *f)
	}

	return files, skipped
}

// lookup resolves id against the admin's board and holds off reloads of that board
// until release is called. release is nil when err is not.
func (s *OrderService) lookup(
	ctx context.Context,
	sess session.Session,
	id string,
) (b *board, current order.Order, release func(), err error) {
	b, loadErr := s.loadedBoard(ctx, sess)
	if loadErr != nil {
		slog.WarnContext(ctx, "Board loaded with errors", "error", loadErr)
	}

	release = b.beginWrite()
	current, ok := b.get(id)
	if !ok {
		release()

		return nil, order.Order{}, nil, fmt.Errorf("%w: %s", order.ErrNotFound, id)
	}

	return b, current, release, nil
}

// write runs fn against each record writer until one of them matches the id.
func (s *OrderService) write(
	ctx context.Context,
	id string,
	source order.Source,
	fn func(w iorderrepo.IOrderWriter) (bool, error),
) error {
	for _, w := range s.writers(source) {
		matched, err := fn(w)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to write order", "order_id", id, "error", err)

			return fmt.Errorf("failed to write order %s: %w", id, err)
		}
		if matched {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", order.ErrNotFound, id)
}

func (s *OrderService) recordActivity(
	ctx context.Context,
	sess session.Session,
	id string,
	action string,
	at time.Time,
	details map[string]string,
) {
	if s.auditRepo == nil {
		return
	}

	entry := auditlog.Entry{
		ID:         uuid.NewString(),
		ActorID:    sess.AdminID,
		ActorEmail: sess.AdminEmail,
		Action:     action,
		EntityType: auditlog.EntityOrder,
		EntityID:   id,
		Details:    details,
		CreatedAt:  at,
	}
	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		slog.WarnContext(ctx, "Failed to record activity", "order_id", id, "action", action, "error", err)
	}
}
