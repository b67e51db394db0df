package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/handywriterz/order-admin-svc/internal/service/models/message"
	"github.com/handywriterz/order-admin-svc/internal/service/models/notification"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
)

var errNoMessageRepository = errors.New("message repository is not configured")

// ListMessages returns the message log of a loaded order, oldest first.
func (s *OrderService) ListMessages(
	ctx context.Context,
	sess session.Session,
	id string,
) ([]message.OrderMessage, error) {
	ctx, span := tracer.Start(ctx, "OrderService.ListMessages", withOrderID(id))
	defer span.End()

	if s.messageRepo == nil {
		return nil, errNoMessageRepository
	}

	_, _, release, err := s.lookup(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	release()

	messages, err := s.messageRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages of order %s: %w", id, err)
	}

	return messages, nil
}

// SendMessage appends an admin message to the order's log and forwards it to the owner.
func (s *OrderService) SendMessage(
	ctx context.Context,
	sess session.Session,
	id string,
	text string,
	files []order.File,
) (message.OrderMessage, error) {
	ctx, span := tracer.Start(ctx, "OrderService.SendMessage", withOrderID(id))
	defer span.End()

	if s.messageRepo == nil {
		return message.OrderMessage{}, errNoMessageRepository
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return message.OrderMessage{}, message.ErrEmptyMessage
	}

	_, current, release, err := s.lookup(ctx, sess, id)
	if err != nil {
		return message.OrderMessage{}, err
	}
	release()

	now := s.clock.Now()
	msg := message.OrderMessage{
		ID:         uuid.NewString(),
		OrderID:    id,
		SenderType: message.SenderAdmin,
		SenderID:   sess.AdminID,
		Message:    text,
		Files:      files,
		CreatedAt:  now,
	}
	if err := s.messageRepo.Insert(ctx, msg); err != nil {
		return message.OrderMessage{}, fmt.Errorf("failed to save message for order %s: %w", id, err)
	}

	s.recordActivity(ctx, sess, id, ActionMessageSent, now, map[string]string{
		"message_id": msg.ID,
	})

	s.notifier.Notify(notification.Event{
		Kind:       notification.KindMessage,
		Order:      current,
		OldStatus:  current.Status,
		NewStatus:  current.Status,
		ActorID:    sess.AdminID,
		Message:    text,
		OccurredAt: now,
	})

	return msg, nil
}
