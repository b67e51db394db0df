package imessagerepo

import (
	"context"

	"github.com/handywriterz/order-admin-svc/internal/service/models/message"
)

// IMessageRepository is an interface for the order_messages repository.
type IMessageRepository interface {
	Insert(ctx context.Context, msg message.OrderMessage) error
	ListByOrder(ctx context.Context, orderID string) ([]message.OrderMessage, error)
}
