package iorderrepo

import (
	"context"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
)

// IOrderWriter applies single-statement updates to one record kind.
// Every method reports whether a row with the given id matched.
type IOrderWriter interface {
	UpdateStatus(ctx context.Context, id string, status order.Status, updatedAt time.Time) (bool, error)
	UpdatePaymentStatus(
		ctx context.Context,
		id string,
		paymentStatus order.PaymentStatus,
		updatedAt time.Time,
	) (bool, error)
	AppendFiles(
		ctx context.Context,
		id string,
		files []order.File,
		status order.Status,
		updatedAt time.Time,
	) (bool, error)
}

// IOrderRepository is an interface for the orders table repository.
type IOrderRepository interface {
	IOrderWriter
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
