package iauditrepo

import (
	"context"

	"github.com/handywriterz/order-admin-svc/internal/service/models/auditlog"
)

// IAuditRepository is interface for the activity log repository.
type IAuditRepository interface {
	Insert(ctx context.Context, entry auditlog.Entry) error
}
