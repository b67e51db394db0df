package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/handywriterz/order-admin-svc/internal/dal/postgres"
	"github.com/handywriterz/order-admin-svc/internal/service/models/auditlog"
)

// AuditRepository writes admin actions to the activity_logs table.
type AuditRepository struct {
	conn postgres.GenericConn
}

// NewAuditRepository creates a new activity log repository.
func NewAuditRepository(conn postgres.GenericConn) *AuditRepository {
	return &AuditRepository{
		conn: conn,
	}
}

// Insert saves a single activity log entry.
func (r *AuditRepository) Insert(ctx context.Context, entry auditlog.Entry) error {
	details := entry.Details
	if details == nil {
		details = map[string]string{}
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode activity details: %w", err)
	}

	query, args, err := sq.Insert("activity_logs").
		Columns(
			"id",
			"actor_id",
			"actor_email",
			"action",
			"entity_type",
			"entity_id",
			"details",
			"created_at",
		).
		Values(
			entry.ID,
			entry.ActorID,
			entry.ActorEmail,
			entry.Action,
			entry.EntityType,
			entry.EntityID,
			sq.Expr("?::jsonb", string(detailsJSON)),
			entry.CreatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build activity log insert query: %w", err)
	}

	if _, err = r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	return nil
}
