package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/handywriterz/order-admin-svc/internal/dal/postgres"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
)

// storedStatus is the spelling the submissions table uses for each canonical status.
var storedStatus = map[order.Status]string{
	order.StatusPending:    "pending",
	order.StatusInProgress: "in-progress",
	order.StatusCompleted:  "completed",
	order.StatusRejected:   "rejected",
}

// SubmissionRepository writes status changes back to the submissions table.
// Reads go through the submissions endpoint.
type SubmissionRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewSubmissionRepository creates a new submissions repository.
func NewSubmissionRepository(conn postgres.GenericConn) *SubmissionRepository {
	return &SubmissionRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// UpdateStatus sets the status of one submission.
func (r *SubmissionRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status order.Status,
	updatedAt time.Time,
) (bool, error) {
	query := r.sb.Update("submissions").
		Set("status", storedStatus[status]).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, "update submission status")
}

// UpdatePaymentStatus stores the payment status inside the submission metadata.
func (r *SubmissionRepository) UpdatePaymentStatus(
	ctx context.Context,
	id string,
	paymentStatus order.PaymentStatus,
	updatedAt time.Time,
) (bool, error) {
	query := r.sb.Update("submissions").
		Set("metadata", sq.Expr(
			"jsonb_set(COALESCE(metadata, '{}'::jsonb), '{paymentStatus}', to_jsonb(?::text))",
			paymentStatus.String(),
		)).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, "update submission payment status")
}

// appendFilesExpr appends to the files column, seeding it from metadata.files while it is still empty.
const appendFilesExpr = `CASE
	WHEN jsonb_array_length(COALESCE(files, '[]'::jsonb)) = 0
		THEN COALESCE(metadata->'files', '[]'::jsonb)
	ELSE files
END || ?::jsonb`

// AppendFiles appends files to the submission and sets its status in one statement.
func (r *SubmissionRepository) AppendFiles(
	ctx context.Context,
	id string,
	files []order.File,
	status order.Status,
	updatedAt time.Time,
) (bool, error) {
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return false, fmt.Errorf("failed to encode files: %w", err)
	}

	query := r.sb.Update("submissions").
		Set("files", sq.Expr(appendFilesExpr, string(filesJSON))).
		Set("status", storedStatus[status]).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, "append submission files")
}

func (r *SubmissionRepository) exec(ctx context.Context, query sq.UpdateBuilder, op string) (bool, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}
