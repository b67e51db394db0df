package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/handywriterz/order-admin-svc/internal/dal/postgres"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/juju/clock"
	"github.com/shopspring/decimal"
)

// storedStatus is the spelling the orders table uses for each canonical status.
var storedStatus = map[order.Status]string{
	order.StatusPending:    "pending",
	order.StatusInProgress: "in_progress",
	order.StatusCompleted:  "completed",
	order.StatusRejected:   "cancelled",
}

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id            string      `db:"id"`
	UserId        string      `db:"user_id"`
	UserEmail     string      `db:"user_email"`
	UserName      string      `db:"user_name"`
	ServiceType   string      `db:"service_type"`
	SubjectArea   string      `db:"subject_area"`
	StudyLevel    string      `db:"study_level"`
	Module        string      `db:"module"`
	Instructions  string      `db:"instructions"`
	WordCount     pgtype.Int4 `db:"word_count"`
	DueDate       pgtype.Text `db:"due_date"`
	Status        string      `db:"status"`
	PaymentStatus string      `db:"payment_status"`
	Price         string      `db:"price"`
	Files         []byte      `db:"files"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model.
// Absent values get their read-time defaults.
func (o *OrderDal) ToModel(now time.Time) (*order.Order, error) {
	files := []order.File{}
	if len(o.Files) > 0 {
		if err := json.Unmarshal(o.Files, &files); err != nil {
			return nil, fmt.Errorf("failed to decode files of order %s: %w", o.Id, err)
		}
	}

	price := decimal.Zero
	if o.Price != "" {
		p, err := decimal.NewFromString(o.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price of order %s: %w", o.Id, err)
		}
		if p.IsPositive() {
			price = p
		}
	}

	wordCount := 0
	if o.WordCount.Valid && o.WordCount.Int32 > 0 {
		wordCount = int(o.WordCount.Int32)
	}

	dueDate := now.Format(time.RFC3339)
	if o.DueDate.Valid && o.DueDate.String != "" {
		dueDate = o.DueDate.String
	}

	return &order.Order{
		ID:            o.Id,
		UserID:        o.UserId,
		UserEmail:     o.UserEmail,
		UserName:      o.UserName,
		ServiceType:   o.ServiceType,
		SubjectArea:   o.SubjectArea,
		StudyLevel:    o.StudyLevel,
		Module:        o.Module,
		Instructions:  o.Instructions,
		WordCount:     wordCount,
		DueDate:       dueDate,
		Status:        order.NormalizeStatus(o.Status),
		PaymentStatus: order.NormalizePaymentStatus(o.PaymentStatus),
		Price:         price,
		Files:         files,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Source:        order.SourceOrders,
	}, nil
}

// PostgresOrderRepository represents a Postgres orders table repository.
type PostgresOrderRepository struct {
	conn  postgres.GenericConn
	sb    sq.StatementBuilderType
	clock clock.Clock
}

// NewPostgresOrderRepository creates a new Postgres orders repository.
func NewPostgresOrderRepository(conn postgres.GenericConn, clk clock.Clock) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn:  conn,
		sb:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		clock: clk,
	}
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.
		Select(
			"id",
			"user_id",
			"user_email",
			"user_name",
			"service_type",
			"subject_area",
			"study_level",
			"module",
			"instructions",
			"word_count",
			"due_date",
			"status",
			"payment_status",
			"COALESCE(price, 0)::text",
			"files",
			"created_at",
			"updated_at",
		).
		From("orders").
		OrderBy("created_at DESC")

	if filter != nil {
		if len(filter.Ids) > 0 {
			query = query.Where(sq.Eq{"id": filter.Ids})
		}

		if filter.Limit > 0 {
			query = query.Limit(uint64(filter.Limit))
		}

		if filter.Offset > 0 {
			query = query.Offset(uint64(filter.Offset))
		}
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	now := r.clock.Now()
	result := []order.Order{}
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.UserId,
			&dal.UserEmail,
			&dal.UserName,
			&dal.ServiceType,
			&dal.SubjectArea,
			&dal.StudyLevel,
			&dal.Module,
			&dal.Instructions,
			&dal.WordCount,
			&dal.DueDate,
			&dal.Status,
			&dal.PaymentStatus,
			&dal.Price,
			&dal.Files,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model, err := dal.ToModel(now)
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the status of one order.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status order.Status,
	updatedAt time.Time,
) (bool, error) {
	query := r.sb.Update("orders").
		Set("status", storedStatus[status]).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, "update order status")
}

// UpdatePaymentStatus sets the payment status of one order.
func (r *PostgresOrderRepository) UpdatePaymentStatus(
	ctx context.Context,
	id string,
	paymentStatus order.PaymentStatus,
	updatedAt time.Time,
) (bool, error) {
	query := r.sb.Update("orders").
		Set("payment_status", paymentStatus.String()).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, "update order payment status")
}

// AppendFiles appends files to the order's file list and sets its status in one statement.
func (r *PostgresOrderRepository) AppendFiles(
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

	query := r.sb.Update("orders").
		Set("files", sq.Expr("COALESCE(files, '[]'::jsonb) || ?::jsonb", string(filesJSON))).
		Set("status", storedStatus[status]).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, "append order files")
}

func (r *PostgresOrderRepository) exec(ctx context.Context, query sq.UpdateBuilder, op string) (bool, error) {
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
