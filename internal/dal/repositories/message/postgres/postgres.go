package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/handywriterz/order-admin-svc/internal/dal/postgres"
	"github.com/handywriterz/order-admin-svc/internal/service/models/message"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
)

type MessageDal struct {
	ID         string
	OrderID    string
	SenderType string
	SenderID   string
	Message    string
	Files      []byte
	CreatedAt  time.Time
}

func (m *MessageDal) ToModel() (message.OrderMessage, error) {
	var files []order.File
	if len(m.Files) > 0 {
		if err := json.Unmarshal(m.Files, &files); err != nil {
			return message.OrderMessage{}, fmt.Errorf("failed to decode message files: %w", err)
		}
	}

	return message.OrderMessage{
		ID:         m.ID,
		OrderID:    m.OrderID,
		SenderType: message.SenderType(m.SenderType),
		SenderID:   m.SenderID,
		Message:    m.Message,
		Files:      files,
		CreatedAt:  m.CreatedAt,
	}, nil
}

// MessageRepository stores the per-order message log.
type MessageRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewMessageRepository creates a new order message repository.
func NewMessageRepository(conn postgres.GenericConn) *MessageRepository {
	return &MessageRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert appends a message to the log.
func (r *MessageRepository) Insert(ctx context.Context, msg message.OrderMessage) error {
	files := msg.Files
	if files == nil {
		files = []order.File{}
	}

	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("failed to encode message files: %w", err)
	}

	query, args, err := r.sb.Insert("order_messages").
		Columns("id", "order_id", "sender_type", "sender_id", "message", "files", "created_at").
		Values(
			msg.ID,
			msg.OrderID,
			string(msg.SenderType),
			msg.SenderID,
			msg.Message,
			sq.Expr("?::jsonb", string(filesJSON)),
			msg.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err = r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order message: %w", err)
	}

	return nil
}

// ListByOrder returns the messages of one order, oldest first.
func (r *MessageRepository) ListByOrder(ctx context.Context, orderID string) ([]message.OrderMessage, error) {
	query, args, err := r.sb.Select(
		"id",
		"order_id",
		"sender_type",
		"sender_id",
		"message",
		"COALESCE(files, '[]'::jsonb)",
		"created_at",
	).
		From("order_messages").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order messages: %w", err)
	}
	defer rows.Close()

	messages := make([]message.OrderMessage, 0)
	for rows.Next() {
		var dal MessageDal
		if err := rows.Scan(
			&dal.ID,
			&dal.OrderID,
			&dal.SenderType,
			&dal.SenderID,
			&dal.Message,
			&dal.Files,
			&dal.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order message: %w", err)
		}

		msg, err := dal.ToModel()
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order messages: %w", err)
	}

	return messages, nil
}
