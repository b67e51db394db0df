package message

import (
	"errors"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
)

var ErrEmptyMessage = errors.New("message is empty")

// SenderType identifies which side of the conversation wrote a message.
type SenderType string

const (
	SenderAdmin SenderType = "admin"
	SenderUser  SenderType = "user"
)

// OrderMessage is an append-only log entry attached to an order.
type OrderMessage struct {
	ID         string       `json:"id"`
	OrderID    string       `json:"orderId"`
	SenderType SenderType   `json:"senderType"`
	SenderID   string       `json:"senderId"`
	Message    string       `json:"message"`
	Files      []order.File `json:"files,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}
