package notification

import (
	"fmt"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
)

// Kind distinguishes the events the dispatcher delivers.
type Kind string

const (
	KindStatusChange Kind = "status_change"
	KindMessage      Kind = "message"
)

// Event is emitted after a status write or an admin message has been committed.
type Event struct {
	Kind       Kind         `json:"kind"`
	Order      order.Order  `json:"order"`
	OldStatus  order.Status `json:"oldStatus"`
	NewStatus  order.Status `json:"newStatus"`
	Action     string       `json:"action"`
	ActorID    string       `json:"actorId"`
	Message    string       `json:"message,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

var cannedMessages = map[order.Status]string{
	order.StatusPending:    "Your order has been received and is waiting to be reviewed by our team.",
	order.StatusInProgress: "Good news! One of our writers has started working on your order.",
	order.StatusCompleted:  "Your order has been completed. The response files are now available in your dashboard.",
	order.StatusRejected:   "Unfortunately we are unable to proceed with your order. Please contact support for more details.",
}

// CannedMessage returns the fixed notification body for a status.
func CannedMessage(status order.Status) string {
	if msg, ok := cannedMessages[status]; ok {
		return msg
	}

	return fmt.Sprintf("The status of your order has been updated to %s.", status)
}

// ActionLabel describes a transition for message text only.
func ActionLabel(from, to order.Status) string {
	switch {
	case from == to:
		return "updated"
	case to == order.StatusCompleted:
		return "completed"
	case to == order.StatusRejected:
		return "rejected"
	case from == order.StatusPending && to == order.StatusInProgress:
		return "started working on"
	default:
		return "updated the status of"
	}
}

// Subject is the e-mail subject line of the event.
func (c Event) Subject() string {
	if c.Kind == KindMessage {
		return "New message about your order"
	}

	return fmt.Sprintf("Your order has been %s", subjectVerb(c.Action))
}

// Body returns the canned message of the new status unless an explicit message is set.
func (c Event) Body() string {
	if c.Message != "" {
		return c.Message
	}

	return CannedMessage(c.NewStatus)
}

func subjectVerb(action string) string {
	switch action {
	case "started working on":
		return "picked up"
	case "updated the status of", "":
		return "updated"
	default:
		return action
	}
}

// EmailRequest is the body of the e-mail notification endpoint.
type EmailRequest struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	OrderID     string `json:"orderId"`
	UserName    string `json:"userName"`
	ServiceType string `json:"serviceType"`
	NewStatus   string `json:"newStatus"`
	Message     string `json:"message"`
}

// NewEmailRequest builds the e-mail body for an event.
func NewEmailRequest(c Event) EmailRequest {
	return EmailRequest{
		To:          c.Order.UserEmail,
		Subject:     c.Subject(),
		OrderID:     c.Order.ID,
		UserName:    c.Order.UserName,
		ServiceType: c.Order.ServiceType,
		NewStatus:   c.NewStatus.String(),
		Message:     c.Body(),
	}
}

// MessageRequest is the body of the in-app message endpoint.
type MessageRequest struct {
	OrderID     string `json:"orderId"`
	RecipientID string `json:"recipientId"`
	SenderID    string `json:"senderId"`
	SenderType  string `json:"senderType"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// NewMessageRequest builds the in-app message body for an event.
func NewMessageRequest(c Event) MessageRequest {
	return MessageRequest{
		OrderID:     c.Order.ID,
		RecipientID: c.Order.UserID,
		SenderID:    c.ActorID,
		SenderType:  "admin",
		Subject:     c.Subject(),
		Message:     c.Body(),
	}
}
