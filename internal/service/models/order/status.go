package order

import (
	"errors"
	"log/slog"
	"strings"
)

var (
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Status is the work-progress state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// Statuses lists every canonical status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusRejected}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

var statusSpellings = map[string]Status{
	"":            StatusPending,
	"pending":     StatusPending,
	"new":         StatusPending,
	"in_progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"processing":  StatusInProgress,
	"completed":   StatusCompleted,
	"complete":    StatusCompleted,
	"done":        StatusCompleted,
	"rejected":    StatusRejected,
	"cancelled":   StatusRejected,
	"canceled":    StatusRejected,
}

// ParseStatus maps any known source spelling to a canonical status.
func ParseStatus(s string) (Status, error) {
	status, ok := statusSpellings[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidStatus
	}

	return status, nil
}

// NormalizeStatus is ParseStatus with unknown spellings folded to pending.
func NormalizeStatus(s string) Status {
	status, err := ParseStatus(s)
	if err != nil {
		slog.Warn("Unknown order status, treating as pending", "status", s)

		return StatusPending
	}

	return status
}

// PaymentStatus is the billing state of an order, independent of Status.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) String() string {
	return string(p)
}

// Valid reports whether p is one of the canonical payment statuses.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentPartial, PaymentRefunded:
		return true
	default:
		return false
	}
}

var paymentSpellings = map[string]PaymentStatus{
	"":               PaymentUnpaid,
	"unpaid":         PaymentUnpaid,
	"pending":        PaymentUnpaid,
	"paid":           PaymentPaid,
	"completed":      PaymentPaid,
	"succeeded":      PaymentPaid,
	"partial":        PaymentPartial,
	"partially_paid": PaymentPartial,
	"partially-paid": PaymentPartial,
	"refunded":       PaymentRefunded,
	"refund":         PaymentRefunded,
}

// ParsePaymentStatus maps any known source spelling to a canonical payment status.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	ps, ok := paymentSpellings[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidPaymentStatus
	}

	return ps, nil
}

// NormalizePaymentStatus is ParsePaymentStatus with unknown spellings folded to unpaid.
func NormalizePaymentStatus(s string) PaymentStatus {
	ps, err := ParsePaymentStatus(s)
	if err != nil {
		slog.Warn("Unknown payment status, treating as unpaid", "payment_status", s)

		return PaymentUnpaid
	}

	return ps
}
