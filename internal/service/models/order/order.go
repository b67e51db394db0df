package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when an operation references an order that is not loaded.
	ErrNotFound = errors.New("order not found")
	// ErrNoFilesUploaded is returned when every file of an attach request failed to upload.
	ErrNoFilesUploaded = errors.New("no files were uploaded")
)

// Source names the record kind an order was read from.
type Source string

const (
	SourceOrders      Source = "orders"
	SourceSubmissions Source = "submissions"
)

// Order is the unified view of an "orders" row or a "submissions" record.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	UserEmail     string          `json:"userEmail"`
	UserName      string          `json:"userName"`
	ServiceType   string          `json:"serviceType"`
	SubjectArea   string          `json:"subjectArea"`
	StudyLevel    string          `json:"studyLevel"`
	Module        string          `json:"module"`
	Instructions  string          `json:"instructions"`
	WordCount     int             `json:"wordCount"`
	DueDate       string          `json:"dueDate"`
	Status        Status          `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Price         decimal.Decimal `json:"price"`
	Files         []File          `json:"files"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Source        Source          `json:"source"`
}

// Clone returns a copy that shares no file slice with o.
func (o Order) Clone() Order {
	c := o
	c.Files = make([]File, len(o.Files))
	copy(c.Files, o.Files)

	return c
}

// File is an attachment of an order.
type File struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Path string `json:"path,omitempty"`
	Size int64  `json:"size,omitempty"`
}
