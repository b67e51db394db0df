package submission

import (
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
)

// NotSpecified is the display default for absent descriptive fields.
const NotSpecified = "Not specified"

// Submission is one record of the document-upload flow as returned by the
// submissions endpoint. Domain fields live in Metadata under inconsistent keys.
type Submission struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Status    string       `json:"status"`
	Files     []order.File `json:"files"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Metadata  Metadata     `json:"metadata"`
}

// Metadata holds both the canonical and the alternate key of every field.
type Metadata struct {
	UserName         string       `json:"userName"`
	Name             string       `json:"name"`
	UserEmail        string       `json:"userEmail"`
	Email            string       `json:"email"`
	ServiceType      string       `json:"serviceType"`
	Service          string       `json:"service"`
	SubjectArea      string       `json:"subjectArea"`
	Subject          string       `json:"subject"`
	StudyLevel       string       `json:"studyLevel"`
	Level            string       `json:"level"`
	Module           string       `json:"module"`
	ModuleName       string       `json:"moduleName"`
	Instructions     string       `json:"instructions"`
	Notes            string       `json:"notes"`
	WordCount        Count        `json:"wordCount"`
	Words            Count        `json:"words"`
	DueDate          string       `json:"dueDate"`
	Deadline         string       `json:"deadline"`
	Price            Amount       `json:"price"`
	Amount           Amount       `json:"amount"`
	PaymentStatus    string       `json:"paymentStatus"`
	PaymentStatusAlt string       `json:"payment_status"`
	Files            []order.File `json:"files"`
}

// ToOrder maps the submission onto the unified order shape.
// Every field resolves canonical key, then alternate key, then a literal default.
func (s Submission) ToOrder(now time.Time) order.Order {
	m := s.Metadata

	createdAt := resolve(s.CreatedAt, s.UpdatedAt, now)
	updatedAt := resolve(s.UpdatedAt, createdAt, now)

	files := resolveFiles(s.Files, m.Files)

	return order.Order{
		ID:            s.ID,
		UserID:        s.UserID,
		UserName:      resolve(m.UserName, m.Name, NotSpecified),
		UserEmail:     resolve(m.UserEmail, m.Email, ""),
		ServiceType:   resolve(m.ServiceType, m.Service, NotSpecified),
		SubjectArea:   resolve(m.SubjectArea, m.Subject, NotSpecified),
		StudyLevel:    resolve(m.StudyLevel, m.Level, NotSpecified),
		Module:        resolve(m.Module, m.ModuleName, NotSpecified),
		Instructions:  resolve(m.Instructions, m.Notes, ""),
		WordCount:     resolveCount(m.WordCount, m.Words),
		DueDate:       resolve(m.DueDate, m.Deadline, now.Format(time.RFC3339)),
		Status:        order.NormalizeStatus(s.Status),
		PaymentStatus: order.NormalizePaymentStatus(resolve(m.PaymentStatus, m.PaymentStatusAlt, "")),
		Price:         resolveAmount(m.Price, m.Amount),
		Files:         files,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		Source:        order.SourceSubmissions,
	}
}

func resolve[T comparable](canonical, alternate, fallback T) T {
	var zero T
	if canonical != zero {
		return canonical
	}
	if alternate != zero {
		return alternate
	}

	return fallback
}

// resolveFiles returns the files column followed by the metadata files it does not already hold.
// Response files land in the column while the student's originals may only exist in metadata.
func resolveFiles(canonical, alternate []order.File) []order.File {
	res := make([]order.File, 0, len(canonical)+len(alternate))
	seen := make(map[string]struct{}, len(canonical))
	for _, f := range canonical {
		seen[fileKey(f)] = struct{}{}
		res = append(res, f)
	}

	for _, f := range alternate {
		if _, ok := seen[fileKey(f)]; ok {
			continue
		}
		seen[fileKey(f)] = struct{}{}
		res = append(res, f)
	}

	return res
}

func fileKey(f order.File) string {
	if f.URL != "" {
		return f.URL
	}

	return f.Path + "|" + f.Name
}
