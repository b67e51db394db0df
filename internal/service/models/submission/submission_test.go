package submission

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func decode(t *testing.T, raw string) Submission {
	t.Helper()

	var s Submission
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	return s
}

func TestToOrderCanonicalKeys(t *testing.T) {
	s := decode(t, `{
		"id": "sub-1",
		"user_id": "user-1",
		"status": "in-progress",
		"created_at": "2024-01-05T10:00:00Z",
		"updated_at": "2024-01-06T10:00:00Z",
		"files": [{"name": "draft.docx", "url": "https://files/draft.docx"}],
		"metadata": {
			"userName": "Ada",
			"name": "ignored",
			"userEmail": "ada@example.com",
			"serviceType": "Essay",
			"subjectArea": "History",
			"studyLevel": "Masters",
			"module": "HIS-501",
			"instructions": "Use Harvard referencing",
			"wordCount": 2500,
			"dueDate": "2024-02-01",
			"price": "149.99",
			"paymentStatus": "paid"
		}
	}`)

	o := s.ToOrder(now)

	assert.Equal(t, "sub-1", o.ID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, "Ada", o.UserName)
	assert.Equal(t, "ada@example.com", o.UserEmail)
	assert.Equal(t, "Essay", o.ServiceType)
	assert.Equal(t, "History", o.SubjectArea)
	assert.Equal(t, "Masters", o.StudyLevel)
	assert.Equal(t, "HIS-501", o.Module)
	assert.Equal(t, "Use Harvard referencing", o.Instructions)
	assert.Equal(t, 2500, o.WordCount)
	assert.Equal(t, "2024-02-01", o.DueDate)
	assert.True(t, decimal.RequireFromString("149.99").Equal(o.Price))
	assert.Equal(t, order.StatusInProgress, o.Status)
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus)
	assert.Equal(t, order.SourceSubmissions, o.Source)
	assert.Equal(t, time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), o.CreatedAt.UTC())
	require.Len(t, o.Files, 1)
	assert.Equal(t, "draft.docx", o.Files[0].Name)
}

func TestToOrderAlternateKeys(t *testing.T) {
	s := decode(t, `{
		"id": "sub-2",
		"status": "cancelled",
		"created_at": "2024-01-05T10:00:00Z",
		"metadata": {
			"name": "Grace",
			"email": "grace@example.com",
			"service": "Dissertation",
			"subject": "Computing",
			"level": "PhD",
			"moduleName": "CS-900",
			"notes": "Chapter 3 only",
			"words": "4000",
			"deadline": "2024-04-10",
			"amount": 320,
			"payment_status": "partially_paid",
			"files": [{"name": "outline.pdf", "url": "https://files/outline.pdf"}]
		}
	}`)

	o := s.ToOrder(now)

	assert.Equal(t, "Grace", o.UserName)
	assert.Equal(t, "grace@example.com", o.UserEmail)
	assert.Equal(t, "Dissertation", o.ServiceType)
	assert.Equal(t, "Computing", o.SubjectArea)
	assert.Equal(t, "PhD", o.StudyLevel)
	assert.Equal(t, "CS-900", o.Module)
	assert.Equal(t, "Chapter 3 only", o.Instructions)
	assert.Equal(t, 4000, o.WordCount)
	assert.Equal(t, "2024-04-10", o.DueDate)
	assert.True(t, decimal.NewFromInt(320).Equal(o.Price))
	assert.Equal(t, order.StatusRejected, o.Status)
	assert.Equal(t, order.PaymentPartial, o.PaymentStatus)
	require.Len(t, o.Files, 1)
	assert.Equal(t, "outline.pdf", o.Files[0].Name)
}

func TestToOrderDefaults(t *testing.T) {
	s := decode(t, `{"id": "sub-3", "metadata": {"wordCount": "lots", "price": -5}}`)

	o := s.ToOrder(now)

	assert.Equal(t, NotSpecified, o.UserName)
	assert.Equal(t, "", o.UserEmail)
	assert.Equal(t, NotSpecified, o.ServiceType)
	assert.Equal(t, NotSpecified, o.SubjectArea)
	assert.Equal(t, NotSpecified, o.StudyLevel)
	assert.Equal(t, NotSpecified, o.Module)
	assert.Equal(t, "", o.Instructions)
	assert.Equal(t, 0, o.WordCount)
	assert.Equal(t, now.Format(time.RFC3339), o.DueDate)
	assert.True(t, o.Price.IsZero())
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, order.PaymentUnpaid, o.PaymentStatus)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, now, o.UpdatedAt)
	assert.NotNil(t, o.Files)
	assert.Empty(t, o.Files)
}

func TestToOrderOversizedWordCount(t *testing.T) {
	s := decode(t, `{"id": "sub-5", "metadata": {"wordCount": 1e30, "words": 800}}`)
	assert.Equal(t, 800, s.ToOrder(now).WordCount)

	s = decode(t, `{"id": "sub-6", "metadata": {"wordCount": 1e30}}`)
	assert.Equal(t, 0, s.ToOrder(now).WordCount)
}

func TestToOrderKeepsMetadataFilesNextToResponseFiles(t *testing.T) {
	s := decode(t, `{
		"id": "sub-7",
		"files": [
			{"name": "orig.pdf", "url": "https://files/orig.pdf"},
			{"name": "resp.pdf", "url": "https://blob/resp.pdf"}
		],
		"metadata": {"files": [
			{"name": "orig.pdf", "url": "https://files/orig.pdf"},
			{"name": "notes.docx", "url": "https://files/notes.docx"}
		]}
	}`)

	names := make([]string, 0)
	for _, f := range s.ToOrder(now).Files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"orig.pdf", "resp.pdf", "notes.docx"}, names)
}

func TestToOrderCreatedAtFallsBackToUpdatedAt(t *testing.T) {
	s := decode(t, `{"id": "sub-4", "updated_at": "2024-01-07T08:00:00Z"}`)

	o := s.ToOrder(now)

	assert.Equal(t, time.Date(2024, 1, 7, 8, 0, 0, 0, time.UTC), o.CreatedAt.UTC())
}

func TestCountAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		raw   string
		want  int
		valid bool
	}{
		{raw: `1200`, want: 1200, valid: true},
		{raw: `"1200"`, want: 1200, valid: true},
		{raw: `" 75 "`, want: 75, valid: true},
		{raw: `null`, valid: false},
		{raw: `""`, valid: false},
		{raw: `"n/a"`, valid: false},
		{raw: `-3`, valid: false},
		{raw: `1e30`, valid: false},
		{raw: `"1e30"`, valid: false},
		{raw: `"NaN"`, valid: false},
		{raw: `"Inf"`, valid: false},
		{raw: `2147483647`, want: 2147483647, valid: true},
		{raw: `2147483648`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c Count
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			assert.Equal(t, tt.valid, c.Valid)
			assert.Equal(t, tt.want, c.Value)
		})
	}
}
