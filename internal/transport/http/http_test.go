package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/handywriterz/order-admin-svc/internal/service/models/message"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/service/services/ordersvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtSecret = []byte("transport-secret")

type fakeService struct {
	sess    session.Session
	filter  order.ListFilter
	status  order.Status
	payment order.PaymentStatus
	uploads []string
	text    string
	err     error
}

func (f *fakeService) LoadOrders(_ context.Context, sess session.Session) ([]order.Order, error) {
	f.sess = sess

	return []order.Order{{ID: "ord-1"}}, f.err
}

func (f *fakeService) Orders(_ context.Context, sess session.Session, filter order.ListFilter) (order.Page, error) {
	f.sess = sess
	f.filter = filter

	return order.Page{
		Orders:   []order.Order{{ID: "ord-1", Status: order.StatusPending, Files: []order.File{}}},
		Total:    1,
		Page:     1,
		PageSize: 20,
	}, f.err
}

func (f *fakeService) GetOrder(_ context.Context, _ session.Session, id string) (order.Order, error) {
	if f.err != nil {
		return order.Order{}, f.err
	}

	return order.Order{ID: id}, nil
}

func (f *fakeService) SetOrderStatus(
	_ context.Context,
	_ session.Session,
	id string,
	status order.Status,
) (order.Order, error) {
	f.status = status
	if f.err != nil {
		return order.Order{}, f.err
	}

	return order.Order{ID: id, Status: status}, nil
}

func (f *fakeService) SetPaymentStatus(
	_ context.Context,
	_ session.Session,
	id string,
	ps order.PaymentStatus,
) (order.Order, error) {
	f.payment = ps
	if f.err != nil {
		return order.Order{}, f.err
	}

	return order.Order{ID: id, PaymentStatus: ps}, nil
}

func (f *fakeService) AttachResponseFiles(
	_ context.Context,
	_ session.Session,
	id string,
	uploads []order.Upload,
) (ordersvc.AttachResult, error) {
	for _, u := range uploads {
		content, _ := io.ReadAll(u.Content)
		f.uploads = append(f.uploads, u.Name+"="+string(content))
	}
	if f.err != nil {
		return ordersvc.AttachResult{}, f.err
	}

	return ordersvc.AttachResult{Order: order.Order{ID: id, Status: order.StatusCompleted}, Skipped: []string{}}, nil
}

func (f *fakeService) ListMessages(_ context.Context, _ session.Session, _ string) ([]message.OrderMessage, error) {
	return []message.OrderMessage{}, f.err
}

func (f *fakeService) SendMessage(
	_ context.Context,
	_ session.Session,
	id string,
	text string,
	_ []order.File,
) (message.OrderMessage, error) {
	f.text = text
	if f.err != nil {
		return message.OrderMessage{}, f.err
	}

	return message.OrderMessage{ID: "msg-1", OrderID: id, Message: text}, nil
}

func newTestTransport(svc *fakeService) http.Handler {
	tr := NewHTTPTransport(svc, jwtSecret)
	tr.RegisterRoutes()

	return tr.Handler()
}

func bearer(t *testing.T) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin-1",
		"email": "admin@handywriterz.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwtSecret)
	require.NoError(t, err)

	return "Bearer " + token
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", bearer(t))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func errorNotice(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body["error"]
}

func TestHealthzIsPublic(t *testing.T) {
	h := newTestTransport(&fakeService{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h := newTestTransport(&fakeService{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListOrders(t *testing.T) {
	svc := &fakeService{}
	h := newTestTransport(svc)

	rec := do(t, h, http.MethodGet, "/api/admin/orders?q=ada&status=in-progress&paymentStatus=all&page=2&pageSize=10", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, order.ListFilter{Search: "ada", Status: order.StatusInProgress, Page: 2, PageSize: 10}, svc.filter)
	assert.Equal(t, "admin-1", svc.sess.AdminID)
	assert.NotEmpty(t, svc.sess.Token)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 20, body["pageSize"])
	assert.Len(t, body["orders"], 1)
	assert.NotContains(t, body, "warning")
}

func TestListOrdersPartialFailure(t *testing.T) {
	svc := &fakeService{err: &ordersvc.LoadError{Failures: []ordersvc.SourceError{
		{Source: order.SourceSubmissions, Err: errors.New("503")},
	}}}
	h := newTestTransport(svc)

	rec := do(t, h, http.MethodGet, "/api/admin/orders", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to load orders from submissions", body["warning"])
	assert.Len(t, body["orders"], 1)
}

func TestListOrdersBadFilter(t *testing.T) {
	h := newTestTransport(&fakeService{})

	rec := do(t, h, http.MethodGet, "/api/admin/orders?status=archived", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReloadOrders(t *testing.T) {
	svc := &fakeService{}
	h := newTestTransport(svc)

	rec := do(t, h, http.MethodPost, "/api/admin/orders/reload", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total": 1}`, rec.Body.String())
}

func TestUpdateStatus(t *testing.T) {
	svc := &fakeService{}
	h := newTestTransport(svc)

	rec := do(t, h, http.MethodPatch, "/api/admin/orders/ord-1/status", strings.NewReader(`{"status": "in-progress"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.StatusInProgress, svc.status)

	var got order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ord-1", got.ID)
	assert.Equal(t, order.StatusInProgress, got.Status)
}

func TestUpdateStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		code   int
		notice string
	}{
		{name: "unknown order", body: `{"status": "completed"}`, err: order.ErrNotFound, code: http.StatusNotFound, notice: "Order not found"},
		{name: "unknown status", body: `{"status": "archived"}`, code: http.StatusBadRequest, notice: "Failed to update status"},
		{name: "missing status", body: `{}`, code: http.StatusBadRequest, notice: "Failed to update status"},
		{name: "malformed", body: `{`, code: http.StatusBadRequest, notice: "Failed to update status"},
		{name: "store down", body: `{"status": "completed"}`, err: errors.New("conn reset"), code: http.StatusInternalServerError, notice: "Failed to update status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestTransport(&fakeService{err: tt.err})

			rec := do(t, h, http.MethodPatch, "/api/admin/orders/ord-1/status", strings.NewReader(tt.body), "application/json")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.notice, errorNotice(t, rec))
		})
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc := &fakeService{}
	h := newTestTransport(svc)

	rec := do(t, h, http.MethodPatch, "/api/admin/orders/ord-1/payment-status", strings.NewReader(`{"paymentStatus": "partially_paid"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.PaymentPartial, svc.payment)

	svc.err = errors.New("conn reset")
	rec = do(t, h, http.MethodPatch, "/api/admin/orders/ord-1/payment-status", strings.NewReader(`{"paymentStatus": "paid"}`), "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to update payment status", errorNotice(t, rec))
}

func multipartBody(t *testing.T, files map[string]string, names []string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for _, name := range names {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return buf, mw.FormDataContentType()
}

func TestAttachFiles(t *testing.T) {
	svc := &fakeService{}
	h := newTestTransport(svc)

	body, ct := multipartBody(t, map[string]string{"a.pdf": "alpha", "b.pdf": "beta"}, []string{"a.pdf", "b.pdf"})
	rec := do(t, h, http.MethodPost, "/api/admin/orders/ord-1/files", body, ct)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a.pdf=alpha", "b.pdf=beta"}, svc.uploads)
}

func TestAttachFilesErrors(t *testing.T) {
	h := newTestTransport(&fakeService{err: order.ErrNoFilesUploaded})

	body, ct := multipartBody(t, map[string]string{"a.pdf": "alpha"}, []string{"a.pdf"})
	rec := do(t, h, http.MethodPost, "/api/admin/orders/ord-1/files", body, ct)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to upload files", errorNotice(t, rec))

	empty, ct := multipartBody(t, nil, nil)
	rec = do(t, h, http.MethodPost, "/api/admin/orders/ord-1/files", empty, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessages(t *testing.T) {
	svc := &fakeService{}
	h := newTestTransport(svc)

	rec := do(t, h, http.MethodPost, "/api/admin/orders/ord-1/messages", strings.NewReader(`{"message": "Draft attached"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Draft attached", svc.text)

	rec = do(t, h, http.MethodPost, "/api/admin/orders/ord-1/messages", strings.NewReader(`{"message": ""}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to send message", errorNotice(t, rec))

	rec = do(t, h, http.MethodGet, "/api/admin/orders/ord-1/messages", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetOrderNotFound(t *testing.T) {
	h := newTestTransport(&fakeService{err: order.ErrNotFound})

	rec := do(t, h, http.MethodGet, "/api/admin/orders/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", errorNotice(t, rec))
}
