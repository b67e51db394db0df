package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/handywriterz/order-admin-svc/internal/service/models/message"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
)

const NoticeNotFound = "Order not found"

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// Error writes a failure notice.
func Error(w http.ResponseWriter, status int, notice string) {
	JSON(w, status, ErrorBody{Error: notice})
}

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidPaymentStatus),
		errors.Is(err, message.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrNoFilesUploaded):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ServiceError logs err and writes the notice for the failed action.
// Unknown orders always get NoticeNotFound.
func ServiceError(w http.ResponseWriter, r *http.Request, err error, notice string) {
	status := StatusFor(err)
	if status == http.StatusNotFound {
		notice = NoticeNotFound
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), notice, "error", err)
	} else {
		slog.WarnContext(r.Context(), notice, "error", err)
	}

	Error(w, status, notice)
}
