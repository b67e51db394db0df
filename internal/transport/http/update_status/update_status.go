package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/response"
)

const noticeFailed = "Failed to update status"

var validate = validator.New()

type service interface {
	SetOrderStatus(ctx context.Context, sess session.Session, id string, status order.Status) (order.Order, error)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r *updateStatusRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateStatus handles PATCH /orders/{id}/status.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	sess, _ := session.FromContext(r.Context())

	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Error decoding request body for status update", "error", err)
		response.Error(w, http.StatusBadRequest, noticeFailed)

		return
	}

	if err := req.Validate(); err != nil {
		slog.Warn("Error validating request body for status update", "error", err)
		response.Error(w, http.StatusBadRequest, noticeFailed)

		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		response.ServiceError(w, r, err, noticeFailed)

		return
	}

	updated, err := service.SetOrderStatus(r.Context(), sess, chi.URLParam(r, "id"), status)
	if err != nil {
		response.ServiceError(w, r, err, noticeFailed)

		return
	}

	response.JSON(w, http.StatusOK, updated)
}
