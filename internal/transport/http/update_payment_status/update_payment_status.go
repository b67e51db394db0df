package updatepaymentstatus

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

const noticeFailed = "Failed to update payment status"

var validate = validator.New()

type service interface {
	SetPaymentStatus(
		ctx context.Context,
		sess session.Session,
		id string,
		paymentStatus order.PaymentStatus,
	) (order.Order, error)
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

func (r *updatePaymentStatusRequest) Validate() error {
	return validate.Struct(r)
}

func UpdatePaymentStatus(w http.ResponseWriter, r *http.Request, service service) {
	sess, _ := session.FromContext(r.Context())

	req := updatePaymentStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Error decoding request body for payment status update", "error", err)
		response.Error(w, http.StatusBadRequest, noticeFailed)

		return
	}

	if err := req.Validate(); err != nil {
		slog.Warn("Error validating request body for payment status update", "error", err)
		response.Error(w, http.StatusBadRequest, noticeFailed)

		return
	}

	ps, err := order.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		response.ServiceError(w, r, err, noticeFailed)

		return
	}

	updated, err := service.SetPaymentStatus(r.Context(), sess, chi.URLParam(r, "id"), ps)
	if err != nil {
		response.ServiceError(w, r, err, noticeFailed)

		return
	}

	response.JSON(w, http.StatusOK, updated)
}
