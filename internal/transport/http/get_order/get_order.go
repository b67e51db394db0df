package getorder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/response"
)

type service interface {
	GetOrder(ctx context.Context, sess session.Session, id string) (order.Order, error)
}

func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	sess, _ := session.FromContext(r.Context())

	o, err := service.GetOrder(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		response.ServiceError(w, r, err, "Failed to load orders")

		return
	}

	response.JSON(w, http.StatusOK, o)
}
