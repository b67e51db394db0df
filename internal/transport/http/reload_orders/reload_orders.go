package reloadorders

import (
	"context"
	"errors"
	"net/http"

	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/service/services/ordersvc"
	listorders "github.com/handywriterz/order-admin-svc/internal/transport/http/list_orders"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/response"
)

type service interface {
	LoadOrders(ctx context.Context, sess session.Session) ([]order.Order, error)
}

type reloadOrdersResponse struct {
	Total   int    `json:"total"`
	Warning string `json:"warning,omitempty"`
}

// ReloadOrders rereads both sources into the caller's board.
func ReloadOrders(w http.ResponseWriter, r *http.Request, service service) {
	sess, _ := session.FromContext(r.Context())

	orders, err := service.LoadOrders(r.Context(), sess)
	res := reloadOrdersResponse{Total: len(orders)}
	if err != nil {
		var loadErr *ordersvc.LoadError
		if !errors.As(err, &loadErr) {
			response.ServiceError(w, r, err, "Failed to load orders")

			return
		}
		res.Warning = listorders.Warning(err)
	}

	response.JSON(w, http.StatusOK, res)
}
