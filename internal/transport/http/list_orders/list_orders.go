package listorders

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/service/services/ordersvc"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/response"
)

const noticeLoadFailed = "Failed to load orders"

type service interface {
	Orders(ctx context.Context, sess session.Session, filter order.ListFilter) (order.Page, error)
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

type queryOrdersRequest struct {
	Search        string `schema:"q"`
	Status        string `schema:"status"`
	PaymentStatus string `schema:"paymentStatus"`
	Page          int    `schema:"page"`
	PageSize      int    `schema:"pageSize"`
}

func (q *queryOrdersRequest) ToModel() (order.ListFilter, error) {
	filter := order.ListFilter{
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	if q.Status != "" && !strings.EqualFold(q.Status, "all") {
		status, err := order.ParseStatus(q.Status)
		if err != nil {
			return order.ListFilter{}, err
		}
		filter.Status = status
	}

	if q.PaymentStatus != "" && !strings.EqualFold(q.PaymentStatus, "all") {
		ps, err := order.ParsePaymentStatus(q.PaymentStatus)
		if err != nil {
			return order.ListFilter{}, err
		}
		filter.PaymentStatus = ps
	}

	return filter, nil
}

type listOrdersResponse struct {
	order.Page
	Warning string `json:"warning,omitempty"`
}

// Warning turns a partial load failure into the notice shown next to the list.
func Warning(err error) string {
	var loadErr *ordersvc.LoadError
	if !errors.As(err, &loadErr) {
		return noticeLoadFailed
	}

	sources := make([]string, 0, len(loadErr.Failures))
	for _, f := range loadErr.Failures {
		sources = append(sources, string(f.Source))
	}

	return noticeLoadFailed + " from " + strings.Join(sources, ", ")
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	sess, _ := session.FromContext(r.Context())

	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		slog.Warn("Error decoding list orders query", "error", err)
		response.Error(w, http.StatusBadRequest, err.Error())

		return
	}

	filter, err := query.ToModel()
	if err != nil {
		slog.Warn("Invalid list orders filter", "error", err)
		response.Error(w, http.StatusBadRequest, err.Error())

		return
	}

	page, err := service.Orders(r.Context(), sess, filter)
	res := listOrdersResponse{Page: page}
	if err != nil {
		var loadErr *ordersvc.LoadError
		if !errors.As(err, &loadErr) {
			response.ServiceError(w, r, err, noticeLoadFailed)

			return
		}
		res.Warning = Warning(err)
	}

	response.JSON(w, http.StatusOK, res)
}
