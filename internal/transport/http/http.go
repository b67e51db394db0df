package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/handywriterz/order-admin-svc/internal/service/models/message"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/service/services/ordersvc"
	attachfiles "github.com/handywriterz/order-admin-svc/internal/transport/http/attach_files"
	getorder "github.com/handywriterz/order-admin-svc/internal/transport/http/get_order"
	listorders "github.com/handywriterz/order-admin-svc/internal/transport/http/list_orders"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/middleware/auth"
	ordermessages "github.com/handywriterz/order-admin-svc/internal/transport/http/order_messages"
	reloadorders "github.com/handywriterz/order-admin-svc/internal/transport/http/reload_orders"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/response"
	updatepaymentstatus "github.com/handywriterz/order-admin-svc/internal/transport/http/update_payment_status"
	updatestatus "github.com/handywriterz/order-admin-svc/internal/transport/http/update_status"
	"github.com/handywriterz/order-admin-svc/pkg/http/middleware/trace"
	"github.com/handywriterz/order-admin-svc/pkg/logger"
	"github.com/spf13/viper"
)

const serviceName = "order-admin-svc"

type service interface {
	LoadOrders(ctx context.Context, sess session.Session) ([]order.Order, error)
	Orders(ctx context.Context, sess session.Session, filter order.ListFilter) (order.Page, error)
	GetOrder(ctx context.Context, sess session.Session, id string) (order.Order, error)
	SetOrderStatus(ctx context.Context, sess session.Session, id string, status order.Status) (order.Order, error)
	SetPaymentStatus(
		ctx context.Context,
		sess session.Session,
		id string,
		paymentStatus order.PaymentStatus,
	) (order.Order, error)
	AttachResponseFiles(
		ctx context.Context,
		sess session.Session,
		id string,
		uploads []order.Upload,
	) (ordersvc.AttachResult, error)
	ListMessages(ctx context.Context, sess session.Session, id string) ([]message.OrderMessage, error)
	SendMessage(
		ctx context.Context,
		sess session.Session,
		id string,
		text string,
		files []order.File,
	) (message.OrderMessage, error)
}

type HTTPTransport struct {
	server    *http.Server
	router    *chi.Mux
	service   service
	jwtSecret []byte
}

func NewHTTPTransport(service service, jwtSecret []byte) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:    server,
		router:    router,
		service:   service,
		jwtSecret: jwtSecret,
	}
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/healthz", healthz)

	h.router.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.NewAuthMiddleware(h.jwtSecret))

		r.Get("/orders", h.listOrders)
		r.Post("/orders/reload", h.reloadOrders)
		r.Route("/orders/{id}", func(r chi.Router) {
			r.Get("/", h.getOrder)
			r.Patch("/status", h.updateStatus)
			r.Patch("/payment-status", h.updatePaymentStatus)
			r.Post("/files", h.attachFiles)
			r.Get("/messages", h.listMessages)
			r.Post("/messages", h.sendMessage)
		})
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) reloadOrders(w http.ResponseWriter, r *http.Request) {
	reloadorders.ReloadOrders(w, r, h.service)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.service)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.service)
}

func (h *HTTPTransport) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	updatepaymentstatus.UpdatePaymentStatus(w, r, h.service)
}

func (h *HTTPTransport) attachFiles(w http.ResponseWriter, r *http.Request) {
	attachfiles.AttachFiles(w, r, h.service)
}

func (h *HTTPTransport) listMessages(w http.ResponseWriter, r *http.Request) {
	ordermessages.ListMessages(w, r, h.service)
}

func (h *HTTPTransport) sendMessage(w http.ResponseWriter, r *http.Request) {
	ordermessages.SendMessage(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware(serviceName))
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	port := viper.GetString("server.http.port")
	if port == "" {
		port = "8080"
	}

	return &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
