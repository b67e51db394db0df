package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/dal/blob/supabase"
	notifyhttp "github.com/handywriterz/order-admin-svc/internal/dal/notify/http"
	notifyrabbitmq "github.com/handywriterz/order-admin-svc/internal/dal/notify/rabbitmq"
	"github.com/handywriterz/order-admin-svc/internal/dal/postgres"
	"github.com/handywriterz/order-admin-svc/internal/dal/rabbitmq"
	auditrepo "github.com/handywriterz/order-admin-svc/internal/dal/repositories/audit/postgres"
	messagerepo "github.com/handywriterz/order-admin-svc/internal/dal/repositories/message/postgres"
	orderrepo "github.com/handywriterz/order-admin-svc/internal/dal/repositories/order/postgres"
	submissionhttp "github.com/handywriterz/order-admin-svc/internal/dal/repositories/submission/http"
	submissionrepo "github.com/handywriterz/order-admin-svc/internal/dal/repositories/submission/postgres"
	"github.com/handywriterz/order-admin-svc/internal/otel"
	"github.com/handywriterz/order-admin-svc/internal/service/services/ordersvc"
	httptransport "github.com/handywriterz/order-admin-svc/internal/transport/http"
	"github.com/handywriterz/order-admin-svc/internal/worker/notify"
	"github.com/juju/clock"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	dispatcher     *notify.Dispatcher
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otel           *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel(viper.GetBool("tracing.enabled"))

	postgresClient := postgres.MustNewClient()
	pool := postgresClient.Pool()

	senders, rabbitClient := mustNewSenders()
	dispatcher := notify.NewDispatcherFromConfig(senders)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderrepo.NewPostgresOrderRepository(pool, clock.WallClock)),
		ordersvc.WithSubmissionSource(submissionhttp.MustNewSubmissionClient()),
		ordersvc.WithSubmissionWriter(submissionrepo.NewSubmissionRepository(pool)),
		ordersvc.WithMessageRepository(messagerepo.NewMessageRepository(pool)),
		ordersvc.WithAuditRepository(auditrepo.NewAuditRepository(pool)),
		ordersvc.WithBlobStore(supabase.MustNewBlobStore()),
		ordersvc.WithNotifier(dispatcher),
		ordersvc.WithClock(clock.WallClock),
		ordersvc.WithUploadConcurrency(viper.GetInt("storage.upload_concurrency")),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, mustJWTSecret())
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		dispatcher:     dispatcher,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otel:           otelController,
	}
}

// mustNewSenders builds the notification senders named by notifications.transport.
// The RabbitMQ client is returned so it can be closed on shutdown.
func mustNewSenders() ([]notify.Sender, *rabbitmq.Client) {
	transports := viper.GetStringSlice("notifications.transport")
	if len(transports) == 0 {
		transports = []string{"http"}
	}

	var (
		senders      []notify.Sender
		rabbitClient *rabbitmq.Client
	)

	if slices.Contains(transports, "http") {
		client := notifyhttp.MustNewClient()
		senders = append(senders, notifyhttp.NewEmailSender(client), notifyhttp.NewMessageSender(client))
	}

	if slices.Contains(transports, "amqp") {
		rabbitClient = rabbitmq.MustNewClient()
		senders = append(senders, notifyrabbitmq.MustNewPublisher(rabbitClient))
	}

	return senders, rabbitClient
}

func mustJWTSecret() []byte {
	envName := viper.GetString("auth.jwt_secret_env")
	if envName == "" {
		envName = "SUPABASE_JWT_SECRET"
	}

	secret := os.Getenv(envName)
	if secret == "" {
		panic(envName + " is not set")
	}

	return []byte(secret)
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		a.dispatcher.Start(workerCtx)
	}()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.dispatcher.Stop()
	select {
	case <-dispatcherDone:
		slog.Info("Notification dispatcher drained")
	case <-ctx.Done():
		slog.Warn("Notification dispatcher did not drain in time")
		cancelWorkers()
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		}
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed")

	if err := a.otel.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
