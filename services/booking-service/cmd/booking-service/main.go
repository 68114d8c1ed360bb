package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/md-rashed-zaman/apptbook/libs/config"
	"github.com/md-rashed-zaman/apptbook/libs/httpx"
	"github.com/md-rashed-zaman/apptbook/libs/kafkax"
	otelx "github.com/md-rashed-zaman/apptbook/libs/otel"
	"github.com/md-rashed-zaman/apptbook/libs/runtime"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/events"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/handlers"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/storage"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/web"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "3001")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service, config.String("LOG_LEVEL", "info"))

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	brokers := kafkax.SplitBrokers(config.String("KAFKA_BROKERS", ""))
	publisher := events.NewPublisher(logger, events.PublisherConfig{
		Brokers:      brokers,
		QueueSize:    config.PositiveInt("EVENTS_QUEUE_SIZE", 256),
		WriteTimeout: config.Seconds("EVENTS_WRITE_TIMEOUT_SECONDS", 5*time.Second),
	})
	publisherDone := make(chan struct{})
	go func() {
		defer close(publisherDone)
		publisher.Run(ctx)
	}()

	repo := storage.NewBookingRepository()
	svc := booking.NewService(repo, logger, booking.WithNotifier(publisher))
	bookingHandler := handlers.NewBookingHandler(svc, logger)

	var checks []runtime.ReadyCheck
	if len(brokers) > 0 {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	mux := http.NewServeMux()
	runtime.RegisterHealth(mux, checks...)
	bookingHandler.Register(mux)
	mux.Handle("/", web.Handler())

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithCORS(httpx.PublicAPIPolicy(corsOrigins())),
		httpx.WithBodyLimit(int64(config.PositiveInt("REQUEST_BODY_LIMIT_BYTES", 64<<10))),
		httpx.WithTimeout(config.Seconds("REQUEST_TIMEOUT_SECONDS", 10*time.Second)),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := runtime.Serve(ctx, srv, logger, 10*time.Second)
	stop()
	<-publisherDone
	return serveErr
}

// corsOrigins reads CORS_ALLOWED_ORIGINS; "none" turns CORS headers off.
func corsOrigins() []string {
	origins := config.List("CORS_ALLOWED_ORIGINS", "*")
	if len(origins) == 1 && strings.EqualFold(origins[0], "none") {
		return nil
	}
	return origins
}
