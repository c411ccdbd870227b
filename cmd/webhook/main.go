package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/nsqio/go-nsq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qubedcare/postmark_relay/internal/config"
	"github.com/qubedcare/postmark_relay/internal/health"
	"github.com/qubedcare/postmark_relay/internal/logging"
	"github.com/qubedcare/postmark_relay/internal/metrics"
	"github.com/qubedcare/postmark_relay/internal/publish"
	"github.com/qubedcare/postmark_relay/internal/tracing"
	"github.com/qubedcare/postmark_relay/internal/webhook"
)

func main() {
	cfg := config.FromEnv()
	ctx := context.Background()

	logger := logging.New("postmark-relay-webhook")

	if cfg.Webhook.Secret == "" {
		logger.Plain().Fatal("WEBHOOK_SECRET must be set")
	}

	// OpenTelemetry tracing
	shutdown, err := tracing.InitTracing(ctx, "postmark-relay-webhook")
	if err != nil {
		logger.Plain().WithError(err).Fatal("failed to initialize tracing")
	}
	defer shutdown()

	// NSQ producer; shared across all concurrent requests
	prod, err := nsq.NewProducer(cfg.NSQ.NsqdTCPAddr, nsq.NewConfig())
	if err != nil {
		logger.Plain().WithError(err).Fatal("nsq producer creation failed")
	}
	defer prod.Stop()

	pub := publish.NewPublisher(prod, cfg.NSQ.TriageTopic, cfg.Webhook.PublishAttempts, cfg.Webhook.PublishBackoff)
	svc := webhook.NewService(cfg.Webhook.Secret, pub)
	handler := webhook.NewHandler(svc, cfg.Webhook.RequestTimeout)

	// Prom metrics
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.HandleFunc("/healthz", health.HTTPHandler(prod)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	httpSrv := &http.Server{Addr: cfg.HTTPPort, Handler: router}
	go func() {
		logger.Plain().WithField("addr", httpSrv.Addr).WithTopic(cfg.NSQ.TriageTopic).Info("webhook server starting")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Plain().WithError(err).Fatal("webhook server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	logger.Plain().Info("shutting down webhook server")
	_ = httpSrv.Shutdown(context.Background())
	logger.Plain().Info("webhook server stopped")
}
