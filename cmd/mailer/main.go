package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qubedcare/postmark_relay/internal/config"
	"github.com/qubedcare/postmark_relay/internal/logging"
	"github.com/qubedcare/postmark_relay/internal/mailer"
	"github.com/qubedcare/postmark_relay/internal/metrics"
	"github.com/qubedcare/postmark_relay/internal/tracing"
)

func main() {
	cfg := config.FromEnv()
	ctx := context.Background()

	logger := logging.New("postmark-relay-mailer")

	shutdown, err := tracing.InitTracing(ctx, "postmark-relay-mailer")
	if err != nil {
		logger.Plain().WithError(err).Fatal("failed to initialize tracing")
	}
	defer shutdown()

	// Prom metrics + health
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)

	httpMux := http.NewServeMux()
	httpMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	httpMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	httpSrv := &http.Server{Addr: cfg.Mailer.HTTPPort, Handler: httpMux}
	go func() {
		logger.Plain().WithField("addr", httpSrv.Addr).Info("mailer HTTP server starting")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Plain().WithError(err).Fatal("mailer HTTP server failed")
		}
	}()

	provider := mailer.NewGuerrillaProvider(cfg.Mailer.MailboxAPIURL, cfg.Mailer.RequestTimeout)
	sender := mailer.NewPostmarkSender(cfg.Mailer.APIBaseURL, cfg.Mailer.ServerToken, cfg.Mailer.FromEmail, cfg.Mailer.RequestTimeout)
	welcome := mailer.NewWelcomeService(provider, sender)

	nsqConf := nsq.NewConfig()
	nsqConf.MaxInFlight = 100

	newClientConsumer, err := nsq.NewConsumer(cfg.NSQ.NewClientTopic, cfg.NSQ.MailerChannel, nsqConf)
	if err != nil {
		logger.Plain().WithError(err).Fatal("nsq consumer creation failed")
	}
	newClientConsumer.AddHandler(newClientHandler(ctx, cfg, welcome, logger))

	crmConsumer, err := nsq.NewConsumer(cfg.NSQ.CRMUpdateTopic, cfg.NSQ.MailerChannel, nsqConf)
	if err != nil {
		logger.Plain().WithError(err).Fatal("nsq consumer creation failed")
	}
	crmConsumer.AddHandler(crmUpdateHandler(ctx, logger))

	// Connecting directly to NSQD forces channel creation, instead of the
	// channel being lazily created on first publish
	for _, c := range []*nsq.Consumer{newClientConsumer, crmConsumer} {
		if err := c.ConnectToNSQD(cfg.NSQ.NsqdTCPAddr); err != nil {
			logger.Plain().WithError(err).Fatal("connect to nsqd failed")
		}
		if err := c.ConnectToNSQLookupd(cfg.NSQ.LookupHTTPAddr); err != nil {
			logger.Plain().WithError(err).Fatal("connect to lookupd failed")
		}
	}

	logger.Plain().Info("mailer service started")

	// Graceful stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	logger.Plain().Info("shutting down mailer service")
	newClientConsumer.Stop()
	crmConsumer.Stop()
	<-newClientConsumer.StopChan
	<-crmConsumer.StopChan
	_ = httpSrv.Shutdown(context.Background())
	logger.Plain().Info("mailer service stopped")
}

// newClientHandler onboards clients announced on the new-client topic. A
// failed attempt is requeued with doubling backoff up to the configured
// maximum, then dropped with an error log.
func newClientHandler(ctx context.Context, cfg config.Config, welcome *mailer.WelcomeService, logger *logging.Logger) nsq.HandlerFunc {
	return func(m *nsq.Message) error {
		m.DisableAutoResponse() // we manually requeue or finish
		defer func() {
			if !m.HasResponded() {
				m.Finish()
			}
		}()

		var c mailer.Client
		if err := json.Unmarshal(m.Body, &c); err != nil {
			logger.Plain().WithError(err).Error("bad new-client payload")
			m.Finish() // terminal: don't retry bad payloads
			return nil
		}

		ctx, span := tracing.StartSpan(ctx, "mailer.new_client")
		defer span.End()

		if _, err := welcome.HandleNewClient(ctx, c); err != nil {
			tracing.SetSpanError(ctx, err)
			attempt := int(m.Attempts)
			if attempt >= cfg.Mailer.MaxAttempts {
				logger.WithContext(ctx).WithError(err).WithField("client_id", c.ID).
					Error("dropping new-client alert after max attempts")
				m.Finish()
				return nil
			}
			delay := computeDelay(attempt, cfg.Mailer.BackoffBase, cfg.Mailer.JitterPercent)
			logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"client_id": c.ID,
				"attempt":   attempt,
				"delay":     delay.String(),
			}).Warn("requeue new-client alert")
			m.Requeue(delay)
			return nil
		}

		m.Finish()
		return nil
	}
}

// crmUpdateHandler consumes CRM client updates. The relay has no local client
// state to reconcile, so this is a logged pass-through.
func crmUpdateHandler(ctx context.Context, logger *logging.Logger) nsq.HandlerFunc {
	return func(m *nsq.Message) error {
		var c mailer.Client
		if err := json.Unmarshal(m.Body, &c); err != nil {
			logger.Plain().WithError(err).Error("bad crm-update payload")
			return nil // terminal
		}
		metrics.RecordCRMUpdate()
		logger.WithContext(ctx).WithField("client_id", c.ID).Info("crm update received")
		return nil
	}
}

// computeDelay doubles the base delay per attempt and applies +/- jitter.
func computeDelay(attempt int, base time.Duration, jitterPct float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base << (attempt - 1)
	j := 1 + (rand.Float64()*2-1)*jitterPct
	if j < 0.1 {
		j = 0.1
	}
	return time.Duration(float64(d) * j)
}
