package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/qubedcare/postmark_relay/internal/event"
	"github.com/qubedcare/postmark_relay/internal/metrics"
	"github.com/qubedcare/postmark_relay/internal/signature"
)

// Fixed response bodies. Nothing from the payload or the failure cause is
// ever echoed back to the caller.
const (
	successMessage          = "Event processed successfully"
	invalidSignatureMessage = "Invalid signature"
	processingErrorMessage  = "Error processing event"
	malformedBodyMessage    = "Malformed payload"
)

// Handler binds the webhook routes to a Service.
type Handler struct {
	svc     *Service
	timeout time.Duration
}

// NewHandler returns a Handler applying timeout as the per-request deadline.
// The deadline covers publish retries, so it must sit above the worst-case
// backoff schedule.
func NewHandler(svc *Service, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{svc: svc, timeout: timeout}
}

// RegisterRoutes registers one route per event type. Routing is static; the
// pipeline behind each route is identical.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/webhook/delivery", handleEvent[event.Delivery](h, "Delivery")).Methods(http.MethodPost)
	router.HandleFunc("/webhook/open", handleEvent[event.Open](h, "Open")).Methods(http.MethodPost)
	router.HandleFunc("/webhook/bounce", handleEvent[event.Bounce](h, "Bounce")).Methods(http.MethodPost)
}

// handleEvent decodes the typed payload for one event variant and runs it
// through the shared pipeline, mapping the outcome to the fixed responses.
func handleEvent[E event.Inbound](h *Handler, eventType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		var payload E
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respond(w, http.StatusBadRequest, malformedBodyMessage)
			return
		}
		metrics.RecordWebhookReceived(eventType)

		err := h.svc.Process(ctx, eventType, payload, r.Header.Get(signature.Header))
		switch {
		case errors.Is(err, ErrInvalidSignature):
			metrics.RecordWebhookRejected(eventType)
			respond(w, http.StatusBadRequest, invalidSignatureMessage)
		case err != nil:
			respond(w, http.StatusInternalServerError, processingErrorMessage)
		default:
			respond(w, http.StatusOK, successMessage)
		}
	}
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
