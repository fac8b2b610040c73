// Package rest exposes a small HTTP surface for container orchestration:
// the chat transport carries all operator interaction.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type LedgerPinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	ledger LedgerPinger
	log    *logrus.Logger
}

func NewHandler(ledger LedgerPinger, log *logrus.Logger) *Handler {
	return &Handler{ledger: ledger, log: log}
}

func (h *Handler) InitRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Timeout(15*time.Second),
	)

	r.Get("/health", h.health)
	r.Get("/health/ledger", h.healthLedger)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	Success(w, "ok", nil)
}

// healthLedger additionally probes the spreadsheet connection; it is the
// deeper check and costs a remote call.
func (h *Handler) healthLedger(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.ledger.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("ledger health check failed")
		ErrorUnavailable(w, "ledger unreachable")
		return
	}
	Success(w, "ok", map[string]string{"ledger": "up"})
}
