// Package httpapi assembles the public HTTP surface: feature handlers
// mounted under /api plus the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"redink/internal/http/shared"
	"redink/internal/platform/middleware"
)

// Registrar is anything that can attach its routes to a router. All
// feature handlers implement it.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter composes the full application router. Handlers are mounted in
// the order given; they must not register overlapping routes.
func NewRouter(logger *slog.Logger, allowedOrigin string, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigin))
	r.Use(middleware.Identity)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handleHealth)
		for _, h := range handlers {
			h.Register(api)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
