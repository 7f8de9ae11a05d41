package httpapi

import (
	"net/http"
	"time"

	"refund_status_service/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the service's two read endpoints plus health.
func NewRouter(query app.QueryService, aggregation app.AggregationService, logger *logrus.Logger) http.Handler {
	h := &handler{query: query, aggregation: aggregation, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/users/{userID}/refunds", h.getUserRefunds)
		r.Get("/filings/{filingID}/statuses", h.getFilingStatuses)
	})
	return r
}

// requestLogger logs one line per request with latency and status.
func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			}).Info("Request handled.")
		})
	}
}
