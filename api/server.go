/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zapLogger:  Structured request logging via the zap global
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/calendar/*  Work-week calendar lookups
  /api/workdays/*  Work day CRUD
  /api/weeks/*     Weekly breakdown, invoice, ranking levels
  /api/vans/*      Van hires and the deposit schedule
  /api/settings    Rate configuration

SECURITY NOTE:
  Single-driver tool, no authentication middleware. All endpoints are
  public on whatever interface the server binds.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(zapLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Calendar routes
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/week", h.GetCalendarWeek)
			r.Get("/{year}", h.GetCalendarYear)
		})

		// Work day routes
		r.Route("/workdays", func(r chi.Router) {
			r.Get("/", h.ListWorkDays)
			r.Post("/", h.CreateWorkDay)
			r.Put("/{id}", h.UpdateWorkDay)
			r.Delete("/{id}", h.DeleteWorkDay)
		})

		// Week routes
		r.Route("/weeks/{year}/{week}", func(r chi.Router) {
			r.Get("/", h.GetWeekBreakdown)
			r.Get("/invoice.pdf", h.GetWeekInvoice)
			r.Put("/levels", h.SetWeekLevels)
		})

		// Van routes
		r.Route("/vans", func(r chi.Router) {
			r.Get("/", h.ListVans)
			r.Post("/", h.CreateVan)
			r.Get("/deposit", h.GetDepositSchedule)
			r.Put("/deposit/adjustment", h.SetDepositAdjustment)
			r.Put("/{id}", h.UpdateVan)
			r.Delete("/{id}", h.DeleteVan)
		})

		// Settings routes
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
	})

	return r
}

// zapLogger logs one line per request through the zap global.
func zapLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
