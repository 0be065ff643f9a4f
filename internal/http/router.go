package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/ahorros/internal/http/dashboard"
	"github.com/MrJamesThe3rd/ahorros/internal/http/export"
	"github.com/MrJamesThe3rd/ahorros/internal/http/goal"
	"github.com/MrJamesThe3rd/ahorros/internal/http/importdata"
	"github.com/MrJamesThe3rd/ahorros/internal/http/settings"
	"github.com/MrJamesThe3rd/ahorros/internal/http/transaction"
)

type Handlers struct {
	Transactions *transaction.Handler
	Goals        *goal.Handler
	Settings     *settings.Handler
	Dashboard    *dashboard.Handler
	Import       *importdata.Handler
	Export       *export.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Goals.Routes(r)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Settings.Routes(r)
		})

		r.Group(h.Dashboard.Routes)
		r.Group(h.Import.Routes)

		r.Route("/export", h.Export.Routes)
	})

	return router
}
