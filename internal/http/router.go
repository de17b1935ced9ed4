package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authHandler "github.com/MrJamesThe3rd/vyapari/internal/http/auth"
	"github.com/MrJamesThe3rd/vyapari/internal/http/customer"
	"github.com/MrJamesThe3rd/vyapari/internal/http/dashboard"
	"github.com/MrJamesThe3rd/vyapari/internal/http/expense"
	"github.com/MrJamesThe3rd/vyapari/internal/http/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/http/order"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
	// RequireAuth guards every route except /auth. Nil leaves them open.
	RequireAuth func(http.Handler) http.Handler
}

func New(
	opts Options,
	authV1 *authHandler.Handler,
	dashboardV1 *dashboard.Handler,
	customersV1 *customer.Handler,
	ordersV1 *order.Handler,
	expensesV1 *expense.Handler,
	inventoryV1 *inventory.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			if opts.RequireAuth != nil {
				r.Use(opts.RequireAuth)
			}

			r.Route("/dashboard", dashboardV1.Routes)
			r.Route("/customers", customersV1.Routes)

			r.Route("/orders", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				ordersV1.Routes(r)
			})

			r.Route("/expenses", expensesV1.Routes)
			r.Route("/inventory", inventoryV1.Routes)
		})
	})

	return router
}
