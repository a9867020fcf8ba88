package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/http/account"
	"github.com/MrJamesThe3rd/outlay/internal/http/category"
	"github.com/MrJamesThe3rd/outlay/internal/http/currency"
	"github.com/MrJamesThe3rd/outlay/internal/http/expense"
	"github.com/MrJamesThe3rd/outlay/internal/http/importcsv"
	"github.com/MrJamesThe3rd/outlay/internal/http/receipt"
	"github.com/MrJamesThe3rd/outlay/internal/http/report"
	"github.com/MrJamesThe3rd/outlay/internal/http/rule"
	"github.com/MrJamesThe3rd/outlay/internal/http/user"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

type Handlers struct {
	Account    *account.Handler
	Users      *user.Handler
	Rules      *rule.Handler
	Expenses   *expense.Handler
	Receipts   *receipt.Handler
	Currencies *currency.Handler
	Categories *category.Handler
	Import     *importcsv.Handler
	Reports    *report.Handler
}

func New(h Handlers, issuer *auth.Issuer, users auth.UserFinder, frontendURL string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Account.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer, users))

			r.Route("/users", h.Users.Routes)
			r.Route("/rules", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Rules.Routes(r)
			})
			r.Route("/expenses", h.Expenses.Routes)
			r.Route("/receipts", h.Receipts.Routes)
			r.Route("/currencies", h.Currencies.Routes)
			r.Route("/categories", h.Categories.Routes)
			r.Route("/import", h.Import.Routes)

			r.Route("/reports", func(r chi.Router) {
				r.Use(auth.RequireRole(identity.RoleAdmin))
				r.Use(middleware.AllowContentType("application/json"))
				h.Reports.Routes(r)
			})
		})
	})

	return router
}
