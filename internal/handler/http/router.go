package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/belanjaaja/backend/internal/auth"
	"github.com/belanjaaja/backend/internal/metrics"
	"github.com/belanjaaja/backend/internal/user"
)

type RouterDeps struct {
	Tokens  *auth.TokenManager
	Auth    *AuthHandler
	Address *AddressHandler
	Catalog *CatalogHandler
	Cart    *CartHandler
	Order   *OrderHandler
	Seller  *SellerHandler
	Admin   *AdminHandler
}

func NewRouter(deps RouterDeps) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Public surface: storefront reads, auth entry points, the gateway
	// webhook.
	deps.Auth.RegisterRoutes(router)
	deps.Catalog.RegisterRoutes(router)
	deps.Order.RegisterWebhookRoutes(router)

	// Everything below requires a valid session cookie.
	router.Group(func(r chi.Router) {
		r.Use(deps.Tokens.Authenticate)

		deps.Auth.RegisterProtectedRoutes(r)
		deps.Address.RegisterRoutes(r)
		deps.Cart.RegisterRoutes(r)
		deps.Order.RegisterRoutes(r)
		deps.Seller.RegisterRoutes(r)

		r.Group(func(ar chi.Router) {
			ar.Use(auth.RequireRole(user.RoleAdmin, user.RoleSuperadmin))
			deps.Admin.RegisterRoutes(ar)
		})
	})

	return router
}
