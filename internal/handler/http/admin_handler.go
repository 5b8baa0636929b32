package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/belanjaaja/backend/internal/admin"
	"github.com/belanjaaja/backend/internal/catalog"
	"github.com/belanjaaja/backend/internal/order"
	"github.com/belanjaaja/backend/internal/seller"
	"github.com/belanjaaja/backend/internal/user"
)

type SetUserStatusRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}

type SetSellerStatusRequest struct {
	SellerID int64  `json:"seller_id" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=active inactive suspended"`
}

type SetProductStatusRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Status    string `json:"status" validate:"required,oneof=active inactive"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

// AdminHandler serves the admin console. Every route here sits behind
// RequireRole(admin, superadmin).
type AdminHandler struct {
	dashboard admin.Service
	users     user.Service
	sellers   seller.Service
	products  catalog.Service
	orders    order.Service
	validate  *validator.Validate
}

func NewAdminHandler(dashboard admin.Service, users user.Service, sellers seller.Service, products catalog.Service, orders order.Service) *AdminHandler {
	return &AdminHandler{
		dashboard: dashboard,
		users:     users,
		sellers:   sellers,
		products:  products,
		orders:    orders,
		validate:  validator.New(),
	}
}

func (h *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Get("/admin/dashboard", h.handleDashboard)
	router.Get("/admin/users", h.handleListUsers)
	router.Post("/admin/users", h.handleSetUserStatus)
	router.Get("/admin/sellers", h.handleListSellers)
	router.Post("/admin/sellers", h.handleSetSellerStatus)
	router.Get("/admin/products", h.handleListProducts)
	router.Post("/admin/products", h.handleSetProductStatus)
	router.Get("/admin/orders", h.handleListOrders)
	router.Get("/admin/categories", h.handleListCategories)
	router.Post("/admin/categories", h.handleCreateCategory)
}

func (h *AdminHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.DashboardStats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load dashboard stats")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to load dashboard")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list users")
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) handleSetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req SetUserStatusRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.users.SetStatus(r.Context(), req.UserID, req.Status); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update user status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "user status updated"})
}

func (h *AdminHandler) handleListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellers.List(r.Context())
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list sellers")
		return
	}

	respondWithJSON(w, http.StatusOK, sellers)
}

func (h *AdminHandler) handleSetSellerStatus(w http.ResponseWriter, r *http.Request) {
	var req SetSellerStatusRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.sellers.SetStatus(r.Context(), req.SellerID, req.Status); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update seller status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "seller status updated"})
}

func (h *AdminHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	listings, err := h.products.AdminListProducts(r.Context())
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, listings)
}

func (h *AdminHandler) handleSetProductStatus(w http.ResponseWriter, r *http.Request) {
	var req SetProductStatusRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.products.SetProductStatus(r.Context(), req.ProductID, req.Status); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update product status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "product status updated"})
}

func (h *AdminHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	paymentFilter := r.URL.Query().Get("payment_status")

	orders, err := h.orders.AdminList(r.Context(), statusFilter, paymentFilter)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.ListCategories(r.Context())
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list categories")
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

func (h *AdminHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	category, err := h.products.CreateCategory(r.Context(), req.Name, req.ParentID)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create category")
		return
	}

	respondWithJSON(w, http.StatusCreated, category)
}
