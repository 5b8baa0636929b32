package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/belanjaaja/backend/internal/auth"
	"github.com/belanjaaja/backend/internal/catalog"
	"github.com/belanjaaja/backend/internal/order"
	"github.com/belanjaaja/backend/internal/seller"
)

type SellerRegisterRequest struct {
	ShopName        string `json:"shop_name" validate:"required,min=2"`
	ShopDescription string `json:"shop_description"`
}

type SellerProductRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	CategoryID  *int64 `json:"category_id" validate:"omitempty,gt=0"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type FulfillmentRequest struct {
	OrderID        int64  `json:"order_id" validate:"required,gt=0"`
	Status         string `json:"status" validate:"required,oneof=packed shipped completed"`
	TrackingNumber string `json:"tracking_number"`
}

type SellerHandler struct {
	sellers  seller.Service
	products catalog.Service
	orders   order.Service
	validate *validator.Validate
}

func NewSellerHandler(sellers seller.Service, products catalog.Service, orders order.Service) *SellerHandler {
	return &SellerHandler{
		sellers:  sellers,
		products: products,
		orders:   orders,
		validate: validator.New(),
	}
}

func (h *SellerHandler) RegisterRoutes(router chi.Router) {
	router.Post("/seller/register", h.handleRegister)
	router.Get("/seller/check", h.handleCheck)
	router.Get("/seller/profile", h.handleGetProfile)
	router.Put("/seller/profile", h.handleUpdateProfile)
	router.Get("/seller/products", h.handleListProducts)
	router.Post("/seller/products", h.handleCreateProduct)
	router.Put("/seller/products/{id}", h.handleUpdateProduct)
	router.Get("/seller/orders", h.handleListOrders)
	router.Post("/seller/orders", h.handleUpdateFulfillment)
}

// requireSeller resolves the caller's seller record. Seller capability
// comes from the sellers table, not from the token role.
func (h *SellerHandler) requireSeller(w http.ResponseWriter, r *http.Request) (*seller.Seller, bool) {
	identity, _ := auth.IdentityFromContext(r.Context())

	s, err := h.sellers.GetByUserID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, seller.ErrNotFound) {
			respondWithError(w, http.StatusForbidden, "Not registered as a seller")
		} else {
			log.Error().Err(err).Msg("Failed to resolve seller")
			respondWithError(w, http.StatusInternalServerError, "Failed to resolve seller")
		}
		return nil, false
	}

	return s, true
}

func (h *SellerHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req SellerRegisterRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	s, err := h.sellers.Register(r.Context(), identity.UserID, req.ShopName, req.ShopDescription)
	if err != nil {
		log.Error().Err(err).Int64("user_id", identity.UserID).Msg("Failed to register seller")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to register as seller")
		return
	}

	respondWithJSON(w, http.StatusCreated, s)
}

func (h *SellerHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	_, err := h.sellers.GetByUserID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, seller.ErrNotFound) {
			respondWithJSON(w, http.StatusOK, map[string]bool{"is_seller": false})
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to check seller status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"is_seller": true})
}

func (h *SellerHandler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSeller(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, s)
}

func (h *SellerHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req SellerRegisterRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	s, err := h.sellers.UpdateProfile(r.Context(), identity.UserID, req.ShopName, req.ShopDescription)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update seller profile")
		return
	}

	respondWithJSON(w, http.StatusOK, s)
}

func (h *SellerHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSeller(w, r)
	if !ok {
		return
	}

	listings, err := h.products.ListBySeller(r.Context(), s.ID)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, listings)
}

func (h *SellerHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSeller(w, r)
	if !ok {
		return
	}

	var req SellerProductRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	status := req.Status
	if status == "" {
		status = catalog.ProductActive
	}

	p := catalog.Product{
		SellerID:    s.ID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      status,
	}

	if err := h.products.CreateProduct(r.Context(), &p); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, p)
}

func (h *SellerHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSeller(w, r)
	if !ok {
		return
	}

	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req SellerProductRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	status := req.Status
	if status == "" {
		status = catalog.ProductActive
	}

	p := catalog.Product{
		ID:          id,
		SellerID:    s.ID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      status,
	}

	if err := h.products.UpdateProduct(r.Context(), &p); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update product")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *SellerHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSeller(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListBySeller(r.Context(), s.ID)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *SellerHandler) handleUpdateFulfillment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSeller(w, r)
	if !ok {
		return
	}

	var req FulfillmentRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	err := h.orders.UpdateFulfillment(r.Context(), req.OrderID, s.ID, order.Status(req.Status), req.TrackingNumber)
	if err != nil {
		log.Error().Err(err).Int64("order_id", req.OrderID).Msg("Fulfillment update failed")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "order updated"})
}
