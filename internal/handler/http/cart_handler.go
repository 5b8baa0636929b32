package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/belanjaaja/backend/internal/auth"
	"github.com/belanjaaja/backend/internal/cart"
)

type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type CartHandler struct {
	service  cart.Service
	validate *validator.Validate
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{service: service, validate: validator.New()}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart", h.handleList)
	router.Post("/cart", h.handleAdd)
	router.Put("/cart/{id}", h.handleUpdate)
	router.Delete("/cart/{id}", h.handleDelete)
}

func (h *CartHandler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	items, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list cart")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list cart")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req AddToCartRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.service.Add(r.Context(), identity.UserID, req.ProductID, req.Quantity); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to add to cart")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "added to cart"})
}

func (h *CartHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	var req UpdateCartRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), id, identity.UserID, req.Quantity); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update cart item")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

func (h *CartHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	if err := h.service.Delete(r.Context(), id, identity.UserID); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to delete cart item")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "cart item deleted"})
}
