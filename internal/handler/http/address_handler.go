package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/belanjaaja/backend/internal/auth"
	"github.com/belanjaaja/backend/internal/user"
)

type AddressRequest struct {
	RecipientName string `json:"recipient_name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
}

type AddressHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewAddressHandler(service user.Service) *AddressHandler {
	return &AddressHandler{service: service, validate: validator.New()}
}

func (h *AddressHandler) RegisterRoutes(router chi.Router) {
	router.Get("/addresses", h.handleList)
	router.Post("/addresses", h.handleCreate)
	router.Put("/addresses/{id}", h.handleUpdate)
	router.Delete("/addresses/{id}", h.handleDelete)
}

func (h *AddressHandler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	addresses, err := h.service.ListAddresses(r.Context(), identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list addresses")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list addresses")
		return
	}

	respondWithJSON(w, http.StatusOK, addresses)
}

func (h *AddressHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req AddressRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	a := user.Address{
		UserID:        identity.UserID,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
	}

	if err := h.service.CreateAddress(r.Context(), &a); err != nil {
		log.Error().Err(err).Msg("Failed to create address")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create address")
		return
	}

	respondWithJSON(w, http.StatusCreated, a)
}

func (h *AddressHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid address id")
		return
	}

	var req AddressRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	a := user.Address{
		ID:            id,
		UserID:        identity.UserID,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
	}

	if err := h.service.UpdateAddress(r.Context(), &a); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update address")
		return
	}

	respondWithJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid address id")
		return
	}

	if err := h.service.DeleteAddress(r.Context(), id, identity.UserID); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to delete address")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "address deleted"})
}
