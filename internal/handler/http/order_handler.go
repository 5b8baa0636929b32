package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/belanjaaja/backend/internal/auth"
	"github.com/belanjaaja/backend/internal/order"
	"github.com/belanjaaja/backend/internal/payment"
	"github.com/belanjaaja/backend/internal/user"
)

type CheckoutRequest struct {
	ProductID     int64           `json:"product_id" validate:"required,gt=0"`
	Quantity      int             `json:"quantity" validate:"required,gte=1"`
	AddressID     int64           `json:"address_id" validate:"omitempty,gt=0"`
	Address       *AddressRequest `json:"address"`
	Courier       string          `json:"courier" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

type PayRequest struct {
	Method string `json:"method"`
}

type OrderHandler struct {
	service  order.Service
	users    user.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service, users user.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		users:    users,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/checkout", h.handleCheckout)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Post("/orders/{id}/cancel", h.handleCancel)
	router.Post("/orders/{id}/pay", h.handlePay)
}

// RegisterWebhookRoutes mounts the gateway callback outside the
// authenticated tree. Midtrans does not carry a session cookie.
func (h *OrderHandler) RegisterWebhookRoutes(router chi.Router) {
	router.Post("/payment/webhook", h.handleWebhook)
}

func (h *OrderHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req CheckoutRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	in := order.CheckoutInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		AddressID:     req.AddressID,
		Courier:       req.Courier,
		PaymentMethod: req.PaymentMethod,
	}
	if req.Address != nil {
		in.Address = &order.NewAddress{
			RecipientName: req.Address.RecipientName,
			Phone:         req.Address.Phone,
			Address:       req.Address.Address,
			City:          req.Address.City,
			PostalCode:    req.Address.PostalCode,
		}
	}

	result, err := h.service.Checkout(r.Context(), identity.UserID, in)
	if err != nil {
		log.Error().Err(err).Int64("user_id", identity.UserID).Msg("Checkout failed")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	orders, err := h.service.ListOrders(r.Context(), identity.UserID)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	summary, err := h.service.GetOrder(r.Context(), id, identity.UserID)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Order not found")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (h *OrderHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	if err := h.service.Cancel(r.Context(), id, identity.UserID); err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("Cancel failed")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "order cancelled"})
}

func (h *OrderHandler) handlePay(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var req PayRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	customer := payment.Customer{Email: identity.Email}
	if u, err := h.users.GetByID(r.Context(), identity.UserID); err == nil {
		customer.Name = u.Name
	}

	tx, err := h.service.Pay(r.Context(), id, identity.UserID, req.Method, customer)
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("Failed to create payment transaction")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create payment transaction")
		return
	}

	respondWithJSON(w, http.StatusOK, tx)
}

func (h *OrderHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var n payment.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification payload")
		return
	}

	if err := h.service.HandleNotification(r.Context(), n); err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			respondWithError(w, http.StatusForbidden, "Invalid signature")
		case errors.Is(err, payment.ErrBadOrderRef), errors.Is(err, order.ErrOrderNotFound):
			// Acknowledge notifications we can never apply so the
			// gateway stops retrying them.
			log.Warn().Err(err).Str("order_ref", n.OrderID).Msg("Webhook notification ignored")
			respondWithJSON(w, http.StatusOK, map[string]string{"message": "ok"})
		default:
			log.Error().Err(err).Str("order_ref", n.OrderID).Msg("Webhook processing failed")
			respondWithError(w, http.StatusInternalServerError, "Failed to process notification")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}
