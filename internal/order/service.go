package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/belanjaaja/backend/internal/messaging"
	"github.com/belanjaaja/backend/internal/metrics"
	"github.com/belanjaaja/backend/internal/payment"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidCourier     = errors.New("unknown courier")
	ErrAddressIncomplete  = errors.New("either an address id or a complete new address is required")
	ErrMethodRequired     = errors.New("payment method is required")
	ErrTrackingRequired   = errors.New("tracking number is required to mark an order shipped")
	ErrInvalidStatus      = errors.New("status is not one a seller can set")
	ErrGatewayUnavailable = errors.New("payment gateway is not configured")
)

// Publisher emits order lifecycle events. *messaging.Producer satisfies it;
// a nil Publisher disables publishing.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event messaging.OrderEvent) error
}

type Service interface {
	Checkout(ctx context.Context, userID int64, in CheckoutInput) (*CheckoutResult, error)
	ListOrders(ctx context.Context, userID int64) ([]Summary, error)
	GetOrder(ctx context.Context, orderID, userID int64) (*Summary, error)
	Cancel(ctx context.Context, orderID, userID int64) error
	// Pay creates a gateway transaction for an unpaid order and returns the
	// token the client uses to open the payment page.
	Pay(ctx context.Context, orderID, userID int64, method string, customer payment.Customer) (*payment.Transaction, error)
	// HandleNotification reconciles a gateway webhook with local payment
	// and order state. Replays and non-settlement statuses are no-ops.
	HandleNotification(ctx context.Context, n payment.Notification) error
	ListBySeller(ctx context.Context, sellerID int64) ([]SellerOrder, error)
	UpdateFulfillment(ctx context.Context, orderID, sellerID int64, next Status, trackingNumber string) error
	AdminList(ctx context.Context, statusFilter, paymentFilter string) ([]AdminOrder, error)
}

type service struct {
	repo      Repository
	gateway   payment.Gateway
	publisher Publisher
	serverKey string
	logger    zerolog.Logger
}

func NewService(repo Repository, gateway payment.Gateway, publisher Publisher, serverKey string, logger zerolog.Logger) Service {
	return &service{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		serverKey: serverKey,
		logger:    logger,
	}
}

func (s *service) Checkout(ctx context.Context, userID int64, in CheckoutInput) (*CheckoutResult, error) {
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if in.PaymentMethod == "" {
		return nil, ErrMethodRequired
	}

	shippingCost, ok := ShippingCost(in.Courier)
	if !ok {
		return nil, ErrInvalidCourier
	}

	if in.AddressID == 0 {
		if in.Address == nil || !in.Address.Complete() {
			return nil, ErrAddressIncomplete
		}
	}

	result, err := s.repo.Checkout(ctx, userID, in, shippingCost)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock):
			metrics.CheckoutsFailed.WithLabelValues("insufficient_stock").Inc()
		case errors.Is(err, ErrProductNotFound):
			metrics.CheckoutsFailed.WithLabelValues("product_not_found").Inc()
		case errors.Is(err, ErrAddressNotFound):
			metrics.CheckoutsFailed.WithLabelValues("address_not_found").Inc()
		default:
			metrics.CheckoutsFailed.WithLabelValues("internal").Inc()
		}
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	s.publish(ctx, messaging.OrderEvent{
		Event:      messaging.EventOrderCreated,
		OrderID:    result.OrderID,
		UserID:     userID,
		Total:      result.Total,
		Status:     StatusPending.String(),
		OccurredAt: time.Now().UTC(),
	})

	return result, nil
}

func (s *service) ListOrders(ctx context.Context, userID int64) ([]Summary, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetOrder(ctx context.Context, orderID, userID int64) (*Summary, error) {
	return s.repo.GetByUser(ctx, orderID, userID)
}

func (s *service) Cancel(ctx context.Context, orderID, userID int64) error {
	if err := s.repo.Cancel(ctx, orderID, userID); err != nil {
		return err
	}

	metrics.OrdersCancelled.Inc()
	s.publish(ctx, messaging.OrderEvent{
		Event:      messaging.EventOrderCancelled,
		OrderID:    orderID,
		UserID:     userID,
		Status:     StatusCancelled.String(),
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

func (s *service) Pay(ctx context.Context, orderID, userID int64, method string, customer payment.Customer) (*payment.Transaction, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	if method == "" {
		method = "snap"
	}

	total, err := s.repo.EnsurePayment(ctx, orderID, userID, method)
	if err != nil {
		return nil, err
	}

	nonce, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate order reference: %w", err)
	}
	ref := fmt.Sprintf("ORDER-%d-%s", orderID, nonce)

	return s.gateway.CreateTransaction(ctx, ref, total, customer)
}

func (s *service) HandleNotification(ctx context.Context, n payment.Notification) error {
	if s.serverKey != "" {
		if err := payment.VerifySignature(n, s.serverKey); err != nil {
			return err
		}
	}

	orderID, err := payment.ParseOrderRef(n.OrderID)
	if err != nil {
		return err
	}

	if !n.Settled() {
		s.logger.Info().
			Int64("order_id", orderID).
			Str("transaction_status", n.TransactionStatus).
			Msg("ignoring non-settlement notification")
		return nil
	}

	applied, err := s.repo.SettlePayment(ctx, orderID, n.TransactionID)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info().Int64("order_id", orderID).Msg("settlement already applied, skipping")
		return nil
	}

	metrics.PaymentsSettled.Inc()
	s.publish(ctx, messaging.OrderEvent{
		Event:      messaging.EventOrderSettled,
		OrderID:    orderID,
		Status:     StatusProcessing.String(),
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID int64) ([]SellerOrder, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *service) UpdateFulfillment(ctx context.Context, orderID, sellerID int64, next Status, trackingNumber string) error {
	switch next {
	case StatusPacked, StatusShipped, StatusCompleted:
	default:
		return ErrInvalidStatus
	}

	if next == StatusShipped && trackingNumber == "" {
		return ErrTrackingRequired
	}

	return s.repo.UpdateFulfillment(ctx, orderID, sellerID, next, trackingNumber)
}

func (s *service) AdminList(ctx context.Context, statusFilter, paymentFilter string) ([]AdminOrder, error) {
	return s.repo.AdminList(ctx, statusFilter, paymentFilter)
}

// publish delivers an event on a best-effort basis. Order state is already
// committed, so a broker outage is logged and swallowed.
func (s *service) publish(ctx context.Context, event messaging.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error().Err(err).
			Str("event", event.Event).
			Int64("order_id", event.OrderID).
			Msg("failed to publish order event")
	}
}
