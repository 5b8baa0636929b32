package order_test

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belanjaaja/backend/internal/messaging"
	"github.com/belanjaaja/backend/internal/order"
	"github.com/belanjaaja/backend/internal/payment"
)

type mockOrderRepository struct {
	checkoutFunc          func(ctx context.Context, userID int64, in order.CheckoutInput, shippingCost int64) (*order.CheckoutResult, error)
	cancelFunc            func(ctx context.Context, orderID, userID int64) error
	ensurePaymentFunc     func(ctx context.Context, orderID, userID int64, method string) (int64, error)
	settlePaymentFunc     func(ctx context.Context, orderID int64, transactionID string) (bool, error)
	updateFulfillmentFunc func(ctx context.Context, orderID, sellerID int64, next order.Status, trackingNumber string) error
	listByUserFunc        func(ctx context.Context, userID int64) ([]order.Summary, error)
	getByUserFunc         func(ctx context.Context, orderID, userID int64) (*order.Summary, error)
	listBySellerFunc      func(ctx context.Context, sellerID int64) ([]order.SellerOrder, error)
	adminListFunc         func(ctx context.Context, statusFilter, paymentFilter string) ([]order.AdminOrder, error)
}

func (m *mockOrderRepository) Checkout(ctx context.Context, userID int64, in order.CheckoutInput, shippingCost int64) (*order.CheckoutResult, error) {
	return m.checkoutFunc(ctx, userID, in, shippingCost)
}

func (m *mockOrderRepository) Cancel(ctx context.Context, orderID, userID int64) error {
	return m.cancelFunc(ctx, orderID, userID)
}

func (m *mockOrderRepository) EnsurePayment(ctx context.Context, orderID, userID int64, method string) (int64, error) {
	return m.ensurePaymentFunc(ctx, orderID, userID, method)
}

func (m *mockOrderRepository) SettlePayment(ctx context.Context, orderID int64, transactionID string) (bool, error) {
	return m.settlePaymentFunc(ctx, orderID, transactionID)
}

func (m *mockOrderRepository) UpdateFulfillment(ctx context.Context, orderID, sellerID int64, next order.Status, trackingNumber string) error {
	return m.updateFulfillmentFunc(ctx, orderID, sellerID, next, trackingNumber)
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Summary, error) {
	return m.listByUserFunc(ctx, userID)
}

func (m *mockOrderRepository) GetByUser(ctx context.Context, orderID, userID int64) (*order.Summary, error) {
	return m.getByUserFunc(ctx, orderID, userID)
}

func (m *mockOrderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]order.SellerOrder, error) {
	return m.listBySellerFunc(ctx, sellerID)
}

func (m *mockOrderRepository) AdminList(ctx context.Context, statusFilter, paymentFilter string) ([]order.AdminOrder, error) {
	return m.adminListFunc(ctx, statusFilter, paymentFilter)
}

type mockPublisher struct {
	events []messaging.OrderEvent
}

func (m *mockPublisher) PublishOrderEvent(_ context.Context, event messaging.OrderEvent) error {
	m.events = append(m.events, event)
	return nil
}

type mockGateway struct {
	createFunc func(ctx context.Context, orderRef string, amount int64, customer payment.Customer) (*payment.Transaction, error)
}

func (m *mockGateway) CreateTransaction(ctx context.Context, orderRef string, amount int64, customer payment.Customer) (*payment.Transaction, error) {
	return m.createFunc(ctx, orderRef, amount, customer)
}

func validCheckoutInput() order.CheckoutInput {
	return order.CheckoutInput{
		ProductID:     1,
		Quantity:      2,
		AddressID:     5,
		Courier:       "jne",
		PaymentMethod: "snap",
	}
}

func TestOrderService_Checkout_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*order.CheckoutInput)
		wantErrIs error
	}{
		{
			name:      "zero_quantity",
			mutate:    func(in *order.CheckoutInput) { in.Quantity = 0 },
			wantErrIs: order.ErrInvalidQuantity,
		},
		{
			name:      "negative_quantity",
			mutate:    func(in *order.CheckoutInput) { in.Quantity = -3 },
			wantErrIs: order.ErrInvalidQuantity,
		},
		{
			name:      "unknown_courier",
			mutate:    func(in *order.CheckoutInput) { in.Courier = "gosend" },
			wantErrIs: order.ErrInvalidCourier,
		},
		{
			name: "no_address_at_all",
			mutate: func(in *order.CheckoutInput) {
				in.AddressID = 0
				in.Address = nil
			},
			wantErrIs: order.ErrAddressIncomplete,
		},
		{
			name: "partial_new_address",
			mutate: func(in *order.CheckoutInput) {
				in.AddressID = 0
				in.Address = &order.NewAddress{RecipientName: "Budi", City: "Jakarta"}
			},
			wantErrIs: order.ErrAddressIncomplete,
		},
		{
			name:      "missing_payment_method",
			mutate:    func(in *order.CheckoutInput) { in.PaymentMethod = "" },
			wantErrIs: order.ErrMethodRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoCalled := false
			repo := &mockOrderRepository{
				checkoutFunc: func(_ context.Context, _ int64, _ order.CheckoutInput, _ int64) (*order.CheckoutResult, error) {
					repoCalled = true
					return nil, nil
				},
			}
			svc := order.NewService(repo, nil, nil, "", zerolog.Nop())

			in := validCheckoutInput()
			tt.mutate(&in)

			_, err := svc.Checkout(context.Background(), 7, in)
			assert.ErrorIs(t, err, tt.wantErrIs)
			assert.False(t, repoCalled, "repository must not be reached on invalid input")
		})
	}
}

func TestOrderService_Checkout_Success(t *testing.T) {
	// 2 x 100000 + jne flat 10000.
	repo := &mockOrderRepository{
		checkoutFunc: func(_ context.Context, userID int64, in order.CheckoutInput, shippingCost int64) (*order.CheckoutResult, error) {
			assert.Equal(t, int64(7), userID)
			assert.Equal(t, int64(10000), shippingCost)
			return &order.CheckoutResult{
				OrderID:      42,
				Subtotal:     200000,
				ShippingCost: shippingCost,
				Total:        200000 + shippingCost,
			}, nil
		},
	}
	publisher := &mockPublisher{}
	svc := order.NewService(repo, nil, publisher, "", zerolog.Nop())

	result, err := svc.Checkout(context.Background(), 7, validCheckoutInput())
	require.NoError(t, err)
	assert.Equal(t, int64(210000), result.Total)
	assert.Equal(t, int64(42), result.OrderID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, messaging.EventOrderCreated, publisher.events[0].Event)
	assert.Equal(t, int64(42), publisher.events[0].OrderID)
	assert.Equal(t, int64(210000), publisher.events[0].Total)
}

func TestOrderService_Checkout_InsufficientStock(t *testing.T) {
	repo := &mockOrderRepository{
		checkoutFunc: func(_ context.Context, _ int64, _ order.CheckoutInput, _ int64) (*order.CheckoutResult, error) {
			return nil, order.ErrInsufficientStock
		},
	}
	publisher := &mockPublisher{}
	svc := order.NewService(repo, nil, publisher, "", zerolog.Nop())

	_, err := svc.Checkout(context.Background(), 7, validCheckoutInput())
	assert.ErrorIs(t, err, order.ErrInsufficientStock)
	assert.Empty(t, publisher.events, "no event for a failed checkout")
}

func TestOrderService_Cancel(t *testing.T) {
	t.Run("success_publishes_event", func(t *testing.T) {
		repo := &mockOrderRepository{
			cancelFunc: func(_ context.Context, orderID, userID int64) error {
				assert.Equal(t, int64(42), orderID)
				assert.Equal(t, int64(7), userID)
				return nil
			},
		}
		publisher := &mockPublisher{}
		svc := order.NewService(repo, nil, publisher, "", zerolog.Nop())

		require.NoError(t, svc.Cancel(context.Background(), 42, 7))
		require.Len(t, publisher.events, 1)
		assert.Equal(t, messaging.EventOrderCancelled, publisher.events[0].Event)
	})

	t.Run("not_cancellable", func(t *testing.T) {
		repo := &mockOrderRepository{
			cancelFunc: func(_ context.Context, _, _ int64) error {
				return order.ErrNotCancellable
			},
		}
		publisher := &mockPublisher{}
		svc := order.NewService(repo, nil, publisher, "", zerolog.Nop())

		err := svc.Cancel(context.Background(), 42, 7)
		assert.ErrorIs(t, err, order.ErrNotCancellable)
		assert.Empty(t, publisher.events)
	})
}

func TestOrderService_Pay(t *testing.T) {
	t.Run("no_gateway_configured", func(t *testing.T) {
		svc := order.NewService(&mockOrderRepository{}, nil, nil, "", zerolog.Nop())

		_, err := svc.Pay(context.Background(), 42, 7, "snap", payment.Customer{})
		assert.ErrorIs(t, err, order.ErrGatewayUnavailable)
	})

	t.Run("creates_transaction_with_order_ref", func(t *testing.T) {
		repo := &mockOrderRepository{
			ensurePaymentFunc: func(_ context.Context, orderID, userID int64, method string) (int64, error) {
				assert.Equal(t, int64(42), orderID)
				assert.Equal(t, int64(7), userID)
				assert.Equal(t, "snap", method)
				return 210000, nil
			},
		}
		gateway := &mockGateway{
			createFunc: func(_ context.Context, orderRef string, amount int64, customer payment.Customer) (*payment.Transaction, error) {
				assert.True(t, strings.HasPrefix(orderRef, "ORDER-42-"), "got ref %q", orderRef)
				assert.Equal(t, int64(210000), amount)
				assert.Equal(t, "budi@example.com", customer.Email)
				return &payment.Transaction{Token: "tok", RedirectURL: "https://pay.example/tok"}, nil
			},
		}
		svc := order.NewService(repo, gateway, nil, "", zerolog.Nop())

		tx, err := svc.Pay(context.Background(), 42, 7, "", payment.Customer{Email: "budi@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "tok", tx.Token)
	})

	t.Run("unknown_order", func(t *testing.T) {
		repo := &mockOrderRepository{
			ensurePaymentFunc: func(_ context.Context, _, _ int64, _ string) (int64, error) {
				return 0, order.ErrOrderNotFound
			},
		}
		svc := order.NewService(repo, &mockGateway{}, nil, "", zerolog.Nop())

		_, err := svc.Pay(context.Background(), 42, 7, "snap", payment.Customer{})
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func signNotification(n payment.Notification, serverKey string) string {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestOrderService_HandleNotification(t *testing.T) {
	settlement := payment.Notification{
		TransactionStatus: "settlement",
		OrderID:           "ORDER-42-550e8400-e29b-41d4-a716-446655440000",
		TransactionID:     "midtrans-tx-1",
		StatusCode:        "200",
		GrossAmount:       "210000.00",
	}

	t.Run("settlement_applies_and_publishes", func(t *testing.T) {
		repo := &mockOrderRepository{
			settlePaymentFunc: func(_ context.Context, orderID int64, transactionID string) (bool, error) {
				assert.Equal(t, int64(42), orderID)
				assert.Equal(t, "midtrans-tx-1", transactionID)
				return true, nil
			},
		}
		publisher := &mockPublisher{}
		svc := order.NewService(repo, nil, publisher, "", zerolog.Nop())

		require.NoError(t, svc.HandleNotification(context.Background(), settlement))
		require.Len(t, publisher.events, 1)
		assert.Equal(t, messaging.EventOrderSettled, publisher.events[0].Event)
		assert.Equal(t, int64(42), publisher.events[0].OrderID)
	})

	t.Run("replay_is_a_noop", func(t *testing.T) {
		calls := 0
		repo := &mockOrderRepository{
			settlePaymentFunc: func(_ context.Context, _ int64, _ string) (bool, error) {
				calls++
				// First delivery flips the state, the replay matches no
				// pending row.
				return calls == 1, nil
			},
		}
		publisher := &mockPublisher{}
		svc := order.NewService(repo, nil, publisher, "", zerolog.Nop())

		require.NoError(t, svc.HandleNotification(context.Background(), settlement))
		require.NoError(t, svc.HandleNotification(context.Background(), settlement))
		assert.Equal(t, 2, calls)
		assert.Len(t, publisher.events, 1, "only the first delivery publishes")
	})

	t.Run("non_settlement_status_ignored", func(t *testing.T) {
		repoCalled := false
		repo := &mockOrderRepository{
			settlePaymentFunc: func(_ context.Context, _ int64, _ string) (bool, error) {
				repoCalled = true
				return false, nil
			},
		}
		svc := order.NewService(repo, nil, nil, "", zerolog.Nop())

		n := settlement
		n.TransactionStatus = "pending"
		require.NoError(t, svc.HandleNotification(context.Background(), n))
		assert.False(t, repoCalled)
	})

	t.Run("bad_order_ref", func(t *testing.T) {
		svc := order.NewService(&mockOrderRepository{}, nil, nil, "", zerolog.Nop())

		n := settlement
		n.OrderID = "not-an-order-ref"
		err := svc.HandleNotification(context.Background(), n)
		assert.ErrorIs(t, err, payment.ErrBadOrderRef)
	})

	t.Run("signature_enforced_when_key_configured", func(t *testing.T) {
		svc := order.NewService(&mockOrderRepository{}, nil, nil, "server-key", zerolog.Nop())

		n := settlement
		n.SignatureKey = "forged"
		err := svc.HandleNotification(context.Background(), n)
		assert.ErrorIs(t, err, payment.ErrInvalidSignature)
	})

	t.Run("valid_signature_accepted", func(t *testing.T) {
		repo := &mockOrderRepository{
			settlePaymentFunc: func(_ context.Context, _ int64, _ string) (bool, error) {
				return true, nil
			},
		}
		svc := order.NewService(repo, nil, nil, "server-key", zerolog.Nop())

		n := settlement
		n.SignatureKey = signNotification(n, "server-key")
		require.NoError(t, svc.HandleNotification(context.Background(), n))
	})
}

func TestOrderService_UpdateFulfillment(t *testing.T) {
	t.Run("shipped_requires_tracking", func(t *testing.T) {
		repoCalled := false
		repo := &mockOrderRepository{
			updateFulfillmentFunc: func(_ context.Context, _, _ int64, _ order.Status, _ string) error {
				repoCalled = true
				return nil
			},
		}
		svc := order.NewService(repo, nil, nil, "", zerolog.Nop())

		err := svc.UpdateFulfillment(context.Background(), 42, 3, order.StatusShipped, "")
		assert.ErrorIs(t, err, order.ErrTrackingRequired)
		assert.False(t, repoCalled, "state must not change without a tracking number")
	})

	t.Run("seller_cannot_set_arbitrary_status", func(t *testing.T) {
		svc := order.NewService(&mockOrderRepository{}, nil, nil, "", zerolog.Nop())

		for _, next := range []order.Status{order.StatusPending, order.StatusProcessing, order.StatusCancelled, "bogus"} {
			err := svc.UpdateFulfillment(context.Background(), 42, 3, next, "")
			assert.ErrorIs(t, err, order.ErrInvalidStatus, "status %s", next)
		}
	})

	t.Run("packed_delegates_to_repository", func(t *testing.T) {
		repo := &mockOrderRepository{
			updateFulfillmentFunc: func(_ context.Context, orderID, sellerID int64, next order.Status, trackingNumber string) error {
				assert.Equal(t, int64(42), orderID)
				assert.Equal(t, int64(3), sellerID)
				assert.Equal(t, order.StatusPacked, next)
				assert.Empty(t, trackingNumber)
				return nil
			},
		}
		svc := order.NewService(repo, nil, nil, "", zerolog.Nop())

		require.NoError(t, svc.UpdateFulfillment(context.Background(), 42, 3, order.StatusPacked, ""))
	})

	t.Run("invalid_transition_surfaces", func(t *testing.T) {
		repo := &mockOrderRepository{
			updateFulfillmentFunc: func(_ context.Context, _, _ int64, _ order.Status, _ string) error {
				return fmt.Errorf("%w: cannot move order from completed to shipped", order.ErrInvalidTransition)
			},
		}
		svc := order.NewService(repo, nil, nil, "", zerolog.Nop())

		err := svc.UpdateFulfillment(context.Background(), 42, 3, order.StatusShipped, "JNE-123")
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}
