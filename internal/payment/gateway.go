package payment

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// Transaction is the gateway-side handle the buyer uses to complete payment.
type Transaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type Customer struct {
	Name  string
	Email string
}

// Gateway creates payment transactions with the external provider.
type Gateway interface {
	CreateTransaction(ctx context.Context, orderRef string, amount int64, customer Customer) (*Transaction, error)
}

type snapGateway struct {
	client snap.Client
}

// NewSnapGateway returns a Gateway backed by the Midtrans Snap API in
// sandbox mode.
func NewSnapGateway(serverKey string) Gateway {
	var client snap.Client
	client.New(serverKey, midtrans.Sandbox)
	return &snapGateway{client: client}
}

func (g *snapGateway) CreateTransaction(_ context.Context, orderRef string, amount int64, customer Customer) (*Transaction, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderRef,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Name,
			Email: customer.Email,
		},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("payment: failed to create snap transaction for %s: %w", orderRef, err)
	}

	return &Transaction{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}
