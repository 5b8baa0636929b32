package payment_test

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belanjaaja/backend/internal/payment"
)

func TestParseOrderRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    int64
		wantErr bool
	}{
		{
			name: "standard_ref",
			ref:  "ORDER-42-550e8400-e29b-41d4-a716-446655440000",
			want: 42,
		},
		{
			name: "large_id",
			ref:  "ORDER-9223372036854775807-abc",
			want: 9223372036854775807,
		},
		{
			name:    "missing_prefix",
			ref:     "42-550e8400",
			wantErr: true,
		},
		{
			name:    "non_numeric_id",
			ref:     "ORDER-abc-550e8400",
			wantErr: true,
		},
		{
			name:    "empty",
			ref:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := payment.ParseOrderRef(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, payment.ErrBadOrderRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifySignature(t *testing.T) {
	n := payment.Notification{
		OrderID:     "ORDER-42-550e8400",
		StatusCode:  "200",
		GrossAmount: "210000.00",
	}
	serverKey := "SB-Mid-server-abc123"

	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	n.SignatureKey = hex.EncodeToString(sum[:])

	assert.NoError(t, payment.VerifySignature(n, serverKey))

	forged := n
	forged.SignatureKey = "deadbeef"
	assert.ErrorIs(t, payment.VerifySignature(forged, serverKey), payment.ErrInvalidSignature)

	tampered := n
	tampered.GrossAmount = "1.00"
	assert.ErrorIs(t, payment.VerifySignature(tampered, serverKey), payment.ErrInvalidSignature)
}

func TestNotification_Settled(t *testing.T) {
	tests := []struct {
		name   string
		status string
		fraud  string
		want   bool
	}{
		{"settlement", "settlement", "", true},
		{"capture_accepted", "capture", "accept", true},
		{"capture_no_fraud_field", "capture", "", true},
		{"capture_challenged", "capture", "challenge", false},
		{"pending", "pending", "", false},
		{"deny", "deny", "", false},
		{"expire", "expire", "", false},
		{"cancel", "cancel", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := payment.Notification{TransactionStatus: tt.status, FraudStatus: tt.fraud}
			assert.Equal(t, tt.want, n.Settled())
		})
	}
}
