package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
)

var (
	ErrBadOrderRef      = errors.New("payment: notification order_id is not in the expected format")
	ErrInvalidSignature = errors.New("payment: notification signature mismatch")
)

// Notification is the webhook payload Midtrans posts on every transaction
// status change. Amounts arrive as decimal strings.
type Notification struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
}

// Settled reports whether the notification means the money actually moved.
func (n Notification) Settled() bool {
	switch n.TransactionStatus {
	case "settlement":
		return true
	case "capture":
		return n.FraudStatus == "" || n.FraudStatus == "accept"
	default:
		return false
	}
}

var orderRefPattern = regexp.MustCompile(`^ORDER-(\d+)-`)

// ParseOrderRef extracts the internal order id from a gateway reference of
// the form ORDER-<id>-<uuid>.
func ParseOrderRef(ref string) (int64, error) {
	m := orderRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return 0, ErrBadOrderRef
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, ErrBadOrderRef
	}

	return id, nil
}

// VerifySignature checks the sha512(order_id + status_code + gross_amount +
// server_key) digest Midtrans sends with every notification.
func VerifySignature(n Notification, serverKey string) error {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])

	if subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}
