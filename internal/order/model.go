package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPacked     Status = "packed"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// allowedTransitions is the order lifecycle. completed and cancelled are
// terminal.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusPacked: true,
	},
	StatusPacked: {
		StatusShipped: true,
	},
	StatusShipped: {
		StatusCompleted: true,
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s Status) CanTransitionTo(next Status) bool {
	return allowedTransitions[s][next]
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentFailed    PaymentStatus = "failed"
)

type ShippingStatus string

const (
	ShippingPending   ShippingStatus = "pending"
	ShippingShipped   ShippingStatus = "shipped"
	ShippingCancelled ShippingStatus = "cancelled"
)

// shippingCosts is the flat per-courier rate in rupiah.
var shippingCosts = map[string]int64{
	"jne":     10000,
	"sicepat": 9000,
	"pos":     8000,
}

// ShippingCost resolves the flat rate for a courier. ok is false for
// couriers outside the supported set.
func ShippingCost(courier string) (int64, bool) {
	cost, ok := shippingCosts[courier]
	return cost, ok
}

type Order struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ShippingID int64     `json:"shipping_id"`
	Total      int64     `json:"total"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Item struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	// Price is the unit price captured at checkout; later product price
	// changes never touch historical orders.
	Price int64 `json:"price"`
}

type Payment struct {
	ID            int64         `json:"id"`
	OrderID       int64         `json:"order_id"`
	Method        string        `json:"method"`
	Amount        int64         `json:"amount"`
	Status        PaymentStatus `json:"status"`
	TransactionID *string       `json:"transaction_id,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

type Shipping struct {
	ID             int64          `json:"id"`
	OrderID        int64          `json:"order_id"`
	CourierName    string         `json:"courier_name"`
	Status         ShippingStatus `json:"status"`
	TrackingNumber *string        `json:"tracking_number,omitempty"`
	ShippedAt      *time.Time     `json:"shipped_at,omitempty"`
}

// ShippingAddress is the view of an order's immutable address snapshot.
type ShippingAddress struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
}

// Summary is the buyer-facing view of an order with its snapshot address,
// payment, shipping and items.
type Summary struct {
	OrderID        int64           `json:"order_id"`
	Total          int64           `json:"total"`
	Status         Status          `json:"order_status"`
	CreatedAt      time.Time       `json:"created_at"`
	Address        ShippingAddress `json:"address"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	PaymentStatus  PaymentStatus   `json:"payment_status,omitempty"`
	CourierName    string          `json:"courier_name,omitempty"`
	ShippingStatus ShippingStatus  `json:"shipping_status,omitempty"`
	TrackingNumber *string         `json:"tracking_number,omitempty"`
	Items          []Item          `json:"items"`
}

// SellerOrder is one row of a seller's incoming-orders list.
type SellerOrder struct {
	OrderID        int64     `json:"id"`
	Total          int64     `json:"total"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	BuyerName      string    `json:"buyer_name"`
	CourierName    string    `json:"courier_name"`
	TrackingNumber *string   `json:"tracking_number,omitempty"`
	TotalItems     int       `json:"total_items"`
}

// AdminOrder is one row of the admin order table.
type AdminOrder struct {
	OrderID       int64         `json:"id"`
	Buyer         string        `json:"buyer"`
	ShopName      string        `json:"shop_name"`
	Total         int64         `json:"total"`
	Status        Status        `json:"order_status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewAddress is a full address payload supplied at checkout when the buyer
// has no saved address to reference.
type NewAddress struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
}

// Complete reports whether every field needed to deliver a package is set.
func (a NewAddress) Complete() bool {
	return a.RecipientName != "" && a.Phone != "" && a.Address != "" && a.City != "" && a.PostalCode != ""
}

// CheckoutInput describes one checkout request. Exactly one of AddressID or
// Address must be set.
type CheckoutInput struct {
	ProductID     int64
	Quantity      int
	AddressID     int64
	Address       *NewAddress
	Courier       string
	PaymentMethod string
}

type CheckoutResult struct {
	OrderID      int64 `json:"order_id"`
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shipping_cost"`
	Total        int64 `json:"total"`
}
