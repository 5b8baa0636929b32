package cart

// Item is a cart row joined with its product for display.
type Item struct {
	CartID      int64  `json:"cart_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}
