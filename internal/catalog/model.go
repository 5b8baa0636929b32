package catalog

import "time"

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

type Product struct {
	ID          int64     `json:"id"`
	SellerID    int64     `json:"seller_id"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Listing is a storefront row: the product joined with its shop.
type Listing struct {
	Product
	ShopName     string `json:"shop_name"`
	CategoryName string `json:"category_name,omitempty"`
}

type Category struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ParentID   *int64 `json:"parent_id,omitempty"`
	ParentName string `json:"parent_name,omitempty"`
}

// PathEntry is one hop of a category breadcrumb, root first.
type PathEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
