package seller

import "time"

type Seller struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ShopName        string    `json:"shop_name"`
	ShopDescription string    `json:"shop_description"`
	Rating          float64   `json:"rating"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AdminListing is the admin-console view of a seller joined with its owner.
type AdminListing struct {
	ID        int64   `json:"id"`
	ShopName  string  `json:"shop_name"`
	Rating    float64 `json:"rating"`
	Status    string  `json:"status"`
	OwnerName string  `json:"owner_name"`
	Email     string  `json:"email"`
}
