package domain

import "time"

// Product is a catalog entry. A product is either purchase-priced or
// rental-priced: pricing logic reads Price for purchase lines and
// DailyRate (with Price as the deposit reference value) for rentals,
// never both on the same line.
type Product struct {
	ID             int64     `json:"id"`
	SellerID       string    `json:"seller_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Price          float64   `json:"price"`
	DailyRate      float64   `json:"daily_rate"`
	Rentable       bool      `json:"rentable"`
	IsCustomizable bool      `json:"is_customizable"`
	Sizes          []string  `json:"sizes"`
	Images         []string  `json:"images"`
	Stock          int32     `json:"stock"`
	Bestseller     bool      `json:"bestseller"`
	CreatedAt      time.Time `json:"created_at"`
}

// Customization is a buyer-authored customization attached to a cart
// line of a customizable product.
type Customization struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Banner is a storefront banner managed from the seller panel.
type Banner struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ImageURL  string    `json:"image_url"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Request is a community "wanted items" board entry.
type Request struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	Likes     int32     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is a buyer review on a product.
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
