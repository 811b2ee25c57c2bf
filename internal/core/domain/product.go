package domain

import "time"

// Product is a marketplace listing (vehicles, services, parts).
type Product struct {
	ID         string    `json:"id"          db:"id"`
	Title      string    `json:"title"       db:"title"`
	Category   string    `json:"category"    db:"category"`
	Make       string    `json:"make"        db:"make"`
	Model      string    `json:"model"       db:"model"`
	Year       int       `json:"year"        db:"year"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	VendorID   string    `json:"vendor_id"   db:"vendor_id"`
	ImageURL   string    `json:"image_url"   db:"image_url"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"  db:"updated_at"`
}

// Vendor is a seller on the marketplace.
type Vendor struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Location  string    `json:"location"   db:"location"`
	Rating    float64   `json:"rating"     db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
