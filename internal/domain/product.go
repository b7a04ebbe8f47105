package domain

import "time"

// Product is a catalog entry identified by brand plus model number.
// The (BrandID, ModelNumber) pair is unique.
type Product struct {
	ID          string
	BrandID     string
	ModelNumber string
	Price       float64
	Currency    string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Denormalized for responses; populated by joins, not persisted.
	BrandName     string
	BrandImageURL string
}
