package domain

import "time"

// Brand is a catalog brand with its logo image stored in object storage.
type Brand struct {
	ID        string
	Name      string
	ImageKey  string
	ImageURL  string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
