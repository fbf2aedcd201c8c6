package entity

// Service is a catalog entry. BasePrice is the ledger price read at booking time.
type Service struct {
	BaseNoDelete
	Name        string  `db:"name"`
	Type        string  `db:"type"`
	Description *string `db:"description"`
	BasePrice   float64 `db:"base_price"`
	IsActive    bool    `db:"is_active"`
	ImageURL    *string `db:"image_url"`
}
