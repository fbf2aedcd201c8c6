package entity

import "github.com/google/uuid"

// BookingItem keeps the price copied from the ledger when the booking was placed.
type BookingItem struct {
	ID        uuid.UUID `db:"id"`
	BookingID uuid.UUID `db:"booking_id"`
	LineNo    int       `db:"line_no"`
	ServiceID uuid.UUID `db:"service_id"`
	Quantity  int       `db:"quantity"`
	Price     float64   `db:"price"`
}

type BookingItemDetail struct {
	BookingItem
	ServiceName string
}

func (i *BookingItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
