package entity

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	BaseNoDelete
	CustomerID   uuid.UUID     `db:"customer_id"`
	TotalPrice   float64       `db:"total_price"`
	Status       BookingStatus `db:"status"`
	PickupMethod string        `db:"pickup_method"`
	ReturnMethod string        `db:"return_method"`
	ScheduleDate time.Time     `db:"schedule_date"`
	ScheduleTime string        `db:"schedule_time"`
}

// BookingDetail is a booking joined with its customer contact fields and items.
type BookingDetail struct {
	Booking
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	CustomerAddress *string
	Items           []*BookingItemDetail
}

// BookingSummary is one row of the booking list.
type BookingSummary struct {
	Booking
	CustomerName  string
	CustomerEmail string
	ItemCount     int
	ItemsSummary  string
}
