package request

type BookingItemRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=1,max=1000"`

	// Price is accepted for compatibility with cart clients but never used;
	// line prices always come from the service catalog.
	Price *float64 `json:"price,omitempty" validate:"-"`
}

type CreateBookingRequest struct {
	Items        []BookingItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
	PickupMethod string               `json:"pickup_method" validate:"required,max=50"`
	ReturnMethod string               `json:"return_method" validate:"required,max=50"`
	ScheduleDate string               `json:"schedule_date" validate:"required,datetime=2006-01-02"`
	ScheduleTime string               `json:"schedule_time" validate:"required,clock"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed canceled"`
}

// ListBookingsRequest carries the list filters from the query string.
// EndDate is inclusive.
type ListBookingsRequest struct {
	PaginatedRequest
	ID        string `json:"id" validate:"omitempty,uuid"`
	Search    string `json:"q" validate:"max=100"`
	Status    string `json:"status" validate:"omitempty,oneof=pending processing completed canceled"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}
