package response

import (
	"time"

	"booking-platform/internal/data/entity"
)

const dateLayout = "2006-01-02"

type CreateBookingResponse struct {
	BookingID string  `json:"booking_id"`
	Total     float64 `json:"total"`
}

type BookingStatusResponse struct {
	BookingID string               `json:"booking_id"`
	Status    entity.BookingStatus `json:"status"`
}

type BookingItemResponse struct {
	ID          string  `json:"id"`
	LineNo      int     `json:"line_no"`
	ServiceID   string  `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

type BookingDetailResponse struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerPhone   *string               `json:"customer_phone,omitempty"`
	CustomerAddress *string               `json:"customer_address,omitempty"`
	TotalPrice      float64               `json:"total_price"`
	Status          entity.BookingStatus  `json:"status"`
	PickupMethod    string                `json:"pickup_method"`
	ReturnMethod    string                `json:"return_method"`
	ScheduleDate    string                `json:"schedule_date"`
	ScheduleTime    string                `json:"schedule_time"`
	Items           []BookingItemResponse `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type BookingSummaryResponse struct {
	ID            string               `json:"id"`
	CustomerID    string               `json:"customer_id"`
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	TotalPrice    float64              `json:"total_price"`
	Status        entity.BookingStatus `json:"status"`
	PickupMethod  string               `json:"pickup_method"`
	ReturnMethod  string               `json:"return_method"`
	ScheduleDate  string               `json:"schedule_date"`
	ScheduleTime  string               `json:"schedule_time"`
	ItemCount     int                  `json:"item_count"`
	ItemsSummary  string               `json:"items_summary"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Helper converters
func BookingDetailToResponse(detail *entity.BookingDetail) BookingDetailResponse {
	items := make([]BookingItemResponse, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, BookingItemResponse{
			ID:          item.ID.String(),
			LineNo:      item.LineNo,
			ServiceID:   item.ServiceID.String(),
			ServiceName: item.ServiceName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		})
	}

	return BookingDetailResponse{
		ID:              detail.ID.String(),
		CustomerID:      detail.CustomerID.String(),
		CustomerName:    detail.CustomerName,
		CustomerEmail:   detail.CustomerEmail,
		CustomerPhone:   detail.CustomerPhone,
		CustomerAddress: detail.CustomerAddress,
		TotalPrice:      detail.TotalPrice,
		Status:          detail.Status,
		PickupMethod:    detail.PickupMethod,
		ReturnMethod:    detail.ReturnMethod,
		ScheduleDate:    detail.ScheduleDate.Format(dateLayout),
		ScheduleTime:    detail.ScheduleTime,
		Items:           items,
		CreatedAt:       detail.CreatedAt,
		UpdatedAt:       detail.UpdatedAt,
	}
}

func BookingSummaryToResponse(summary *entity.BookingSummary) BookingSummaryResponse {
	return BookingSummaryResponse{
		ID:            summary.ID.String(),
		CustomerID:    summary.CustomerID.String(),
		CustomerName:  summary.CustomerName,
		CustomerEmail: summary.CustomerEmail,
		TotalPrice:    summary.TotalPrice,
		Status:        summary.Status,
		PickupMethod:  summary.PickupMethod,
		ReturnMethod:  summary.ReturnMethod,
		ScheduleDate:  summary.ScheduleDate.Format(dateLayout),
		ScheduleTime:  summary.ScheduleTime,
		ItemCount:     summary.ItemCount,
		ItemsSummary:  summary.ItemsSummary,
		CreatedAt:     summary.CreatedAt,
	}
}
