package adaptor

import (
	"net/http"

	"booking-platform/internal/dto/request"
	"booking-platform/internal/usecase"
	"booking-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// ListMyBookings handles GET /api/bookings
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), parseListRequest(r), &userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list own bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetMyBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetMyBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	h.detail(w, r, &userID)
}

// CancelMyBooking handles PUT /api/bookings/{id}/cancel
func (h *BookingHandler) CancelMyBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := uuidParam(w, r, "id", "booking")
	if !ok {
		return
	}

	if err := h.service.CancelOwnBooking(r.Context(), bookingID, userID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking canceled", nil)
}

// ==================== ADMIN ====================

// ListBookings handles GET /api/admin/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context(), parseListRequest(r), nil)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/admin/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, nil)
}

// SetStatus handles PUT /api/admin/bookings/{id}/status
func (h *BookingHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := uuidParam(w, r, "id", "booking")
	if !ok {
		return
	}

	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := h.service.SetStatus(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", status)
}

func (h *BookingHandler) detail(w http.ResponseWriter, r *http.Request, ownerID *uuid.UUID) {
	bookingID, ok := uuidParam(w, r, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.service.GetBookingDetail(r.Context(), bookingID, ownerID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

func parseListRequest(r *http.Request) *request.ListBookingsRequest {
	query := r.URL.Query()

	return &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
		},
		ID:        query.Get("id"),
		Search:    query.Get("q"),
		Status:    query.Get("status"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
}
