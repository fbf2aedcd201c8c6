package wire

import (
	"booking-platform/internal/adaptor"
	"booking-platform/internal/data/repository"
	"booking-platform/pkg/middleware"
	"booking-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	eventsHandler *adaptor.EventsHandler,
	repo *repository.Repository,
	redisClient *redis.Client,
	config *utils.Config,
	log *zap.Logger,
) error {
	createLimit, err := middleware.RateLimit(config.Booking.RateLimit, "bookings", redisClient, log)
	if err != nil {
		return err
	}

	// ==================== CUSTOMER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/bookings - place a booking from a cart
		r.With(createLimit).Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings - own bookings, newest first
		r.Get("/api/bookings", bookingHandler.ListMyBookings)
		r.Get("/api/bookings/{id}", bookingHandler.GetMyBooking)

		// PUT /api/bookings/{id}/cancel - only while pending
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelMyBooking)

		// GET /api/events - status changes of own bookings (SSE)
		r.Get("/api/events", eventsHandler.MyEvents)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Get("/", bookingHandler.ListBookings)
		r.Get("/{id}", bookingHandler.GetBooking)

		// PUT /api/admin/bookings/{id}/status - administrative override
		r.Put("/{id}/status", bookingHandler.SetStatus)
	})

	// GET /api/admin/events - every status change (SSE)
	r.With(middleware.AuthSession(repo.Session, log), middleware.Admin(log)).
		Get("/api/admin/events", eventsHandler.AllEvents)

	return nil
}
