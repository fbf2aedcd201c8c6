package usecase

import (
	"context"
	"fmt"
	"time"

	"booking-platform/internal/data/entity"
	"booking-platform/internal/data/repository"
	"booking-platform/internal/dto/request"
	"booking-platform/internal/dto/response"
	"booking-platform/internal/notify"
	"booking-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type BookingService interface {
	// Customer
	CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	CancelOwnBooking(ctx context.Context, bookingID, customerID uuid.UUID) error

	// Admin
	SetStatus(ctx context.Context, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingStatusResponse, error)

	// Shared read paths. A non-nil ownerID restricts results to that customer.
	GetBookingDetail(ctx context.Context, bookingID uuid.UUID, ownerID *uuid.UUID) (*response.BookingDetailResponse, error)
	ListBookings(ctx context.Context, req *request.ListBookingsRequest, ownerID *uuid.UUID) (*response.PaginatedResponse[response.BookingSummaryResponse], error)
}

type bookingService struct {
	services  repository.ServiceRepository
	bookings  repository.BookingRepository
	publisher notify.Publisher
	policy    TransitionPolicy
	loc       *time.Location
	now       func() time.Time
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, publisher notify.Publisher, policy TransitionPolicy, loc *time.Location, log *zap.Logger) BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingService{
		services:  repo.Service,
		bookings:  repo.Booking,
		publisher: publisher,
		policy:    policy,
		loc:       loc,
		now:       time.Now,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	scheduleDate, err := time.Parse(dateLayout, req.ScheduleDate)
	if err != nil {
		return nil, validationError(map[string]string{"ScheduleDate": "Must match format " + dateLayout})
	}

	serviceIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		id, err := uuid.Parse(item.ServiceID)
		if err != nil {
			return nil, validationError(map[string]string{"Items.ServiceID": "Must be a valid UUID"})
		}
		serviceIDs[i] = id
	}

	prices, err := s.services.LookupPrices(ctx, distinct(serviceIDs))
	if err != nil {
		return nil, persistence("look up service prices", err)
	}

	now := s.now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CustomerID:   customerID,
		Status:       entity.BookingStatusPending,
		PickupMethod: req.PickupMethod,
		ReturnMethod: req.ReturnMethod,
		ScheduleDate: scheduleDate,
		ScheduleTime: req.ScheduleTime,
	}

	items := make([]*entity.BookingItem, len(req.Items))
	var total float64
	for i, line := range req.Items {
		price, ok := prices[serviceIDs[i]]
		if !ok {
			s.log.Warn("Booking references unknown service",
				zap.String("customer_id", customerID.String()),
				zap.String("service_id", serviceIDs[i].String()),
			)
			return nil, &InvalidServiceReferenceError{ServiceID: serviceIDs[i]}
		}

		items[i] = &entity.BookingItem{
			ID:        uuid.New(),
			BookingID: booking.ID,
			LineNo:    i + 1,
			ServiceID: serviceIDs[i],
			Quantity:  line.Quantity,
			Price:     price,
		}
		total += items[i].Subtotal()
	}
	booking.TotalPrice = utils.RoundMoney(total)
	if booking.TotalPrice > utils.MaxMoney {
		s.log.Warn("Booking total out of range",
			zap.String("customer_id", customerID.String()),
			zap.Float64("total", booking.TotalPrice),
		)
		return nil, validationError(map[string]string{"Items": fmt.Sprintf("Booking total exceeds %.2f", utils.MaxMoney)})
	}

	if err := s.bookings.CreateWithItems(ctx, booking, items); err != nil {
		return nil, persistence("create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Int("items", len(items)),
		zap.Float64("total", booking.TotalPrice),
	)

	s.publish(ctx, booking.ID, customerID, entity.BookingStatusPending)

	return &response.CreateBookingResponse{
		BookingID: booking.ID.String(),
		Total:     booking.TotalPrice,
	}, nil
}

func (s *bookingService) SetStatus(ctx context.Context, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingStatusResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	status, err := entity.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, validationError(map[string]string{"Status": err.Error()})
	}

	customerID, err := s.policy.Apply(ctx, s.bookings, bookingID, status)
	if err != nil {
		s.log.Warn("Set booking status rejected",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", status.String()),
		)
		return nil, err
	}

	s.log.Info("Booking status set",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", status.String()),
	)

	s.publish(ctx, bookingID, customerID, status)

	return &response.BookingStatusResponse{
		BookingID: bookingID.String(),
		Status:    status,
	}, nil
}

func (s *bookingService) CancelOwnBooking(ctx context.Context, bookingID, customerID uuid.UUID) error {
	ok, err := s.bookings.CancelPending(ctx, bookingID, customerID)
	if err != nil {
		return persistence("cancel booking", err)
	}

	if !ok {
		exists, err := s.bookings.Exists(ctx, bookingID)
		if err != nil {
			return persistence("check booking", err)
		}
		if !exists {
			return ErrNotFound
		}

		s.log.Warn("Booking not cancelable",
			zap.String("booking_id", bookingID.String()),
			zap.String("customer_id", customerID.String()),
		)
		return ErrNotCancelable
	}

	s.log.Info("Booking canceled by customer",
		zap.String("booking_id", bookingID.String()),
		zap.String("customer_id", customerID.String()),
	)

	s.publish(ctx, bookingID, customerID, entity.BookingStatusCanceled)
	return nil
}

func (s *bookingService) GetBookingDetail(ctx context.Context, bookingID uuid.UUID, ownerID *uuid.UUID) (*response.BookingDetailResponse, error) {
	detail, err := s.bookings.FindDetail(ctx, bookingID, ownerID)
	if err != nil {
		return nil, persistence("load booking detail", err)
	}
	if detail == nil {
		return nil, ErrNotFound
	}

	resp := response.BookingDetailToResponse(detail)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.ListBookingsRequest, ownerID *uuid.UUID) (*response.PaginatedResponse[response.BookingSummaryResponse], error) {
	req.Normalize()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, err
	}
	filter.CustomerID = ownerID

	bookings, err := s.bookings.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, persistence("list bookings", err)
	}

	total, err := s.bookings.Count(ctx, filter)
	if err != nil {
		return nil, persistence("count bookings", err)
	}

	data := make([]response.BookingSummaryResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.BookingSummaryToResponse(b))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// buildFilter turns the query filters into repository bounds. Dates are
// calendar days in the configured location; the end date is inclusive, so
// the upper bound is the start of the following day.
func (s *bookingService) buildFilter(req *request.ListBookingsRequest) (repository.BookingFilter, error) {
	filter := repository.BookingFilter{Search: req.Search}

	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return filter, validationError(map[string]string{"ID": "Must be a valid UUID"})
		}
		filter.ID = &id
	}

	if req.Status != "" {
		status, err := entity.ParseBookingStatus(req.Status)
		if err != nil {
			return filter, validationError(map[string]string{"Status": err.Error()})
		}
		filter.Status = &status
	}

	if req.StartDate != "" {
		from, err := time.ParseInLocation(dateLayout, req.StartDate, s.loc)
		if err != nil {
			return filter, validationError(map[string]string{"StartDate": "Must match format " + dateLayout})
		}
		filter.From = &from
	}

	if req.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, req.EndDate, s.loc)
		if err != nil {
			return filter, validationError(map[string]string{"EndDate": "Must match format " + dateLayout})
		}
		until := end.AddDate(0, 0, 1)
		filter.Until = &until
	}

	if filter.From != nil && filter.Until != nil && !filter.From.Before(*filter.Until) {
		return filter, validationError(map[string]string{"EndDate": "Must not be before start_date"})
	}

	return filter, nil
}

func (s *bookingService) publish(ctx context.Context, bookingID, customerID uuid.UUID, status entity.BookingStatus) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, notify.Event{
		BookingID:  bookingID,
		CustomerID: customerID,
		Status:     status,
		OccurredAt: s.now(),
	})
}

// distinct keeps the first occurrence of each id, in order.
func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
