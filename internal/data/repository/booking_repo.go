package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-platform/internal/data/entity"
	"booking-platform/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingFilter narrows the booking list. Nil or empty fields are ignored.
type BookingFilter struct {
	ID         *uuid.UUID
	CustomerID *uuid.UUID
	Search     string // substring of customer name or email
	Status     *entity.BookingStatus
	From       *time.Time // created_at >= From
	Until      *time.Time // created_at < Until
}

type BookingRepository interface {
	// CreateWithItems inserts the booking and all of its items in one
	// transaction. Either every row is committed or none is.
	CreateWithItems(ctx context.Context, booking *entity.Booking, items []*entity.BookingItem) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindDetail loads a booking with customer contact fields and items.
	// A non-nil ownerID restricts the lookup to that customer's bookings.
	FindDetail(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.BookingDetail, error)

	List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.BookingSummary, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)

	// UpdateStatus sets the status unconditionally and returns the owning
	// customer. found is false when the booking does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) (customerID uuid.UUID, found bool, err error)

	// UpdateStatusFrom sets the status only if the booking is still in from.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error)

	// CancelPending cancels the booking only when it belongs to customerID
	// and is still pending. The single conditional write makes concurrent
	// attempts race safely: exactly one of them sees true.
	CancelPending(ctx context.Context, id, customerID uuid.UUID) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) CreateWithItems(ctx context.Context, booking *entity.Booking, items []*entity.BookingItem) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.insertBooking(ctx, tx, booking); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.insertItem(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to create booking with items",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("customer_id", booking.CustomerID.String()),
			zap.Int("item_count", len(items)),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) insertBooking(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, total_price, status, pickup_method, return_method,
		                      schedule_date, schedule_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.TotalPrice,
		booking.Status,
		booking.PickupMethod,
		booking.ReturnMethod,
		booking.ScheduleDate,
		booking.ScheduleTime,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) insertItem(ctx context.Context, q database.Querier, item *entity.BookingItem) error {
	query := `
		INSERT INTO booking_items (id, booking_id, line_no, service_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		item.ID,
		item.BookingID,
		item.LineNo,
		item.ServiceID,
		item.Quantity,
		item.Price,
	)
	if err != nil {
		return fmt.Errorf("insert booking item %d: %w", item.LineNo, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, customer_id, total_price, status, pickup_method, return_method,
		       schedule_date, schedule_time, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.TotalPrice,
		&booking.Status,
		&booking.PickupMethod,
		&booking.ReturnMethod,
		&booking.ScheduleDate,
		&booking.ScheduleTime,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check booking existence",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("check booking %s exists: %w", id.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) FindDetail(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.BookingDetail, error) {
	query := `
		SELECT b.id, b.customer_id, b.total_price, b.status, b.pickup_method, b.return_method,
		       b.schedule_date, b.schedule_time, b.created_at, b.updated_at,
		       u.name, u.email, u.phone, u.address
		FROM bookings b
		JOIN users u ON u.id = b.customer_id
		WHERE b.id = $1
	`
	args := []any{id}

	if ownerID != nil {
		query += " AND b.customer_id = $2"
		args = append(args, *ownerID)
	}

	var detail entity.BookingDetail
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&detail.ID,
		&detail.CustomerID,
		&detail.TotalPrice,
		&detail.Status,
		&detail.PickupMethod,
		&detail.ReturnMethod,
		&detail.ScheduleDate,
		&detail.ScheduleTime,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.CustomerName,
		&detail.CustomerEmail,
		&detail.CustomerPhone,
		&detail.CustomerAddress,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking detail",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking detail %s: %w", id.String(), err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Items = items

	return &detail, nil
}

func (r *bookingRepository) findItems(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItemDetail, error) {
	query := `
		SELECT bi.id, bi.booking_id, bi.line_no, bi.service_id, bi.quantity, bi.price, s.name
		FROM booking_items bi
		JOIN services s ON s.id = bi.service_id
		WHERE bi.booking_id = $1
		ORDER BY bi.line_no
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking items",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booking items %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var items []*entity.BookingItemDetail
	for rows.Next() {
		var item entity.BookingItemDetail
		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.LineNo,
			&item.ServiceID,
			&item.Quantity,
			&item.Price,
			&item.ServiceName,
		)
		if err != nil {
			r.log.Error("Failed to scan booking item row", zap.Error(err))
			return nil, fmt.Errorf("scan booking item row: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking item rows: %w", err)
	}

	return items, nil
}

// buildFilter renders the WHERE clause shared by List and Count.
func buildFilter(filter BookingFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(" WHERE 1=1")

	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ID != nil {
		sb.WriteString(" AND b.id = " + arg(*filter.ID))
	}
	if filter.CustomerID != nil {
		sb.WriteString(" AND b.customer_id = " + arg(*filter.CustomerID))
	}
	if filter.Search != "" {
		p := arg("%" + escapeLike(filter.Search) + "%")
		sb.WriteString(" AND (u.name ILIKE " + p + " OR u.email ILIKE " + p + ")")
	}
	if filter.Status != nil {
		sb.WriteString(" AND b.status = " + arg(*filter.Status))
	}
	if filter.From != nil {
		sb.WriteString(" AND b.created_at >= " + arg(*filter.From))
	}
	if filter.Until != nil {
		sb.WriteString(" AND b.created_at < " + arg(*filter.Until))
	}

	return sb.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.BookingSummary, error) {
	where, args := buildFilter(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT b.id, b.customer_id, b.total_price, b.status, b.pickup_method, b.return_method,
		       b.schedule_date, b.schedule_time, b.created_at, b.updated_at,
		       u.name, u.email,
		       COUNT(bi.id),
		       COALESCE(string_agg(s.name || ' x' || bi.quantity, ', ' ORDER BY bi.line_no), '')
		FROM bookings b
		JOIN users u ON u.id = b.customer_id
		LEFT JOIN booking_items bi ON bi.booking_id = b.id
		LEFT JOIN services s ON s.id = bi.service_id
	`)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" GROUP BY b.id, u.name, u.email")
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.BookingSummary
	for rows.Next() {
		var summary entity.BookingSummary
		err := rows.Scan(
			&summary.ID,
			&summary.CustomerID,
			&summary.TotalPrice,
			&summary.Status,
			&summary.PickupMethod,
			&summary.ReturnMethod,
			&summary.ScheduleDate,
			&summary.ScheduleTime,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.CustomerName,
			&summary.CustomerEmail,
			&summary.ItemCount,
			&summary.ItemsSummary,
		)
		if err != nil {
			r.log.Error("Failed to scan booking summary row", zap.Error(err))
			return nil, fmt.Errorf("scan booking summary row: %w", err)
		}
		bookings = append(bookings, &summary)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	r.log.Debug("Bookings listed",
		zap.Int("count", len(bookings)),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := buildFilter(filter)
	query := `SELECT COUNT(*) FROM bookings b JOIN users u ON u.id = b.customer_id` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return total, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) (uuid.UUID, bool, error) {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING customer_id`

	var customerID uuid.UUID
	err := r.db.QueryRow(ctx, query, id, status).Scan(&customerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return uuid.Nil, false, fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	return customerID, true, nil
}

func (r *bookingRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update booking %s status %s to %s: %w", id.String(), string(from), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) CancelPending(ctx context.Context, id, customerID uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND customer_id = $2 AND status = $4
	`

	result, err := r.db.Exec(ctx, query, id, customerID, entity.BookingStatusCanceled, entity.BookingStatusPending)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("customer_id", customerID.String()),
		)
		return false, fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
