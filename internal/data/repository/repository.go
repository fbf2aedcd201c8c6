package repository

import (
	"booking-platform/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	DB      database.PgxIface
	User    UserRepository
	Session SessionRepository
	Service ServiceRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		DB:      db,
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Service: NewServiceRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
