package usecase

import (
	"booking-platform/internal/data/repository"
	"booking-platform/internal/notify"
	"booking-platform/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Catalog CatalogService
	Booking BookingService
}

func NewService(repo *repository.Repository, publisher notify.Publisher, config *utils.Config, log *zap.Logger) *Service {
	policy := NewTransitionPolicy(config.Booking.StrictTransitions)

	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Catalog: NewCatalogService(repo, log),
		Booking: NewBookingService(repo, publisher, policy, config.App.Location, log),
	}
}
