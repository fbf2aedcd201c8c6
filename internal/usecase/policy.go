package usecase

import (
	"context"
	"fmt"

	"booking-platform/internal/data/entity"
	"booking-platform/internal/data/repository"

	"github.com/google/uuid"
)

// TransitionPolicy decides how an administrative status change is applied.
type TransitionPolicy interface {
	Apply(ctx context.Context, bookings repository.BookingRepository, id uuid.UUID, to entity.BookingStatus) (customerID uuid.UUID, err error)
}

// PermissivePolicy lets an admin set any booking to any status.
type PermissivePolicy struct{}

func (PermissivePolicy) Apply(ctx context.Context, bookings repository.BookingRepository, id uuid.UUID, to entity.BookingStatus) (uuid.UUID, error) {
	customerID, found, err := bookings.UpdateStatus(ctx, id, to)
	if err != nil {
		return uuid.Nil, persistence("set booking status", err)
	}
	if !found {
		return uuid.Nil, ErrNotFound
	}
	return customerID, nil
}

// StrictPolicy only follows edges of the lifecycle graph. The write is
// conditional on the status that was read, so a concurrent change makes it
// fail with ErrInvalidTransition instead of skipping a state.
type StrictPolicy struct{}

func (StrictPolicy) Apply(ctx context.Context, bookings repository.BookingRepository, id uuid.UUID, to entity.BookingStatus) (uuid.UUID, error) {
	booking, err := bookings.FindByID(ctx, id)
	if err != nil {
		return uuid.Nil, persistence("load booking", err)
	}
	if booking == nil {
		return uuid.Nil, ErrNotFound
	}

	if booking.Status.IsTerminal() {
		return uuid.Nil, fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, booking.Status)
	}
	if !booking.Status.CanTransitionTo(to) {
		return uuid.Nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, booking.Status, to)
	}

	ok, err := bookings.UpdateStatusFrom(ctx, id, booking.Status, to)
	if err != nil {
		return uuid.Nil, persistence("set booking status", err)
	}
	if !ok {
		return uuid.Nil, ErrInvalidTransition
	}

	return booking.CustomerID, nil
}

func NewTransitionPolicy(strict bool) TransitionPolicy {
	if strict {
		return StrictPolicy{}
	}
	return PermissivePolicy{}
}
