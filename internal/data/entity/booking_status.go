package entity

import "fmt"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusProcessing BookingStatus = "processing"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCanceled   BookingStatus = "canceled"
)

// bookingTransitions is the lifecycle graph. Completed and canceled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusProcessing, BookingStatusCanceled},
	BookingStatusProcessing: {BookingStatusCompleted, BookingStatusCanceled},
	BookingStatusCompleted:  {},
	BookingStatusCanceled:   {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

func (s BookingStatus) String() string {
	return string(s)
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
