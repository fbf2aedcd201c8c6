package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"booking-platform/internal/data/entity"
	"booking-platform/internal/data/repository"
	"booking-platform/internal/notify"

	"github.com/google/uuid"
)

// fakeServiceRepo is an in-memory catalog. Only active services have a ledger price.
type fakeServiceRepo struct {
	mu        sync.Mutex
	services  map[uuid.UUID]*entity.Service
	lookups   [][]uuid.UUID
	lookupErr error
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[uuid.UUID]*entity.Service)}
}

func (f *fakeServiceRepo) add(name string, price float64, active bool) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.services[id] = &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{ID: id},
		Name:         name,
		Type:         "laundry",
		BasePrice:    price,
		IsActive:     active,
	}
	return id
}

func (f *fakeServiceRepo) LookupPrices(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lookups = append(f.lookups, append([]uuid.UUID(nil), ids...))
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}

	prices := make(map[uuid.UUID]float64)
	for _, id := range ids {
		if svc, ok := f.services[id]; ok && svc.IsActive {
			prices[id] = svc.BasePrice
		}
	}
	return prices, nil
}

func (f *fakeServiceRepo) Create(_ context.Context, service *entity.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *service
	f.services[service.ID] = &cp
	return nil
}

func (f *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc, ok := f.services[id]
	if !ok {
		return nil, nil
	}
	cp := *svc
	return &cp, nil
}

func (f *fakeServiceRepo) FindAllActive(_ context.Context) ([]*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.Service
	for _, svc := range f.services {
		if svc.IsActive {
			cp := *svc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, service *entity.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[service.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	cp := *service
	f.services[service.ID] = &cp
	return nil
}

func (f *fakeServiceRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc, ok := f.services[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	svc.IsActive = false
	return nil
}

type fakeCustomer struct {
	name  string
	email string
}

// fakeBookingRepo stores bookings in memory. Every write takes the lock, so
// conditional updates behave like a single-row atomic UPDATE.
type fakeBookingRepo struct {
	mu        sync.Mutex
	services  *fakeServiceRepo
	customers map[uuid.UUID]fakeCustomer
	bookings  map[uuid.UUID]*entity.Booking
	items     map[uuid.UUID][]*entity.BookingItem
	createErr error
}

func newFakeBookingRepo(services *fakeServiceRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		services:  services,
		customers: make(map[uuid.UUID]fakeCustomer),
		bookings:  make(map[uuid.UUID]*entity.Booking),
		items:     make(map[uuid.UUID][]*entity.BookingItem),
	}
}

func (f *fakeBookingRepo) addCustomer(name, email string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.customers[id] = fakeCustomer{name: name, email: email}
	return id
}

// seed stores a booking directly, bypassing CreateWithItems.
func (f *fakeBookingRepo) seed(customerID uuid.UUID, status entity.BookingStatus, createdAt time.Time) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.bookings[id] = &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: id, CreatedAt: createdAt, UpdatedAt: createdAt},
		CustomerID:   customerID,
		Status:       status,
		PickupMethod: "courier",
		ReturnMethod: "courier",
		ScheduleDate: createdAt.Truncate(24 * time.Hour),
		ScheduleTime: "10:00",
	}
	return id
}

func (f *fakeBookingRepo) count() (bookings, items int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, list := range f.items {
		items += len(list)
	}
	return len(f.bookings), items
}

func (f *fakeBookingRepo) status(id uuid.UUID) entity.BookingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id].Status
}

func (f *fakeBookingRepo) CreateWithItems(_ context.Context, booking *entity.Booking, items []*entity.BookingItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if len(items) == 0 {
		return errors.New("booking without items")
	}

	cp := *booking
	f.bookings[booking.ID] = &cp
	for _, item := range items {
		ic := *item
		f.items[booking.ID] = append(f.items[booking.ID], &ic)
	}
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.bookings[id]
	return ok, nil
}

func (f *fakeBookingRepo) FindDetail(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || (ownerID != nil && b.CustomerID != *ownerID) {
		return nil, nil
	}

	customer := f.customers[b.CustomerID]
	detail := &entity.BookingDetail{
		Booking:       *b,
		CustomerName:  customer.name,
		CustomerEmail: customer.email,
	}

	for _, item := range f.items[id] {
		name := ""
		if f.services != nil {
			if svc, _ := f.services.FindByID(ctx, item.ServiceID); svc != nil {
				name = svc.Name
			}
		}
		detail.Items = append(detail.Items, &entity.BookingItemDetail{BookingItem: *item, ServiceName: name})
	}
	sort.Slice(detail.Items, func(i, j int) bool { return detail.Items[i].LineNo < detail.Items[j].LineNo })

	return detail, nil
}

func (f *fakeBookingRepo) matching(filter repository.BookingFilter) []*entity.BookingSummary {
	var out []*entity.BookingSummary
	for _, b := range f.bookings {
		if filter.ID != nil && b.ID != *filter.ID {
			continue
		}
		if filter.CustomerID != nil && b.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.From != nil && b.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.Until != nil && !b.CreatedAt.Before(*filter.Until) {
			continue
		}
		customer := f.customers[b.CustomerID]
		out = append(out, &entity.BookingSummary{
			Booking:       *b,
			CustomerName:  customer.name,
			CustomerEmail: customer.email,
			ItemCount:     len(f.items[b.ID]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeBookingRepo) List(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.BookingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.matching(filter)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeBookingRepo) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(filter))), nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return uuid.Nil, false, nil
	}
	b.Status = status
	return b.CustomerID, true, nil
}

func (f *fakeBookingRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *fakeBookingRepo) CancelPending(_ context.Context, id, customerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.CustomerID != customerID || b.Status != entity.BookingStatusPending {
		return false, nil
	}
	b.Status = entity.BookingStatusCanceled
	return true, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingPublisher) Publish(_ context.Context, event notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) recorded() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}
