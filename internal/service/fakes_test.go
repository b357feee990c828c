package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"icearena/internal/models"
)

type fakeSchedules struct {
	items []models.ClassSchedule
	err   error
}

func (f *fakeSchedules) SchedulesFor(_ context.Context, weekday int) ([]models.ClassSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.ClassSchedule
	for _, s := range f.items {
		if s.DayOfWeek == weekday {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeEvents struct {
	items []models.Event
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	for _, e := range f.items {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeEvents) EventsOn(_ context.Context, date models.Date) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.items {
		if models.NewDate(e.StartsAt).Equal(date.Time) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSlots struct {
	items []models.TimeSlot
}

func (f *fakeSlots) ActiveSlotsFor(_ context.Context, weekday int) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range f.items {
		if s.AppliesTo(weekday) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

type fakeBookings struct {
	mu     sync.Mutex
	items  []models.IceBooking
	nextID int64
}

func (f *fakeBookings) Create(_ context.Context, b *models.IceBooking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	f.items = append(f.items, *b)
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id int64) (*models.IceBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.items {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id int64, status models.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			return nil
		}
	}
	return errors.New("no rows")
}

func (f *fakeBookings) ApprovedOn(_ context.Context, date models.Date) ([]models.IceBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.IceBooking
	for _, b := range f.items {
		if b.Status == models.BookingStatusApproved && b.Date.Equal(date.Time) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID int64) ([]models.IceBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.IceBooking
	for _, b := range f.items {
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeSeatStore holds a per-seat lock for the lifetime of a transaction
// and discards the transaction's writes when fn fails.
type fakeSeatStore struct {
	mu      sync.Mutex
	seats   map[int64]models.Seat
	tickets []models.Ticket
	locks   map[int64]*sync.Mutex
	nextID  int64
	// afterLock runs while the row lock is held, used to widen race windows.
	afterLock func()
	failTicket error
}

func newFakeSeatStore(seats ...models.Seat) *fakeSeatStore {
	f := &fakeSeatStore{seats: map[int64]models.Seat{}, locks: map[int64]*sync.Mutex{}}
	for _, s := range seats {
		f.seats[s.ID] = s
		f.locks[s.ID] = &sync.Mutex{}
	}
	return f
}

func (f *fakeSeatStore) seat(id int64) models.Seat {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seats[id]
}

func (f *fakeSeatStore) ticketCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickets)
}

func (f *fakeSeatStore) ListByEvent(_ context.Context, eventID int64) ([]models.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Seat
	for _, s := range f.seats {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSeatStore) ReplaceSeats(_ context.Context, eventID int64, _ json.RawMessage, seats []models.Seat) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.seats {
		if s.EventID == eventID {
			if s.Status != models.SeatStatusAvailable {
				return 0, errors.New("occupied")
			}
			delete(f.seats, id)
		}
	}
	for _, s := range seats {
		f.nextID++
		s.ID = f.nextID
		s.EventID = eventID
		s.SchemaID = eventID
		f.seats[s.ID] = s
		f.locks[s.ID] = &sync.Mutex{}
	}
	return eventID, nil
}

type fakeSeatTx struct {
	store   *fakeSeatStore
	held    []*sync.Mutex
	seats   map[int64]models.Seat
	tickets []models.Ticket
}

func (f *fakeSeatStore) InSeatTx(ctx context.Context, fn func(tx SeatTx) error) error {
	tx := &fakeSeatTx{store: f, seats: map[int64]models.Seat{}}
	defer func() {
		for _, l := range tx.held {
			l.Unlock()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range tx.seats {
		f.seats[id] = s
	}
	f.tickets = append(f.tickets, tx.tickets...)
	return nil
}

func (t *fakeSeatTx) LockSeat(_ context.Context, seatID int64) (*models.Seat, error) {
	t.store.mu.Lock()
	lock, ok := t.store.locks[seatID]
	t.store.mu.Unlock()
	if !ok {
		return nil, nil
	}

	lock.Lock()
	t.held = append(t.held, lock)
	if t.store.afterLock != nil {
		t.store.afterLock()
	}

	seat := t.store.seat(seatID)
	return &seat, nil
}

func (t *fakeSeatTx) SaveSeat(_ context.Context, seat *models.Seat) error {
	t.seats[seat.ID] = *seat
	return nil
}

func (t *fakeSeatTx) CreateTicket(_ context.Context, ticket *models.Ticket) error {
	if t.store.failTicket != nil {
		return t.store.failTicket
	}
	t.store.mu.Lock()
	t.store.nextID++
	ticket.ID = t.store.nextID
	t.store.mu.Unlock()
	ticket.CreatedAt = time.Now()
	t.tickets = append(t.tickets, *ticket)
	return nil
}

func (f *fakeSeatStore) ListByUser(_ context.Context, userID int64) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Ticket
	for _, t := range f.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type publishedMessage struct {
	subject string
	data    interface{}
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (f *fakePublisher) Publish(subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func (f *fakePublisher) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.subject)
	}
	return out
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]models.AvailabilityResponse
	versions    map[string]int64
	invalidated []string
	// beforeSet runs after the result was computed and before it is stored
	beforeSet func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:  map[string]models.AvailabilityResponse{},
		versions: map[string]int64{},
	}
}

func cacheKey(date models.Date, version int64) string {
	return fmt.Sprintf("%s:v%d", date, version)
}

func (f *fakeCache) GetAvailability(_ context.Context, date models.Date) (models.AvailabilityResponse, int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	version := f.versions[date.String()]
	slots, ok := f.entries[cacheKey(date, version)]
	return slots, version, ok, nil
}

func (f *fakeCache) SetAvailability(_ context.Context, date models.Date, version int64, slots models.AvailabilityResponse) error {
	if hook := f.beforeSet; hook != nil {
		f.beforeSet = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[cacheKey(date, version)] = slots
	return nil
}

func (f *fakeCache) InvalidateAvailability(_ context.Context, date models.Date) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[date.String()]++
	f.invalidated = append(f.invalidated, date.String())
	return nil
}
