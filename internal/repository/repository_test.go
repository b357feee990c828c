package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"icearena/internal/database"
	apperrors "icearena/internal/errors"
	"icearena/internal/models"
)

var (
	testDB    *database.DB
	getDbOnce sync.Once
)

func getDb(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL is not set")
	}

	getDbOnce.Do(func() {
		ctx := context.Background()
		var err error
		testDB, err = database.Open(ctx, url)
		require.NoError(t, err)
		require.NoError(t, testDB.RunMigrations(ctx))
	})
	require.NotNil(t, testDB)

	_, err := testDB.Exec(`TRUNCATE tickets, seats, seating_schemas, ice_bookings, events,
		time_slots, class_schedules, section_groups, sections RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return testDB
}

func createEvent(t *testing.T, repos *Repositories, startsAt time.Time) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:    "Хоккей: Барыс - Авангард",
		Type:     models.EventTypeHockey,
		StartsAt: startsAt,
		PriceMin: models.Rubles(2000),
		PriceMax: models.Rubles(6000),
		IsActive: true,
	}
	require.NoError(t, repos.Events.Create(context.Background(), event))
	return event
}

func TestEventRepository_EventsOn(t *testing.T) {
	db := getDb(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	date, err := models.ParseDate("2025-03-15")
	require.NoError(t, err)

	createEvent(t, repos, date.Add(18*time.Hour))
	createEvent(t, repos, date.Add(42*time.Hour))

	events, err := repos.Events.EventsOn(ctx, models.NewDate(date))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.Clock(18, 0), models.TimeOfDayOf(events[0].StartsAt))

	missing, err := repos.Events.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBookingRepository_ApprovedOn(t *testing.T) {
	db := getDb(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	date, err := models.ParseDate("2025-03-15")
	require.NoError(t, err)

	booking := &models.IceBooking{
		Date:          models.NewDate(date),
		Start:         models.Clock(10, 0),
		End:           models.Clock(11, 30),
		DurationHours: 1.5,
		Name:          "Иванов",
		Phone:         "+77001234567",
		Status:        models.BookingStatusPending,
	}
	require.NoError(t, repos.Bookings.Create(ctx, booking))
	require.NotZero(t, booking.ID)

	approved, err := repos.Bookings.ApprovedOn(ctx, models.NewDate(date))
	require.NoError(t, err)
	assert.Empty(t, approved)

	require.NoError(t, repos.Bookings.UpdateStatus(ctx, booking.ID, models.BookingStatusApproved))

	approved, err = repos.Bookings.ApprovedOn(ctx, models.NewDate(date))
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Иванов", approved[0].Name)
	assert.Equal(t, models.Clock(11, 30), approved[0].End)
}

func TestTimeSlotRepository_Seed(t *testing.T) {
	db := getDb(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	monday := 0
	slots := []models.TimeSlot{
		{Start: models.Clock(8, 0), End: models.Clock(9, 0), Price: models.Rubles(3000), IsActive: true},
		{Start: models.Clock(9, 0), End: models.Clock(10, 0), Price: models.Rubles(3000), IsActive: true},
		{Start: models.Clock(7, 0), End: models.Clock(8, 0), Price: models.Rubles(2500), DayOfWeek: &monday, IsActive: true},
	}

	created, err := repos.TimeSlots.Seed(ctx, slots, false)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = repos.TimeSlots.Seed(ctx, slots, false)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	onMonday, err := repos.TimeSlots.ActiveSlotsFor(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, onMonday, 3)
	assert.Equal(t, models.Clock(7, 0), onMonday[0].Start)

	onTuesday, err := repos.TimeSlots.ActiveSlotsFor(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, onTuesday, 2)
}

func TestTimeSlotRepository_SeedRejectsReversedWindow(t *testing.T) {
	db := getDb(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	slots := []models.TimeSlot{
		{Start: models.Clock(8, 0), End: models.Clock(9, 0), Price: models.Rubles(3000), IsActive: true},
		{Start: models.Clock(12, 0), End: models.Clock(10, 0), Price: models.Rubles(3000), IsActive: true},
	}

	_, err := repos.TimeSlots.Seed(ctx, slots, false)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	stored, err := repos.TimeSlots.ActiveSlotsFor(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, stored)

	_, err = db.ExecContext(ctx, `INSERT INTO time_slots (time_start, time_end, price) VALUES ('12:00', '10:00', 100)`)
	assert.Error(t, err, "check constraint must reject reversed windows")
}

func TestScheduleRepository_SchedulesFor(t *testing.T) {
	db := getDb(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	var groupID int64
	require.NoError(t, db.QueryRowxContext(ctx, `
		WITH s AS (INSERT INTO sections (name) VALUES ('Фигурное катание') RETURNING id)
		INSERT INTO section_groups (section_id, name) SELECT id, 'Младшая группа' FROM s RETURNING id`).Scan(&groupID))

	schedules := []*models.ClassSchedule{
		{GroupID: groupID, DayOfWeek: 0, Start: models.Clock(17, 0), End: models.Clock(18, 30)},
		{GroupID: groupID, DayOfWeek: 0, Start: models.Clock(8, 0), End: models.Clock(9, 0)},
		{GroupID: groupID, DayOfWeek: 2, Start: models.Clock(8, 0), End: models.Clock(9, 0)},
	}
	for _, s := range schedules {
		require.NoError(t, repos.Schedules.Create(ctx, s))
		assert.NotZero(t, s.ID)
	}

	onMonday, err := repos.Schedules.SchedulesFor(ctx, 0)
	require.NoError(t, err)
	require.Len(t, onMonday, 2)
	assert.Equal(t, models.Clock(8, 0), onMonday[0].Start)
	assert.Equal(t, models.Clock(18, 30), onMonday[1].End)

	onTuesday, err := repos.Schedules.SchedulesFor(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, onTuesday)

	reversed := &models.ClassSchedule{GroupID: groupID, DayOfWeek: 1, Start: models.Clock(10, 0), End: models.Clock(9, 0)}
	assert.Error(t, repos.Schedules.Create(ctx, reversed))
}

func TestSeatRepository_ReplaceSeats(t *testing.T) {
	db := getDb(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	event := createEvent(t, repos, time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC))

	grid := func() []models.Seat {
		return []models.Seat{
			{Sector: "A", Row: 1, Number: 1, Price: models.Rubles(6000), Status: models.SeatStatusAvailable},
			{Sector: "A", Row: 1, Number: 2, Price: models.Rubles(6000), Status: models.SeatStatusAvailable},
		}
	}

	schemaID, err := repos.Seats.ReplaceSeats(ctx, event.ID, nil, grid())
	require.NoError(t, err)

	again, err := repos.Seats.ReplaceSeats(ctx, event.ID, nil, grid())
	require.NoError(t, err)
	assert.Equal(t, schemaID, again)

	seats, err := repos.Seats.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, event.ID, seats[0].EventID)

	_, err = db.Exec(`UPDATE seats SET status = 'sold' WHERE id = $1`, seats[0].ID)
	require.NoError(t, err)

	_, err = repos.Seats.ReplaceSeats(ctx, event.ID, nil, grid())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSeatRepository_ConcurrentPurchase(t *testing.T) {
	db := getDb(t)
	repos := NewRepositories(db, WithLockTimeout(5*time.Second))
	ctx := context.Background()

	event := createEvent(t, repos, time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC))
	_, err := repos.Seats.ReplaceSeats(ctx, event.ID, nil, []models.Seat{
		{Sector: "A", Row: 1, Number: 1, Price: models.Rubles(6000), Status: models.SeatStatusAvailable},
	})
	require.NoError(t, err)

	seats, err := repos.Seats.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	seatID := seats[0].ID

	var mu sync.Mutex
	sold := 0

	g, gctx := errgroup.WithContext(ctx)
	for buyer := int64(1); buyer <= 5; buyer++ {
		buyer := buyer
		g.Go(func() error {
			return repos.Seats.InTx(gctx, func(tx *SeatTx) error {
				seat, err := tx.LockSeat(gctx, seatID)
				if err != nil {
					return err
				}
				if seat.Status != models.SeatStatusAvailable {
					return nil
				}
				seat.Status = models.SeatStatusSold
				if err := tx.SaveSeat(gctx, seat); err != nil {
					return err
				}
				if err := tx.CreateTicket(gctx, &models.Ticket{
					EventID: event.ID, SeatID: seatID, UserID: buyer, Status: models.TicketStatusPaid,
				}); err != nil {
					return err
				}
				mu.Lock()
				sold++
				mu.Unlock()
				return nil
			})
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, sold)

	var tickets int
	require.NoError(t, db.Get(&tickets, `SELECT COUNT(*) FROM tickets WHERE seat_id = $1`, seatID))
	assert.Equal(t, 1, tickets)
}
