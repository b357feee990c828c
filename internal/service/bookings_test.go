package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "icearena/internal/errors"
	"icearena/internal/models"
)

func TestBookingValidate_Duration(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name    string
		start   models.TimeOfDay
		end     models.TimeOfDay
		wantErr error
		hours   float64
	}{
		{"one and a half hours", models.Clock(10, 0), models.Clock(11, 30), nil, 1.5},
		{"exactly one hour", models.Clock(10, 0), models.Clock(11, 0), nil, 1},
		{"half an hour", models.Clock(10, 0), models.Clock(10, 30), apperrors.ErrInvalidDuration, 0},
		{"end before start", models.Clock(12, 0), models.Clock(10, 0), apperrors.ErrInvalidDuration, 0},
		{"three hours", models.Clock(10, 0), models.Clock(13, 0), apperrors.ErrRequiresApproval, 0},
		{"four hours", models.Clock(10, 0), models.Clock(14, 0), apperrors.ErrRequiresApproval, 0},
		{"nine hours", models.Clock(8, 0), models.Clock(17, 0), apperrors.ErrInvalidDuration, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := f.bookingSvc.Validate(ctx, span(monday, tt.start, tt.end))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hours, hours)
		})
	}
}

func TestBookingValidate_Messages(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.bookingSvc.Validate(ctx, span(monday, models.Clock(10, 0), models.Clock(10, 30)))
	assert.Equal(t, "Минимальная длительность аренды - 1 час", apperrors.Message(err, ""))

	_, err = f.bookingSvc.Validate(ctx, span(monday, models.Clock(8, 0), models.Clock(17, 0)))
	assert.Equal(t, "Максимальная длительность аренды - 8 часов", apperrors.Message(err, ""))

	_, err = f.bookingSvc.Validate(ctx, span(monday, models.Clock(10, 0), models.Clock(14, 0)))
	assert.Equal(t, "Для аренды более 3 часов требуется согласование", apperrors.Message(err, ""))
}

func TestBookingValidate_ScheduleConflictOnlyOnItsWeekday(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.schedules.items = []models.ClassSchedule{{ID: 1, DayOfWeek: 0, Start: models.Clock(10, 0), End: models.Clock(11, 0)}}

	_, err := f.bookingSvc.Validate(ctx, span(monday, models.Clock(10, 30), models.Clock(12, 0)))
	assert.ErrorIs(t, err, apperrors.ErrScheduleConflict)
	assert.Equal(t, "Время занято расписанием секций", apperrors.Message(err, ""))

	tuesday := models.NewDate(monday.AddDate(0, 0, 1))
	hours, err := f.bookingSvc.Validate(ctx, span(tuesday, models.Clock(10, 30), models.Clock(12, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1.5, hours)

	_, err = f.bookingSvc.Validate(ctx, span(monday, models.Clock(11, 0), models.Clock(12, 0)))
	assert.NoError(t, err, "touching the schedule end is allowed")
}

func TestBookingValidate_EventWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.events.items = []models.Event{{ID: 1, StartsAt: at(monday, 18, 0)}}

	_, err := f.bookingSvc.Validate(ctx, span(monday, models.Clock(19, 0), models.Clock(20, 0)))
	assert.ErrorIs(t, err, apperrors.ErrEventConflict)
	assert.Equal(t, "Время занято событием", apperrors.Message(err, ""))

	_, err = f.bookingSvc.Validate(ctx, span(monday, models.Clock(20, 0), models.Clock(21, 0)))
	assert.NoError(t, err)
}

func TestBookingValidate_IgnoresOtherBookings(t *testing.T) {
	f := newFixture()
	f.bookings.items = []models.IceBooking{
		{ID: 1, Date: monday, Start: models.Clock(10, 0), End: models.Clock(12, 0), Name: "Иванов", Status: models.BookingStatusApproved},
	}

	_, err := f.bookingSvc.Validate(context.Background(), span(monday, models.Clock(10, 0), models.Clock(11, 0)))
	assert.NoError(t, err)
}

func newCreateRequest(start, end models.TimeOfDay) *models.CreateBookingRequest {
	date := monday
	return &models.CreateBookingRequest{
		Date:  &date,
		Start: &start,
		End:   &end,
		Name:  "Иванов Иван",
		Phone: "+7 (700) 123-45-67",
	}
}

func TestBookingCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := int64(42)

	booking, err := f.bookingSvc.Create(ctx, newCreateRequest(models.Clock(10, 0), models.Clock(11, 30)), &userID)
	require.NoError(t, err)

	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, 1.5, booking.DurationHours)
	assert.Equal(t, []string{models.EventBookingCreated}, f.publisher.subjects())

	mine, err := f.bookingSvc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestBookingCreate_RejectedIsNotStored(t *testing.T) {
	f := newFixture()

	_, err := f.bookingSvc.Create(context.Background(), newCreateRequest(models.Clock(10, 0), models.Clock(10, 30)), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDuration)
	assert.Empty(t, f.bookings.items)
	assert.Empty(t, f.publisher.subjects())
}

func TestBookingCreate_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("nats is down")

	booking, err := f.bookingSvc.Create(context.Background(), newCreateRequest(models.Clock(10, 0), models.Clock(11, 0)), nil)
	require.NoError(t, err)
	assert.NotZero(t, booking.ID)
}

func TestBookingUpdateStatus_ApprovalOccupiesIce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking, err := f.bookingSvc.Create(ctx, newCreateRequest(models.Clock(10, 0), models.Clock(11, 0)), nil)
	require.NoError(t, err)

	before, err := f.availability.ForDate(ctx, monday)
	require.NoError(t, err)
	assert.True(t, before[2].IsAvailable)

	updated, err := f.bookingSvc.UpdateStatus(ctx, booking.ID, models.BookingStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusApproved, updated.Status)
	assert.Contains(t, f.cache.invalidated, monday.String())
	assert.Contains(t, f.publisher.subjects(), models.EventBookingStatusChanged)

	after, err := f.availability.ForDate(ctx, monday)
	require.NoError(t, err)
	assert.False(t, after[2].IsAvailable)
	require.NotNil(t, after[2].BookedBy)
	assert.Equal(t, "Иванов Иван", *after[2].BookedBy)
}

func TestBookingUpdateStatus_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.bookingSvc.UpdateStatus(ctx, 404, models.BookingStatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.bookingSvc.UpdateStatus(ctx, 1, models.BookingStatus("archived"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
