package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "icearena/internal/errors"
	"icearena/internal/logger"
	"icearena/internal/metrics"
	"icearena/internal/models"
)

const (
	MinBookingDuration      = time.Hour
	MaxBookingDuration      = 8 * time.Hour
	ApprovalBookingDuration = 3 * time.Hour
)

type BookingService struct {
	bookings  BookingStore
	occupancy *OccupancyAggregator
	publisher Publisher
	cache     AvailabilityCache
}

func NewBookingService(bookings BookingStore, occupancy *OccupancyAggregator, publisher Publisher, cache AvailabilityCache) *BookingService {
	return &BookingService{
		bookings:  bookings,
		occupancy: occupancy,
		publisher: publisher,
		cache:     cache,
	}
}

// Validate проверяет интервал аренды и возвращает длительность в часах.
// Пересечения с другими заявками не проверяются.
func (s *BookingService) Validate(ctx context.Context, interval models.TimeInterval) (float64, error) {
	duration, err := s.validate(ctx, interval)
	if err != nil {
		metrics.BookingValidationFailures.WithLabelValues(apperrors.Code(err)).Inc()
		return 0, err
	}
	return duration, nil
}

func (s *BookingService) validate(ctx context.Context, interval models.TimeInterval) (float64, error) {
	duration := interval.Duration()

	if duration < MinBookingDuration {
		return 0, apperrors.Wrap(apperrors.ErrInvalidDuration, "Минимальная длительность аренды - 1 час")
	}
	if duration > MaxBookingDuration {
		return 0, apperrors.Wrap(apperrors.ErrInvalidDuration, "Максимальная длительность аренды - 8 часов")
	}
	if duration >= ApprovalBookingDuration {
		return 0, apperrors.Wrap(apperrors.ErrRequiresApproval, "Для аренды более 3 часов требуется согласование")
	}

	occ, err := s.occupancy.For(ctx, interval.Date)
	if err != nil {
		return 0, err
	}
	if _, busy := firstOverlap(occ.Schedules, interval); busy {
		return 0, apperrors.Wrap(apperrors.ErrScheduleConflict, "Время занято расписанием секций")
	}
	if _, busy := firstOverlap(occ.Events, interval); busy {
		return 0, apperrors.Wrap(apperrors.ErrEventConflict, "Время занято событием")
	}

	return duration.Hours(), nil
}

// Create validates the request and stores it as a pending booking.
func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest, userID *int64) (*models.IceBooking, error) {
	interval := models.TimeInterval{Date: *req.Date, Start: *req.Start, End: *req.End}

	durationHours, err := s.Validate(ctx, interval)
	if err != nil {
		return nil, err
	}

	booking := &models.IceBooking{
		UserID:        userID,
		Date:          interval.Date,
		Start:         interval.Start,
		End:           interval.End,
		DurationHours: durationHours,
		Name:          req.Name,
		Phone:         req.Phone,
		Message:       req.Message,
		Status:        models.BookingStatusPending,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidate(ctx, booking.Date)

	event := models.BookingCreatedEvent{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		Date:          booking.Date,
		Start:         booking.Start,
		End:           booking.End,
		DurationHours: booking.DurationHours,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(models.EventBookingCreated, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			zap.Error(err),
			zap.Int64("booking_id", booking.ID),
			zap.String("event_type", models.EventBookingCreated))
	}

	return booking, nil
}

// UpdateStatus - смена статуса заявки администратором. Повторная проверка интервала не выполняется.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) (*models.IceBooking, error) {
	if !status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "Неизвестный статус заявки: %s", status)
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "Заявка не найдена")
	}

	oldStatus := booking.Status
	if oldStatus == status {
		return booking, nil
	}

	if err := s.bookings.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	booking.Status = status

	log := logger.WithContext(ctx).With(zap.Int64("booking_id", id))
	log.Info("Booking status changed",
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)))

	s.invalidate(ctx, booking.Date)

	event := models.BookingStatusChangedEvent{
		BookingID: id,
		Date:      booking.Date,
		OldStatus: oldStatus,
		NewStatus: status,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventBookingStatusChanged, event); err != nil {
		log.Error("Failed to publish booking status changed event",
			zap.Error(err),
			zap.String("event_type", models.EventBookingStatusChanged))
	}

	return booking, nil
}

func (s *BookingService) invalidate(ctx context.Context, date models.Date) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailability(ctx, date); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate availability cache",
			zap.Error(err), zap.String("date", date.String()))
	}
}

// List returns the requester's own bookings, newest first.
func (s *BookingService) List(ctx context.Context, userID int64) ([]models.IceBooking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}
