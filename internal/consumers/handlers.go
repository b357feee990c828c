package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/stan.go"
	"go.uber.org/zap"

	"icearena/internal/logger"
	"icearena/internal/metrics"
	"icearena/internal/models"
)

// AvailabilityInvalidator drops the cached availability of a date.
type AvailabilityInvalidator interface {
	InvalidateAvailability(ctx context.Context, date models.Date) error
}

type Handlers struct {
	cache   AvailabilityInvalidator
	timeout time.Duration
}

// NewHandlers creates the subject handlers. cache may be nil.
func NewHandlers(cache AvailabilityInvalidator) *Handlers {
	return &Handlers{
		cache:   cache,
		timeout: 5 * time.Second,
	}
}

// wrap acks the message only when handle succeeds, otherwise NATS Streaming redelivers it.
func (h *Handlers) wrap(subject string, handle func(ctx context.Context, data []byte) error) stan.MsgHandler {
	return func(m *stan.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		log := logger.Get().With(zap.String("subject", subject), zap.Uint64("sequence", m.Sequence))
		if err := handle(ctx, m.Data); err != nil {
			metrics.MessagesProcessingFailed.WithLabelValues(subject).Inc()
			log.Error("Failed to process message", zap.Error(err))
			if m.Redelivered {
				// Повторная доставка не поможет битому сообщению
				_ = m.Ack()
			}
			return
		}

		metrics.MessagesProcessed.WithLabelValues(subject).Inc()
		if err := m.Ack(); err != nil {
			log.Error("Failed to ack message", zap.Error(err))
		}
	}
}

func (h *Handlers) HandleBookingCreated(ctx context.Context, data []byte) error {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal booking created event: %w", err)
	}

	logger.WithContext(ctx).Info("Processing booking created event",
		zap.Int64("booking_id", event.BookingID),
		zap.String("date", event.Date.String()),
		zap.String("time_start", event.Start.String()),
		zap.String("time_end", event.End.String()))
	return nil
}

// HandleBookingStatusChanged keeps the cache coherent for writers other than the API.
func (h *Handlers) HandleBookingStatusChanged(ctx context.Context, data []byte) error {
	var event models.BookingStatusChangedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal booking status changed event: %w", err)
	}

	logger.WithContext(ctx).Info("Processing booking status changed event",
		zap.Int64("booking_id", event.BookingID),
		zap.String("old_status", string(event.OldStatus)),
		zap.String("new_status", string(event.NewStatus)))

	if h.cache == nil {
		return nil
	}
	if err := h.cache.InvalidateAvailability(ctx, event.Date); err != nil {
		return fmt.Errorf("failed to invalidate availability for %s: %w", event.Date, err)
	}
	return nil
}

func (h *Handlers) HandleTicketIssued(ctx context.Context, data []byte) error {
	var event models.TicketIssuedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal ticket issued event: %w", err)
	}

	logger.WithContext(ctx).Info("Processing ticket issued event",
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("event_id", event.EventID),
		zap.Int64("seat_id", event.SeatID),
		zap.String("price", event.Price.String()))
	return nil
}

func (h *Handlers) HandleSeatsGenerated(ctx context.Context, data []byte) error {
	var event models.SeatsGeneratedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal seats generated event: %w", err)
	}

	logger.WithContext(ctx).Info("Processing seats generated event",
		zap.Int64("event_id", event.EventID),
		zap.Int64("schema_id", event.SchemaID),
		zap.Int("seats", event.Seats))
	return nil
}
