package consumers

import (
	"context"

	"github.com/nats-io/stan.go"
	"go.uber.org/zap"

	"icearena/internal/cache"
	"icearena/internal/config"
	"icearena/internal/logger"
	"icearena/internal/messaging"
	"icearena/internal/models"
)

const queueGroup = "consumers"

type ConsumerService struct {
	nats          *messaging.NATSClient
	cache         *cache.ValkeyClient
	handlers      *Handlers
	subscriptions []stan.Subscription
}

func NewConsumerService(ctx context.Context, cfg *config.Config) (*ConsumerService, error) {
	// Connect to NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	cs := &ConsumerService{nats: natsClient}

	valkeyClient, err := cache.NewValkeyClient(ctx, cfg.Cache)
	if err != nil {
		logger.Get().Warn("Availability cache unavailable, invalidation disabled", zap.Error(err))
		cs.handlers = NewHandlers(nil)
	} else {
		cs.cache = valkeyClient
		cs.handlers = NewHandlers(valkeyClient)
	}

	return cs, nil
}

// routes maps each subject to its handler.
func (cs *ConsumerService) routes() map[string]func(ctx context.Context, data []byte) error {
	return map[string]func(ctx context.Context, data []byte) error{
		models.EventBookingCreated:       cs.handlers.HandleBookingCreated,
		models.EventBookingStatusChanged: cs.handlers.HandleBookingStatusChanged,
		models.EventTicketIssued:         cs.handlers.HandleTicketIssued,
		models.EventSeatsGenerated:       cs.handlers.HandleSeatsGenerated,
	}
}

func (cs *ConsumerService) Start() error {
	logger.Get().Info("Starting NATS consumers...")

	for subject, handle := range cs.routes() {
		sub, err := cs.nats.SubscribeQueue(subject, queueGroup, cs.handlers.wrap(subject, handle))
		if err != nil {
			return err
		}
		cs.subscriptions = append(cs.subscriptions, sub)
	}

	logger.Get().Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	log := logger.WithContext(ctx)
	log.Info("Shutting down consumer service...")

	// Close, not Unsubscribe: durable queue subscriptions must survive restarts
	for _, sub := range cs.subscriptions {
		if err := sub.Close(); err != nil {
			log.Error("Error closing subscription", zap.Error(err))
		}
	}

	if cs.cache != nil {
		if err := cs.cache.Close(); err != nil {
			log.Error("Error closing cache connection", zap.Error(err))
		}
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", zap.Error(err))
			return err
		}
	}

	return nil
}
