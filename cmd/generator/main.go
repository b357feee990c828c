package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"icearena/internal/config"
	"icearena/internal/database"
	"icearena/internal/logger"
	"icearena/internal/messaging"
	"icearena/internal/models"
	"icearena/internal/repository"
	"icearena/internal/service"
)

// Generator seeds reference data: hourly time slots and event seat grids.
type Generator struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	services *service.Services
}

func NewGenerator(ctx context.Context, cfg *config.Config) (*Generator, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	g := &Generator{db: db}
	g.repos = repository.NewRepositories(db, repository.WithLockTimeout(cfg.LockTimeout))

	// Без NATS события seats.generated просто не уходят
	var publisher service.Publisher = discardPublisher{}
	cfg.NATS.ClientID = "icearena-generator"
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, events will not be published", zap.Error(err))
	} else {
		g.nats = natsClient
		publisher = natsClient
	}

	g.services = service.NewServices(g.repos, publisher, nil)
	return g, nil
}

func (g *Generator) Close() {
	if g.nats != nil {
		_ = g.nats.Close()
	}
	_ = g.db.Close()
}

// priceBands - цены часовых слотов по времени суток
var priceBands = []struct {
	from, to int
	price    models.Money
}{
	{from: 8, to: 12, price: models.Rubles(3000)},
	{from: 12, to: 18, price: models.Rubles(4000)},
	{from: 18, to: 22, price: models.Rubles(5000)},
}

func hourlySlots() []models.TimeSlot {
	var slots []models.TimeSlot
	for _, band := range priceBands {
		for hour := band.from; hour < band.to; hour++ {
			slots = append(slots, models.TimeSlot{
				Start:    models.Clock(hour, 0),
				End:      models.Clock(hour+1, 0),
				Price:    band.price,
				IsActive: true,
			})
		}
	}
	return slots
}

func (g *Generator) SeedTimeSlots(ctx context.Context, replace bool) error {
	created, err := g.repos.TimeSlots.Seed(ctx, hourlySlots(), replace)
	if err != nil {
		return fmt.Errorf("failed to seed time slots: %w", err)
	}

	logger.Get().Info("Time slots seeded", zap.Int("created", created), zap.Bool("replace", replace))
	return nil
}

func (g *Generator) GenerateSeats(ctx context.Context, eventID int64, preset string) error {
	layout, err := service.LayoutFromRequest(&models.GenerateSeatsRequest{Preset: preset})
	if err != nil {
		return err
	}

	res, err := g.services.Seats.Generate(ctx, eventID, layout)
	if err != nil {
		return fmt.Errorf("failed to generate seats for event %d: %w", eventID, err)
	}

	fmt.Printf("schema %d\t%d seats\n", res.SchemaID, res.Seats)
	return nil
}

type discardPublisher struct{}

func (discardPublisher) Publish(string, interface{}) error { return nil }

func withGenerator(cfg *config.Config, action func(c *cli.Context, g *Generator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		g, err := NewGenerator(c.Context, cfg)
		if err != nil {
			return err
		}
		defer g.Close()

		return action(c, g)
	}
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	app := &cli.App{
		Name:  "generator",
		Usage: "Seed arena reference data",
		Commands: []*cli.Command{
			{
				Name:  "timeslots",
				Usage: "seed hourly ice time slots from 08:00 to 22:00",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "replace", Usage: "delete existing slots first"},
				},
				Action: withGenerator(cfg, func(c *cli.Context, g *Generator) error {
					return g.SeedTimeSlots(c.Context, c.Bool("replace"))
				}),
			},
			{
				Name:  "seats",
				Usage: "replace the seat grid of an event",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "event", Usage: "event ID", Required: true},
					&cli.StringFlag{Name: "preset", Usage: "small, medium or large", Value: "medium"},
				},
				Action: withGenerator(cfg, func(c *cli.Context, g *Generator) error {
					return g.GenerateSeats(c.Context, c.Int64("event"), c.String("preset"))
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("Generator failed", zap.Error(err))
	}
}
