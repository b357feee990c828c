package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"icearena/internal/cache"
	"icearena/internal/config"
	"icearena/internal/database"
	"icearena/internal/handlers"
	"icearena/internal/logger"
	"icearena/internal/messaging"
	"icearena/internal/middleware"
	"icearena/internal/repository"
	"icearena/internal/service"
	"icearena/internal/validation"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.ValkeyClient
	services *service.Services
}

// NewServer создает новый экземпляр сервера
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	// Устанавливаем режим Gin
	gin.SetMode(cfg.GinMode)

	if err := validation.RegisterBindings(); err != nil {
		return nil, err
	}

	// Подключаемся к базе данных
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	// Запускаем миграции
	if err := db.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Подключаемся к NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	// Кэш доступности необязателен: без него ответы считаются по базе
	var availabilityCache service.AvailabilityCache
	valkeyClient, err := cache.NewValkeyClient(ctx, cfg.Cache)
	if err != nil {
		logger.Get().Warn("Availability cache disabled", zap.Error(err))
		valkeyClient = nil
	} else {
		availabilityCache = valkeyClient
	}

	// Создаем репозитории и сервисы
	repos := repository.NewRepositories(db, repository.WithLockTimeout(cfg.LockTimeout))
	services := service.NewServices(repos, natsClient, availabilityCache)

	server := &Server{
		router:   gin.New(),
		config:   cfg,
		db:       db,
		nats:     natsClient,
		cache:    valkeyClient,
		services: services,
	}

	server.setupRoutes()

	return server, nil
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Logger())
	if s.config.MetricsEnabled {
		s.router.Use(middleware.Metrics())
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api", middleware.Timeout(s.config.RequestTimeout), middleware.Identity())
	h.RegisterRoutes(api)

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	db := s.db.HealthCheck(c.Request.Context())
	s.db.WarnOnPoolPressure()

	status := http.StatusOK
	if db.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	cacheStatus := "disabled"
	if s.cache != nil {
		cacheStatus = "healthy"
		if err := s.cache.Ping(c.Request.Context()); err != nil {
			cacheStatus = "unhealthy"
		}
	}

	c.JSON(status, gin.H{
		"status":   db.Status,
		"service":  "icearena-api",
		"version":  "1.0.0",
		"database": db,
		"cache":    cacheStatus,
	})
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	log := logger.Get()

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", zap.Error(err))
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			log.Error("Error closing cache connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
			return err
		}
	}

	return nil
}
