package database

import (
	"context"
	"time"

	"go.uber.org/zap"

	"icearena/internal/logger"
)

type PoolStats struct {
	MaxOpenConns      int           `json:"max_open_connections"`
	OpenConns         int           `json:"open_connections"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

type HealthCheck struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
	Stats        PoolStats     `json:"stats"`
	Timestamp    time.Time     `json:"timestamp"`
}

func (db *DB) GetPoolStats() PoolStats {
	stats := db.Stats()
	return PoolStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

func (db *DB) HealthCheck(ctx context.Context) HealthCheck {
	start := time.Now()
	healthCheck := HealthCheck{
		Timestamp: start,
		Stats:     db.GetPoolStats(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := db.PingContext(pingCtx)
	healthCheck.ResponseTime = time.Since(start)

	if err != nil {
		healthCheck.Status = "unhealthy"
		healthCheck.Error = err.Error()
		logger.WithContext(ctx).Error("Database health check failed", zap.Error(err))
	} else {
		healthCheck.Status = "healthy"
	}

	return healthCheck
}

// WarnOnPoolPressure logs when ticket purchases start queueing for connections.
// Seat locks are held for the whole purchase transaction, so a saturated pool shows up here first.
func (db *DB) WarnOnPoolPressure() {
	stats := db.Stats()
	l := logger.Get()

	if stats.MaxOpenConnections > 0 && stats.InUse > int(float64(stats.MaxOpenConnections)*0.9) {
		l.Warn("High connection usage detected",
			zap.Int("in_use", stats.InUse), zap.Int("max_open", stats.MaxOpenConnections))
	}

	if stats.WaitCount > 0 && stats.WaitDuration > time.Second {
		l.Warn("High database wait times detected",
			zap.Int64("wait_count", stats.WaitCount), zap.Duration("wait_duration", stats.WaitDuration))
	}
}
