package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"icearena/internal/logger"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func (db *DB) RunMigrations(ctx context.Context) error {
	logger.Get().Info("Running database migrations...")

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	logger.Get().Info("All migrations completed successfully")
	return nil
}
