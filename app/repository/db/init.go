package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"stock-alert-service/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func NewPostgres(cfg config.DbConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DbName,
		cfg.SSLMode,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

// Migrate applies pending goose migrations from dir. An empty dir skips
// migration entirely, for deployments that manage the schema out of band.
func Migrate(ctx context.Context, db *sql.DB, dir string) error {
	if dir == "" {
		slog.InfoContext(ctx, "[Migrate] no migrations dir configured, skipping")
		return nil
	}

	// Route goose output through the structured logger.
	goose.SetLogger(gooseSlogAdapter{})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

type gooseSlogAdapter struct{}

func (gooseSlogAdapter) Fatalf(format string, v ...any) {
	slog.Error(fmt.Sprintf("[Migrate] "+format, v...))
}

func (gooseSlogAdapter) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf("[Migrate] "+format, v...))
}
