package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medcare/config"
	"medcare/pkg/database"
	"medcare/pkg/logger"
)

// app holds what every command needs before it does its own work.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *pgxpool.Pool
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := database.NewPostgresDB(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return nil, err
	}

	return &app{cfg: cfg, logger: log, db: db}, nil
}

func (a *app) close() {
	a.db.Close()
	_ = a.logger.Sync()
}
