package main

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"osas-connect/pkg/database"
)

type migrationRun struct {
	db     *sql.DB
	logger *zap.Logger
}

// withSQLDB opens the database without touching Redis or mail
func withSQLDB(root *rootOptions, fn func(migrationRun) error) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	return fn(migrationRun{db: sqlDB, logger: logger})
}
