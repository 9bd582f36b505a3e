package database

import (
	"fmt"
	"os"
	"time"

	pkgLogger "github.com/kmuchiri/nyumba-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("ENVIRONMENT") != "production" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		// Surface unique-constraint violations as gorm.ErrDuplicatedKey so the
		// payment ingestion pipeline can resolve webhook redelivery races.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Connection pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
