package database

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/vladimiradmaev/glucose-logger/internal/config"
	"github.com/vladimiradmaev/glucose-logger/internal/database/migrations"
	"github.com/vladimiradmaev/glucose-logger/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GlucoseReading is the persisted row shape of a reading. IDs are
// opaque strings assigned client-side when the store did not supply one.
type GlucoseReading struct {
	ID        string `gorm:"primaryKey"`
	Value     float64
	Timestamp time.Time `gorm:"index"`
	Period    string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get the directory of the current file
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("failed to get current file path")
	}
	migrationsDir := filepath.Join(filepath.Dir(filename), "migrations")

	// Load and run migrations
	if err := migrations.LoadSQLMigrations(db, migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := db.AutoMigrate(&GlucoseReading{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	logger.Info("Database connection established and migrations completed")
	return db, nil
}
