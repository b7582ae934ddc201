package postgres

import (
	"fmt"

	"avgspeed/internal/config"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and migrates the report table
func Open(url string) (*gorm.DB, error) {
	// Configure GORM logger with higher slow SQL threshold
	gormLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold: config.PostgresSlowThreshold,
			LogLevel:      logger.Warn,
		},
	)

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// AutoMigrate models
	if err := db.AutoMigrate(&ReportPG{}); err != nil {
		return nil, fmt.Errorf("failed to migrate report model: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}
