package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"travelblog/internal/app/model"
)

const (
	maxRetries    = 10
	retryInterval = 5 * time.Second
)

// Connect opens a GORM connection to Postgres, retrying while the
// database comes up.
func Connect(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	for i := 0; i < maxRetries; i++ {
		logrus.Infof("Connecting to database (attempt %d/%d)", i+1, maxRetries)
		gdb, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			logrus.Warnf("Failed to open database connection: %v. Retrying in %s", err, retryInterval)
			time.Sleep(retryInterval)
			continue
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			logrus.Warnf("Failed to ping database: %v. Retrying in %s", err, retryInterval)
			time.Sleep(retryInterval)
			continue
		}

		logrus.Info("Connected to database")
		return gdb, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d retries", maxRetries)
}

// Migrate creates or updates the schema for every entity.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(model.All()...)
}
