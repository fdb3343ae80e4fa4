package config

import (
	"fmt"
	"time"

	"cafe-directory/models"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens the SQLite file at path and migrates the schema.
func OpenDB(path string, log *logrus.Logger) (*gorm.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Cafe{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.WithField("path", path).Info("database connected and migrated")
	return db, nil
}
