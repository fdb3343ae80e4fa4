package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"cafe-directory/config"
	"cafe-directory/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := config.OpenDB(filepath.Join(t.TempDir(), "cafes.db"), log)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func joes() models.CafeFields {
	return models.CafeFields{
		Name:        "Joe's",
		Location:    "Town",
		MapURL:      "http://x",
		ImgURL:      "http://y",
		Seats:       "10",
		CoffeePrice: "3",
	}
}

func mustCreateCafe(t *testing.T, s *CafeStore, fields models.CafeFields) *models.Cafe {
	t.Helper()
	cafe, err := s.Create(context.Background(), fields, nil)
	require.NoError(t, err)
	return cafe
}
