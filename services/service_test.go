package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opentalk/forum/models"
	"github.com/opentalk/forum/stores"
)

// newTestDB opens a throwaway SQLite database with the full schema migrated,
// mirroring the production gorm configuration (TranslateError included).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "forum_test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Thread{}, &models.Post{}))
	return db
}

// seedCategories runs the bootstrap seeding and returns the inserted rows.
func seedCategories(t *testing.T, db *gorm.DB) []models.Category {
	t.Helper()

	store := stores.NewCategoryStore(db)
	require.NoError(t, store.Seed())
	categories, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, categories, len(models.SeedCategories))
	return categories
}
