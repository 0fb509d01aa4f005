// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"recommendationService/domain"
	"recommendationService/pkg/migrate"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory database with the schema migrated.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Up(context.Background(), db, migrate.DialectSQLite))

	return db
}

// SeedRecommendations inserts the standard three-record fixture.
func SeedRecommendations(t *testing.T, db *gorm.DB) []domain.Recommendation {
	t.Helper()

	recs := []domain.Recommendation{
		{ID: 1, ParentProductID: 1, RelatedProductID: 2, Type: "x-sell", Priority: 5},
		{ID: 2, ParentProductID: 1, RelatedProductID: 3, Type: "up-sell", Priority: 5},
		{ID: 3, ParentProductID: 2, RelatedProductID: 4, Type: "up-sell", Priority: 5},
	}
	require.NoError(t, db.Create(&recs).Error)

	return recs
}
