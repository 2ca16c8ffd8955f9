package database

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-api/internal/config"
	"storefront-api/internal/domain"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestMigratePingClose(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	for _, m := range domain.AllModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	// Running it again is a no-op.
	require.NoError(t, Migrate(db))

	require.NoError(t, Ping(context.Background(), db))
	require.NoError(t, Close(db))
	assert.Error(t, Ping(context.Background(), db))
}
