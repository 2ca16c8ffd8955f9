// Package testdb opens throwaway in-memory SQLite databases with the full
// schema migrated, plus a few fixture helpers. Only tests import it.
package testdb

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-api/internal/domain"
)

// Open returns a migrated database private to t. The pool holds a single
// connection so concurrent transactions queue instead of failing with
// SQLITE_BUSY.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.AllModels()...))
	return db
}

func User(t testing.TB, db *gorm.DB, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Test User", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Category(t testing.TB, db *gorm.DB, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func Product(t testing.TB, db *gorm.DB, categoryID uint64, name, price string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		CategoryID:    categoryID,
	}
	require.NoError(t, db.Omit("Category").Create(p).Error)
	return p
}

func Stock(t testing.TB, db *gorm.DB, productID uint64) int {
	t.Helper()
	var p domain.Product
	require.NoError(t, db.Unscoped().First(&p, productID).Error)
	return p.StockQuantity
}

func Count(t testing.TB, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
