// Package gormstore implements the repository interfaces on top of gorm. The
// same code runs against MySQL, PostgreSQL and the in-memory SQLite used in
// tests.
package gormstore

import (
	"context"

	"gorm.io/gorm"

	"storefront-api/internal/repository"
)

type txKey struct{}

type transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) repository.Transactor {
	return &transactor{db: db}
}

// WithinTransaction joins an outer transaction already carried by ctx instead
// of opening a second one.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or the pool when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
