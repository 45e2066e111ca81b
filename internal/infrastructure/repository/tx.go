package repository

import (
	"context"

	domainRepo "github.com/bazarpos/ventas-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

// injectTx stores the transaction handle in the context so repositories
// called inside a unit of work all run on the same transaction.
func injectTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// conn resolves the database handle for ctx: the in-flight transaction if
// one is present, the root handle otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor backed by database transactions
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(injectTx(ctx, tx))
	})
}
