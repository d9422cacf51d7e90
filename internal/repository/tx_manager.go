package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type contextKey string

const (
	txKey     contextKey = "gorm_tx"
	commitKey contextKey = "tx_after_commit"
)

// TransactionManager manages database transactions via context injection.
type TransactionManager interface {
	// RunInTx runs fn inside a transaction. A call made with a context that
	// already carries a transaction joins it instead of opening a new one.
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

type commitHooks struct {
	fns []func()
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}

	hooks := &commitHooks{}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		txCtx = context.WithValue(txCtx, commitKey, hooks)
		return fn(txCtx)
	})
	if err != nil {
		return err
	}
	for _, h := range hooks.fns {
		h()
	}
	return nil
}

// AfterCommit schedules fn to run once the surrounding transaction commits.
// Outside a transaction fn runs immediately. Hooks are dropped on rollback.
func AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(commitKey).(*commitHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn()
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
