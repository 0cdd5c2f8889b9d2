// Package txmanager управляет сериализуемыми транзакциями.
// Активная транзакция передается в репозитории через context
// (см. dbmetrics.WithExecutor / dbmetrics.GetExecutor).
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrBeginTx возвращается, когда не удалось начать транзакцию
	// (нет свободного соединения, БД недоступна). Это системная ошибка:
	// вызывающая сторона должна прервать текущий прогон, а не продолжать.
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit возвращается при ошибке коммита
	ErrCommit = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner интерфейс для начала транзакций (*sql.DB, *dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TransactionManager менеджер сериализуемых транзакций
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри транзакции с уровнем изоляции SERIALIZABLE.
// Транзакция кладется в context: репозитории, вызванные внутри fn,
// автоматически выполняют запросы в ней. При ошибке fn транзакция
// откатывается и ошибка возвращается без изменений.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return do(ctx, m.db, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func do(ctx context.Context, db TxBeginner, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	txCtx := withTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}

	return nil
}
