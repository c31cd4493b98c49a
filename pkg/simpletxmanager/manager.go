package simpletxmanager

import (
	"context"
	"database/sql"

	"github.com/m04kA/shelter-booking/pkg/dbmetrics"
	"github.com/m04kA/shelter-booking/pkg/txmanager"
)

// sqlBeginner открывает транзакции на голом *sql.DB
type sqlBeginner struct {
	db *sql.DB
}

func (b sqlBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx, err := b.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &dbmetrics.SqlTxWrapper{Tx: tx}, nil
}

// NewTransactionManager создает менеджер транзакций для *sql.DB без метрик
func NewTransactionManager(db *sql.DB) *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(sqlBeginner{db: db})
}
