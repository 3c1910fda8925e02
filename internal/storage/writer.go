package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/finflow/finflow-server/internal/storage/category"
	"github.com/finflow/finflow-server/internal/storage/transaction"
)

// Committer ends a database transaction.
type Committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer exposes the tables inside one database transaction.
type Writer struct {
	tx           Committer
	Transactions transaction.ITransactionTable
	Categories   category.ICategoryTable
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:           tx,
		Transactions: transaction.NewTable(tx),
		Categories:   category.NewTable(tx),
	}
}

// NewWriterWith assembles a Writer from arbitrary parts, for callers that bring their own
// tables.
func NewWriterWith(tx Committer, transactions transaction.ITransactionTable, categories category.ICategoryTable) *Writer {
	return &Writer{
		tx:           tx,
		Transactions: transactions,
		Categories:   categories,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
