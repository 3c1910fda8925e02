package actions

import (
	"context"

	"github.com/finflow/finflow-server/internal/storage"
)

type DeleteTransaction struct {
	UserID int64
	ID     int64
	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := requireOwnedTransaction(ctx, writer, d.UserID, d.ID); err != nil {
		return err
	}
	return writer.Transactions.Delete(ctx, d.ID)
}

// DeleteAllTransactions removes every transaction of UserID. Deleted holds the count.
type DeleteAllTransactions struct {
	UserID int64

	Deleted int64
	IAction
}

func (d *DeleteAllTransactions) Perform(ctx context.Context, writer *storage.Writer) error {
	var err error
	d.Deleted, err = writer.Transactions.DeleteByUser(ctx, d.UserID)
	return err
}
