package actions

import (
	"context"

	"github.com/finflow/finflow-server/internal/storage"
	"github.com/finflow/finflow-server/internal/storage/transaction"
)

// CreateTransaction inserts a transaction for Create.UserID. Result holds the stored row.
type CreateTransaction struct {
	Create transaction.TransactionCreate

	Result *transaction.Transaction
	IAction
}

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := requireCategory(ctx, writer, c.Create.UserID, c.Create.CategoryID); err != nil {
		return err
	}

	id, err := writer.Transactions.Insert(ctx, &c.Create)
	if err != nil {
		return err
	}

	c.Result, err = writer.Transactions.FindByID(ctx, id)
	return err
}
