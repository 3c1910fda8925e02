package actions

import (
	"context"
	"errors"

	"github.com/finflow/finflow-server/internal/storage"
	"github.com/finflow/finflow-server/internal/storage/sqlconfig"
	"github.com/finflow/finflow-server/internal/storage/transaction"
)

// UpdateTransaction applies a partial update to a transaction owned by UserID. A new
// category must belong to the same user.
type UpdateTransaction struct {
	UserID int64
	ID     int64
	Update transaction.TransactionUpdate

	Result *transaction.Transaction
	IAction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := requireOwnedTransaction(ctx, writer, u.UserID, u.ID); err != nil {
		return err
	}

	if categoryID, ok := u.Update.CategoryID.Get(); ok {
		if err := requireCategory(ctx, writer, u.UserID, categoryID); err != nil {
			return err
		}
	}

	if err := writer.Transactions.Update(ctx, u.ID, &u.Update); err != nil {
		return err
	}

	var err error
	u.Result, err = writer.Transactions.FindByID(ctx, u.ID)
	return err
}

// requireOwnedTransaction locks the row and reports another user's row as missing.
func requireOwnedTransaction(ctx context.Context, writer *storage.Writer, userID, id int64) error {
	existing, err := writer.Transactions.FindByIDForUpdate(ctx, id)
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return ErrTransactionNotFound
	}
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrTransactionNotFound
	}
	return nil
}
