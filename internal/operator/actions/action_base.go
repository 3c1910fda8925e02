package actions

import (
	"context"
	"errors"

	"github.com/finflow/finflow-server/internal/storage"
	"github.com/finflow/finflow-server/internal/storage/sqlconfig"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// requireCategory fails unless the category exists and belongs to userID.
func requireCategory(ctx context.Context, writer *storage.Writer, userID, categoryID int64) error {
	category, err := writer.Categories.FindByID(ctx, categoryID)
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return ErrCategoryNotFound
	}
	return nil
}
