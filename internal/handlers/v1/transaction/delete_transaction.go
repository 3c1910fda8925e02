package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finflow/finflow-server/internal/logging"
)

type DeleteTransactionInput struct {
	Caller
	ID int64 `path:"id" minimum:"1" doc:"Transaction id"`
}

type DeleteAllTransactionsInput struct {
	Caller
}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, userID, id int64) error
	DeleteAllTransactions(ctx context.Context, userID int64) (int64, error)
}

// DeleteTransactionHandler handles DELETE /v1/transaction/{id} and DELETE /v1/transaction.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/v1/transaction/{id}",
		Summary:       "Delete transaction",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handleOne)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-all-transactions",
		Method:        http.MethodDelete,
		Path:          "/v1/transaction",
		Summary:       "Delete all transactions",
		Description:   "Removes every transaction of the caller.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handleAll)
}

func (h *DeleteTransactionHandler) handleOne(ctx context.Context, input *DeleteTransactionInput) (*struct{}, error) {
	if err := h.TransactionService.DeleteTransaction(ctx, input.UserID, input.ID); err != nil {
		return nil, serviceError(ctx, err, "failed to delete transaction")
	}
	return nil, nil
}

func (h *DeleteTransactionHandler) handleAll(ctx context.Context, input *DeleteAllTransactionsInput) (*struct{}, error) {
	deleted, err := h.TransactionService.DeleteAllTransactions(ctx, input.UserID)
	if err != nil {
		return nil, serviceError(ctx, err, "failed to delete transactions")
	}
	logging.AddData(ctx, "transactionsDeleted", deleted)
	return nil, nil
}
