package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finflow/finflow-server/internal/service"
)

// UpdateTransactionBody holds the fields to change. Absent fields keep their value and an
// empty description clears it.
type UpdateTransactionBody struct {
	Name            *string `json:"name,omitempty" minLength:"1" maxLength:"50"`
	Description     *string `json:"description,omitempty" maxLength:"250"`
	Price           *string `json:"price,omitempty" doc:"Positive decimal price, at most two decimal places"`
	CategoryID      *int64  `json:"category_id,omitempty" minimum:"1"`
	Currency        *string `json:"currency,omitempty" doc:"Currency code or alias"`
	TransactionType *string `json:"transaction_type,omitempty" enum:"income,spending"`
	CreatedAt       *string `json:"created_at,omitempty" doc:"Free-form date"`
}

type UpdateTransactionInput struct {
	Caller
	ID   int64 `path:"id" minimum:"1" doc:"Transaction id"`
	Body UpdateTransactionBody
}

type UpdateTransactionOutput struct {
	Body Transaction
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, userID, id int64, patch service.TransactionPatch) (*service.Transaction, error)
}

// UpdateTransactionHandler handles PATCH /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Changes only the fields present in the body.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseUpdateTransactionInput(input *UpdateTransactionInput) (service.TransactionPatch, error) {
	body := input.Body
	patch := service.TransactionPatch{
		Name:        body.Name,
		Description: body.Description,
		CategoryID:  body.CategoryID,
		Currency:    body.Currency,
		CreatedAt:   body.CreatedAt,
	}
	if body.Price != nil {
		price, err := parsePrice(*body.Price)
		if err != nil {
			return service.TransactionPatch{}, err
		}
		patch.Price = &price
	}
	if body.TransactionType != nil {
		kind := service.TransactionType(*body.TransactionType)
		patch.Type = &kind
	}
	return patch, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	patch, err := parseUpdateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	updated, err := h.TransactionService.UpdateTransaction(ctx, input.UserID, input.ID, patch)
	if err != nil {
		return nil, serviceError(ctx, err, "failed to update transaction")
	}
	return &UpdateTransactionOutput{Body: toTransaction(updated)}, nil
}
