package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finflow/finflow-server/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Name            string  `json:"name" minLength:"1" maxLength:"50" doc:"Name of the transaction"`
	Description     *string `json:"description,omitempty" maxLength:"250" doc:"Optional description"`
	Price           string  `json:"price" doc:"Positive decimal price, at most two decimal places"`
	CategoryID      int64   `json:"category_id" minimum:"1" doc:"Category id owned by the caller"`
	Currency        string  `json:"currency,omitempty" doc:"Currency code or alias, defaults to UAH"`
	TransactionType string  `json:"transaction_type,omitempty" enum:"income,spending" doc:"Defaults to spending"`
	CreatedAt       string  `json:"created_at,omitempty" doc:"Free-form date, defaults to now"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Caller
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body Transaction
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, userID int64, create service.TransactionCreate) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Creates a new transaction for the caller.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses the API input into a service create request.
// Currency and date text are normalized by the service.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.TransactionCreate, error) {
	price, err := parsePrice(input.Body.Price)
	if err != nil {
		return service.TransactionCreate{}, err
	}
	return service.TransactionCreate{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Price:       price,
		CategoryID:  input.Body.CategoryID,
		Currency:    input.Body.Currency,
		Type:        service.TransactionType(input.Body.TransactionType),
		CreatedAt:   input.Body.CreatedAt,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	create, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	created, err := h.TransactionService.CreateTransaction(ctx, input.UserID, create)
	if err != nil {
		return nil, serviceError(ctx, err, "failed to create transaction")
	}

	return &CreateTransactionOutput{Body: toTransaction(created)}, nil
}
