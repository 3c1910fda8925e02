package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/finflow/finflow-server/internal/logging"
	"github.com/finflow/finflow-server/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              int64   `json:"id" doc:"Transaction id"`
	Name            string  `json:"name" doc:"Name of the transaction"`
	Description     *string `json:"description,omitempty" doc:"Optional description"`
	Price           string  `json:"price" doc:"Decimal price with two decimal places"`
	CategoryID      int64   `json:"category_id" doc:"Category id"`
	CategoryName    string  `json:"category_name" doc:"Category display name"`
	Currency        string  `json:"currency" doc:"Canonical currency code"`
	TransactionType string  `json:"transaction_type" enum:"income,spending" doc:"Direction of the money flow"`
	CreatedAt       string  `json:"created_at" doc:"RFC3339 timestamp"`
}

// Caller is the user a request acts for. The header is set by the credential layer in front
// of this service.
type Caller struct {
	UserID int64 `header:"X-User-ID" required:"true" minimum:"1" doc:"Authenticated user id"`
}

func toTransaction(tx *service.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID,
		Name:            tx.Name,
		Description:     tx.Description,
		Price:           tx.Price.StringFixed(2),
		CategoryID:      tx.CategoryID,
		CategoryName:    tx.CategoryName,
		Currency:        tx.Currency.String(),
		TransactionType: string(tx.Type),
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339Nano),
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, huma.NewError(http.StatusUnprocessableEntity, "invalid price")
	}
	return price, nil
}

// serviceError converts a service failure into an HTTP error. Internal details are logged,
// the client only sees fallback.
func serviceError(ctx context.Context, err error, fallback string) error {
	switch service.KindOf(err) {
	case service.KindInvalidInput:
		return huma.NewError(http.StatusUnprocessableEntity, service.MessageOf(err, fallback))
	case service.KindNotFound:
		return huma.NewError(http.StatusNotFound, service.MessageOf(err, fallback))
	case service.KindConflict:
		return huma.NewError(http.StatusConflict, service.MessageOf(err, fallback))
	default:
		logging.AddData(ctx, "error", err.Error())
		return huma.NewError(http.StatusInternalServerError, fallback)
	}
}
