package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finflow/finflow-server/internal/currency"
	"github.com/finflow/finflow-server/internal/storage/transaction"
)

type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeSpending TransactionType = "spending"
	// TypeAll only appears in list filters.
	TypeAll TransactionType = "all"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID           int64
	Name         string
	Description  *string
	Price        decimal.Decimal
	CategoryID   int64
	CategoryName string
	Currency     currency.Code
	Type         TransactionType
	CreatedAt    time.Time
}

// TransactionCreate carries client input. Currency and CreatedAt are free-form text and
// default to the base currency and the current time.
type TransactionCreate struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	CategoryID  int64
	Currency    string
	Type        TransactionType
	CreatedAt   string
}

// TransactionPatch changes only its non-nil fields. An empty Description clears it.
type TransactionPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *int64
	Currency    *string
	Type        *TransactionType
	CreatedAt   *string
}

// TransactionCursor is the (created_at, id) of the last item of a page.
type TransactionCursor struct {
	CreatedAt time.Time
	ID        int64
}

type ListQuery struct {
	CategoryID *int64
	Type       TransactionType
	Start      string
	End        string
	Limit      int
	Cursor     *TransactionCursor
}

type TransactionPage struct {
	Items      []Transaction
	NextCursor *TransactionCursor
	HasMore    bool
}

type TotalsQuery struct {
	Start    string
	End      string
	Currency string
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description.Ptr(),
		Price:        row.Price,
		CategoryID:   row.CategoryID,
		CategoryName: row.CategoryName,
		Currency:     currency.Code(row.Currency),
		Type:         TransactionType(row.Kind),
		CreatedAt:    row.CreatedAt,
	}
}
