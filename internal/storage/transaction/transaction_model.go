package transaction

import (
	"context"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/aarondl/opt/omit"
	"github.com/aarondl/opt/omitnull"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome   Kind = "income"
	KindSpending Kind = "spending"
)

// Transaction represents a transaction record joined with its category name.
type Transaction struct {
	ID           int64            `db:"id"`
	Name         string           `db:"name"`
	Description  null.Val[string] `db:"description"`
	Price        decimal.Decimal  `db:"price"`
	UserID       int64            `db:"user_id"`
	CategoryID   int64            `db:"category_id"`
	CategoryName string           `db:"category_name"`
	Kind         Kind             `db:"transaction_type"`
	Currency     string           `db:"currency"`
	CreatedAt    time.Time        `db:"created_at"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	Name        string
	Description null.Val[string]
	Price       decimal.Decimal
	UserID      int64
	CategoryID  int64
	Kind        Kind
	Currency    string
	CreatedAt   time.Time
}

// TransactionUpdate holds the columns to change. Unset fields are left alone.
type TransactionUpdate struct {
	Name        omit.Val[string]
	Description omitnull.Val[string]
	Price       omit.Val[decimal.Decimal]
	CategoryID  omit.Val[int64]
	Kind        omit.Val[Kind]
	Currency    omit.Val[string]
	CreatedAt   omit.Val[time.Time]
}

func (u *TransactionUpdate) IsEmpty() bool {
	return u.Name.IsUnset() && u.Description.IsUnset() && u.Price.IsUnset() &&
		u.CategoryID.IsUnset() && u.Kind.IsUnset() && u.Currency.IsUnset() && u.CreatedAt.IsUnset()
}

// Cursor is the (created_at, id) position of the last row of a page.
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// TransactionFilter specifies filters for listing transactions. Zero time bounds are
// unbounded.
type TransactionFilter struct {
	UserID       int64
	CategoryID   *int64
	Kind         *Kind
	CreatedFrom  time.Time
	CreatedUntil time.Time
	After        *Cursor
	Limit        int
}

// TotalsFilter selects the rows that feed a report.
type TotalsFilter struct {
	UserID       int64
	CreatedFrom  time.Time
	CreatedUntil time.Time
}

// Group is the summed price of one category, kind and currency.
type Group struct {
	Category string          `db:"category"`
	Kind     Kind            `db:"kind"`
	Currency string          `db:"currency"`
	Sum      decimal.Decimal `db:"sum"`
}

// ITransactionTable defines the interface for transaction storage operations.
type ITransactionTable interface {
	FindByID(ctx context.Context, id int64) (*Transaction, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (int64, error)
	Update(ctx context.Context, id int64, update *TransactionUpdate) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	// List returns up to filter.Limit+1 rows ordered by (created_at, id) descending.
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	SumByGroup(ctx context.Context, filter *TotalsFilter) ([]*Group, error)
	ListForTotals(ctx context.Context, filter *TotalsFilter) ([]*Transaction, error)
}
