package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aarondl/opt/null"
	"github.com/aarondl/opt/omit"
	"github.com/aarondl/opt/omitnull"
	"github.com/shopspring/decimal"

	"github.com/finflow/finflow-server/internal/aggregate"
	"github.com/finflow/finflow-server/internal/calendar"
	"github.com/finflow/finflow-server/internal/currency"
	"github.com/finflow/finflow-server/internal/logging"
	"github.com/finflow/finflow-server/internal/operator/actions"
	"github.com/finflow/finflow-server/internal/rates"
	"github.com/finflow/finflow-server/internal/storage"
	"github.com/finflow/finflow-server/internal/storage/sqlconfig"
	"github.com/finflow/finflow-server/internal/storage/transaction"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	maxNameLength        = 50
	maxDescriptionLength = 250
)

var (
	errTransactionNotFound = &Error{Kind: KindNotFound, Message: actions.ErrTransactionNotFound.Error(), Err: actions.ErrTransactionNotFound}
)

type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

type ratesProvider interface {
	Rates(ctx context.Context) rates.Snapshot
}

// TransactionService handles transaction business logic. Reads go straight to storage,
// writes are queued through the operator.
type TransactionService struct {
	storage  *storage.Storage
	operator actionProcessor
	rates    ratesProvider
	now      func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, op actionProcessor, rateProvider ratesProvider) *TransactionService {
	return &TransactionService{
		storage:  store,
		operator: op,
		rates:    rateProvider,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransaction validates create and stores it for userID.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID int64, create TransactionCreate) (*Transaction, error) {
	if err := validateName(create.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(create.Description); err != nil {
		return nil, err
	}
	if err := validatePrice(create.Price); err != nil {
		return nil, err
	}
	kind, err := parseType(create.Type)
	if err != nil {
		return nil, err
	}
	code, err := currency.Normalize(create.Currency)
	if err != nil {
		return nil, classify(err)
	}
	createdAt := s.now()
	if create.CreatedAt != "" {
		if createdAt, err = calendar.ParseDate(create.CreatedAt); err != nil {
			return nil, classify(err)
		}
	}

	action := &actions.CreateTransaction{Create: transaction.TransactionCreate{
		Name:        create.Name,
		Description: null.FromPtr(nonEmpty(create.Description)),
		Price:       create.Price,
		UserID:      userID,
		CategoryID:  create.CategoryID,
		Kind:        kind,
		Currency:    code.String(),
		CreatedAt:   createdAt,
	}}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, classify(err)
	}
	result := transactionFromStorage(action.Result)
	return &result, nil
}

// GetTransaction returns one of userID's transactions.
func (s *TransactionService) GetTransaction(ctx context.Context, userID, id int64) (*Transaction, error) {
	row, err := s.storage.Transactions.FindByID(ctx, id)
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return nil, errTransactionNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	if row.UserID != userID {
		return nil, errTransactionNotFound
	}
	result := transactionFromStorage(row)
	return &result, nil
}

// UpdateTransaction applies patch to one of userID's transactions. Currency and date
// fields are normalized the same way as on create.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id int64, patch TransactionPatch) (*Transaction, error) {
	var update transaction.TransactionUpdate
	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		update.Name = omit.From(*patch.Name)
	}
	if patch.Description != nil {
		if err := validateDescription(patch.Description); err != nil {
			return nil, err
		}
		if description := nonEmpty(patch.Description); description != nil {
			update.Description = omitnull.From(*description)
		} else {
			update.Description = omitnull.FromPtr[string](nil)
		}
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return nil, err
		}
		update.Price = omit.From(*patch.Price)
	}
	if patch.CategoryID != nil {
		update.CategoryID = omit.From(*patch.CategoryID)
	}
	if patch.Type != nil {
		kind, err := parseType(*patch.Type)
		if err != nil {
			return nil, err
		}
		update.Kind = omit.From(kind)
	}
	if patch.Currency != nil {
		code, err := currency.Normalize(*patch.Currency)
		if err != nil {
			return nil, classify(err)
		}
		update.Currency = omit.From(code.String())
	}
	if patch.CreatedAt != nil {
		createdAt, err := calendar.ParseDate(*patch.CreatedAt)
		if err != nil {
			return nil, classify(err)
		}
		update.CreatedAt = omit.From(createdAt)
	}

	action := &actions.UpdateTransaction{UserID: userID, ID: id, Update: update}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, classify(err)
	}
	result := transactionFromStorage(action.Result)
	return &result, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return classify(s.operator.Process(ctx, &actions.DeleteTransaction{UserID: userID, ID: id}))
}

// DeleteAllTransactions removes every transaction of userID and returns how many there were.
func (s *TransactionService) DeleteAllTransactions(ctx context.Context, userID int64) (int64, error) {
	action := &actions.DeleteAllTransactions{UserID: userID}
	if err := s.operator.Process(ctx, action); err != nil {
		return 0, classify(err)
	}
	return action.Deleted, nil
}

// ListTransactions returns a page of userID's transactions, newest first. The page is
// positioned after query.Cursor when set.
func (s *TransactionService) ListTransactions(ctx context.Context, userID int64, query ListQuery) (*TransactionPage, error) {
	limit := query.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, invalidInput(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	}

	filter := &transaction.TransactionFilter{
		UserID:     userID,
		CategoryID: query.CategoryID,
		Limit:      limit,
	}
	switch query.Type {
	case "", TypeAll:
	default:
		kind, err := parseType(query.Type)
		if err != nil {
			return nil, err
		}
		filter.Kind = &kind
	}

	cal, err := calendar.Parse(query.Start, query.End)
	if err != nil {
		return nil, classify(err)
	}
	bounds := cal.ForListing()
	filter.CreatedFrom, filter.CreatedUntil = bounds.From, bounds.Until

	if query.Cursor != nil {
		filter.After = &transaction.Cursor{CreatedAt: query.Cursor.CreatedAt, ID: query.Cursor.ID}
	}

	done := logging.StartTiming(ctx, "listQueryDuration")
	rows, err := s.storage.Transactions.List(ctx, filter)
	done()
	if err != nil {
		return nil, classify(err)
	}

	page := &TransactionPage{Items: make([]Transaction, 0, min(len(rows), limit))}
	if len(rows) > limit {
		rows = rows[:limit]
		page.HasMore = true
	}
	for _, row := range rows {
		page.Items = append(page.Items, transactionFromStorage(row))
	}
	if page.HasMore {
		last := rows[len(rows)-1]
		page.NextCursor = &TransactionCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, nil
}

// Totals sums userID's transactions in the target currency. Without dates the range
// starts at the first day of the current month.
func (s *TransactionService) Totals(ctx context.Context, userID int64, query TotalsQuery) (*aggregate.Totals, error) {
	target, filter, err := s.totalsInput(userID, query)
	if err != nil {
		return nil, err
	}
	snapshot := s.rates.Rates(ctx)

	rows, err := s.storage.Transactions.SumByGroup(ctx, filter)
	if err != nil {
		return nil, classify(err)
	}
	groups := make([]aggregate.Group, len(rows))
	for i, row := range rows {
		groups[i] = aggregate.Group{
			Category: row.Category,
			Kind:     aggregate.Kind(row.Kind),
			Currency: currency.Code(row.Currency),
			Sum:      row.Sum,
		}
	}
	totals := aggregate.Summarize(groups, snapshot, target)
	return &totals, nil
}

// ItemizedTotals is Totals with every transaction listed under its category.
func (s *TransactionService) ItemizedTotals(ctx context.Context, userID int64, query TotalsQuery) (*aggregate.ItemizedTotals, error) {
	target, filter, err := s.totalsInput(userID, query)
	if err != nil {
		return nil, err
	}
	snapshot := s.rates.Rates(ctx)

	rows, err := s.storage.Transactions.ListForTotals(ctx, filter)
	if err != nil {
		return nil, classify(err)
	}
	items := make([]aggregate.Row, len(rows))
	for i, row := range rows {
		items[i] = aggregate.Row{
			Name:      row.Name,
			Category:  row.CategoryName,
			Kind:      aggregate.Kind(row.Kind),
			Currency:  currency.Code(row.Currency),
			Price:     row.Price,
			CreatedAt: row.CreatedAt,
		}
	}
	itemized := aggregate.Itemized(items, snapshot, target)
	return &itemized, nil
}

func (s *TransactionService) totalsInput(userID int64, query TotalsQuery) (currency.Code, *transaction.TotalsFilter, error) {
	target, err := currency.Normalize(query.Currency)
	if err != nil {
		return "", nil, classify(err)
	}
	cal, err := calendar.Parse(query.Start, query.End)
	if err != nil {
		return "", nil, classify(err)
	}
	bounds := cal.ForTotals(s.now())
	return target, &transaction.TotalsFilter{
		UserID:       userID,
		CreatedFrom:  bounds.From,
		CreatedUntil: bounds.Until,
	}, nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > maxNameLength {
		return invalidInput(fmt.Sprintf("name must be between 1 and %d characters", maxNameLength))
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLength {
		return invalidInput(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return invalidInput("price must be greater than zero")
	}
	if !price.Equal(price.Truncate(2)) {
		return invalidInput("price must have at most two decimal places")
	}
	return nil
}

func parseType(t TransactionType) (transaction.Kind, error) {
	switch t {
	case "", TypeSpending:
		return transaction.KindSpending, nil
	case TypeIncome:
		return transaction.KindIncome, nil
	default:
		return "", invalidInput(fmt.Sprintf("transaction type '%s' is not one of income, spending", t))
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
