// Package storagetest provides an in-memory stand-in for the postgres tables.
package storagetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"

	"github.com/finflow/finflow-server/internal/storage"
	"github.com/finflow/finflow-server/internal/storage/category"
	"github.com/finflow/finflow-server/internal/storage/sqlconfig"
	"github.com/finflow/finflow-server/internal/storage/transaction"
)

// DB holds categories and transactions in memory. Writers are serialized and a rollback
// restores the rows as they were when the writer was opened.
type DB struct {
	mu           sync.Mutex
	writeMu      sync.Mutex
	nextID       int64
	categories   map[int64]category.Category
	transactions map[int64]transaction.Transaction

	// FailWrite, when set, is returned by Write.
	FailWrite error
	Now       func() time.Time
}

func New() *DB {
	return &DB{
		categories:   make(map[int64]category.Category),
		transactions: make(map[int64]transaction.Transaction),
		Now:          time.Now,
	}
}

// AddCategory stores a category and returns its id.
func (db *DB) AddCategory(userID int64, name string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID++
	db.categories[db.nextID] = category.Category{ID: db.nextID, UserID: userID, Name: name}
	return db.nextID
}

// Storage returns read-side tables over the fake.
func (db *DB) Storage() *storage.Storage {
	return &storage.Storage{
		Transactions: &TransactionTable{db: db},
		Categories:   &CategoryTable{db: db},
	}
}

// Count returns the number of stored transactions.
func (db *DB) Count() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.transactions)
}

func (db *DB) Write(ctx context.Context) (*storage.Writer, error) {
	if db.FailWrite != nil {
		return nil, db.FailWrite
	}
	db.writeMu.Lock()

	db.mu.Lock()
	saved := make(map[int64]transaction.Transaction, len(db.transactions))
	for id, row := range db.transactions {
		saved[id] = row
	}
	db.mu.Unlock()

	tx := &fakeTx{db: db, saved: saved}
	return storage.NewWriterWith(tx, &TransactionTable{db: db}, &CategoryTable{db: db}), nil
}

type fakeTx struct {
	db    *DB
	saved map[int64]transaction.Transaction
	done  bool
}

func (t *fakeTx) Commit(context.Context) error {
	return t.finish(false)
}

func (t *fakeTx) Rollback(context.Context) error {
	return t.finish(true)
}

func (t *fakeTx) finish(restore bool) error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	if restore {
		t.db.mu.Lock()
		t.db.transactions = t.saved
		t.db.mu.Unlock()
	}
	t.db.writeMu.Unlock()
	return nil
}

type CategoryTable struct {
	db *DB
}

func (c *CategoryTable) FindByID(_ context.Context, id int64) (*category.Category, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	row, ok := c.db.categories[id]
	if !ok {
		return nil, sqlconfig.ErrNotFound
	}
	return &row, nil
}

type TransactionTable struct {
	db *DB
}

var _ transaction.ITransactionTable = (*TransactionTable)(nil)

func (t *TransactionTable) withCategory(row transaction.Transaction) *transaction.Transaction {
	row.CategoryName = t.db.categories[row.CategoryID].Name
	return &row
}

func (t *TransactionTable) FindByID(_ context.Context, id int64) (*transaction.Transaction, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	row, ok := t.db.transactions[id]
	if !ok {
		return nil, sqlconfig.ErrNotFound
	}
	return t.withCategory(row), nil
}

func (t *TransactionTable) FindByIDForUpdate(ctx context.Context, id int64) (*transaction.Transaction, error) {
	return t.FindByID(ctx, id)
}

func (t *TransactionTable) Insert(_ context.Context, create *transaction.TransactionCreate) (int64, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	if _, ok := t.db.categories[create.CategoryID]; !ok {
		return 0, sqlconfig.ErrConflict
	}

	createdAt := create.CreatedAt
	if createdAt.IsZero() {
		createdAt = t.db.Now()
	}
	kind := create.Kind
	if kind == "" {
		kind = transaction.KindSpending
	}

	t.db.nextID++
	t.db.transactions[t.db.nextID] = transaction.Transaction{
		ID:          t.db.nextID,
		Name:        create.Name,
		Description: create.Description,
		Price:       create.Price,
		UserID:      create.UserID,
		CategoryID:  create.CategoryID,
		Kind:        kind,
		Currency:    create.Currency,
		CreatedAt:   sqlconfig.Timestamp(createdAt),
	}
	return t.db.nextID, nil
}

func (t *TransactionTable) Update(_ context.Context, id int64, update *transaction.TransactionUpdate) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	row, ok := t.db.transactions[id]
	if !ok {
		return sqlconfig.ErrNotFound
	}
	if v, ok := update.Name.Get(); ok {
		row.Name = v
	}
	if !update.Description.IsUnset() {
		row.Description = null.FromPtr(update.Description.MustPtr())
	}
	if v, ok := update.Price.Get(); ok {
		row.Price = v
	}
	if v, ok := update.CategoryID.Get(); ok {
		if _, exists := t.db.categories[v]; !exists {
			return sqlconfig.ErrConflict
		}
		row.CategoryID = v
	}
	if v, ok := update.Kind.Get(); ok {
		row.Kind = v
	}
	if v, ok := update.Currency.Get(); ok {
		row.Currency = v
	}
	if v, ok := update.CreatedAt.Get(); ok {
		row.CreatedAt = sqlconfig.Timestamp(v)
	}
	t.db.transactions[id] = row
	return nil
}

func (t *TransactionTable) Delete(_ context.Context, id int64) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if _, ok := t.db.transactions[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(t.db.transactions, id)
	return nil
}

func (t *TransactionTable) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	var deleted int64
	for id, row := range t.db.transactions {
		if row.UserID == userID {
			delete(t.db.transactions, id)
			deleted++
		}
	}
	return deleted, nil
}

func inRange(createdAt, from, until time.Time) bool {
	if !from.IsZero() && createdAt.Before(from) {
		return false
	}
	if !until.IsZero() && !createdAt.Before(until) {
		return false
	}
	return true
}

// newestFirst orders by (created_at, id) descending.
func newestFirst(rows []*transaction.Transaction) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
}

func (t *TransactionTable) List(_ context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	var rows []*transaction.Transaction
	for _, row := range t.db.transactions {
		switch {
		case row.UserID != filter.UserID:
			continue
		case filter.CategoryID != nil && row.CategoryID != *filter.CategoryID:
			continue
		case filter.Kind != nil && row.Kind != *filter.Kind:
			continue
		case !inRange(row.CreatedAt, filter.CreatedFrom, filter.CreatedUntil):
			continue
		}
		if after := filter.After; after != nil {
			cursorTime := sqlconfig.Timestamp(after.CreatedAt)
			if row.CreatedAt.After(cursorTime) || (row.CreatedAt.Equal(cursorTime) && row.ID >= after.ID) {
				continue
			}
		}
		rows = append(rows, t.withCategory(row))
	}

	newestFirst(rows)
	if filter.Limit > 0 && len(rows) > filter.Limit+1 {
		rows = rows[:filter.Limit+1]
	}
	return rows, nil
}

func (t *TransactionTable) SumByGroup(_ context.Context, filter *transaction.TotalsFilter) ([]*transaction.Group, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	type key struct {
		category string
		kind     transaction.Kind
		currency string
	}
	sums := make(map[key]decimal.Decimal)
	for _, row := range t.db.transactions {
		if row.UserID != filter.UserID || !inRange(row.CreatedAt, filter.CreatedFrom, filter.CreatedUntil) {
			continue
		}
		k := key{t.db.categories[row.CategoryID].Name, row.Kind, row.Currency}
		sums[k] = sums[k].Add(row.Price)
	}

	groups := make([]*transaction.Group, 0, len(sums))
	for k, sum := range sums {
		groups = append(groups, &transaction.Group{Category: k.category, Kind: k.kind, Currency: k.currency, Sum: sum})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups, nil
}

func (t *TransactionTable) ListForTotals(ctx context.Context, filter *transaction.TotalsFilter) ([]*transaction.Transaction, error) {
	return t.List(ctx, &transaction.TransactionFilter{
		UserID:       filter.UserID,
		CreatedFrom:  filter.CreatedFrom,
		CreatedUntil: filter.CreatedUntil,
	})
}
