package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/finflow/finflow-server/internal/config"
	"github.com/finflow/finflow-server/internal/storage/category"
	"github.com/finflow/finflow-server/internal/storage/transaction"
)

// Storage holds the read-side tables bound to the connection pool. Writes go through
// Write, which opens a database transaction.
type Storage struct {
	DB           *sql.DB
	db           bob.DB
	Transactions transaction.ITransactionTable
	Categories   category.ICategoryTable
}

func NewStorage(env *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	return NewStorageFromDB(db), nil
}

func NewStorageFromDB(db *sql.DB) *Storage {
	bobDB := bob.NewDB(db)
	return &Storage{
		DB:           db,
		db:           bobDB,
		Transactions: transaction.NewTable(bobDB),
		Categories:   category.NewTable(bobDB),
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Write begins a database transaction and returns a Writer bound to it.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return NewWriter(tx), nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
