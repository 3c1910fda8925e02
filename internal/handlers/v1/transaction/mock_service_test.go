package transaction

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/mock"

	"github.com/finflow/finflow-server/internal/aggregate"
	"github.com/finflow/finflow-server/internal/service"
)

const callerHeader = "X-User-ID: 7"

// mockTransactionService is a mock for every transaction handler interface.
type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, userID int64, create service.TransactionCreate) (*service.Transaction, error) {
	args := m.Called(ctx, userID, create)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) GetTransaction(ctx context.Context, userID, id int64) (*service.Transaction, error) {
	args := m.Called(ctx, userID, id)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) UpdateTransaction(ctx context.Context, userID, id int64, patch service.TransactionPatch) (*service.Transaction, error) {
	args := m.Called(ctx, userID, id, patch)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockTransactionService) DeleteAllTransactions(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, userID int64, query service.ListQuery) (*service.TransactionPage, error) {
	args := m.Called(ctx, userID, query)
	page, _ := args.Get(0).(*service.TransactionPage)
	return page, args.Error(1)
}

func (m *mockTransactionService) Totals(ctx context.Context, userID int64, query service.TotalsQuery) (*aggregate.Totals, error) {
	args := m.Called(ctx, userID, query)
	totals, _ := args.Get(0).(*aggregate.Totals)
	return totals, args.Error(1)
}

func (m *mockTransactionService) ItemizedTotals(ctx context.Context, userID int64, query service.TotalsQuery) (*aggregate.ItemizedTotals, error) {
	args := m.Called(ctx, userID, query)
	totals, _ := args.Get(0).(*aggregate.ItemizedTotals)
	return totals, args.Error(1)
}

// newTestAPI registers every transaction handler against a humatest API and returns it.
// Totals goes first so that /total is not read as an id.
func newTestAPI(t *testing.T, svc *mockTransactionService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewTotalsHandler(svc).Register(api)
	NewCreateTransactionHandler(svc).Register(api)
	NewGetTransactionHandler(svc).Register(api)
	NewUpdateTransactionHandler(svc).Register(api)
	NewDeleteTransactionHandler(svc).Register(api)
	NewListTransactionsHandler(svc).Register(api)
	return api
}
