package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finflow/finflow-server/internal/currency"
	"github.com/finflow/finflow-server/internal/service"
)

func sampleTransaction() *service.Transaction {
	return &service.Transaction{
		ID:           11,
		Name:         "Groceries",
		Price:        decimal.RequireFromString("42.5"),
		CategoryID:   3,
		CategoryName: "Food",
		Currency:     currency.USD,
		Type:         service.TypeSpending,
		CreatedAt:    time.Date(2025, 3, 5, 10, 30, 0, 0, time.UTC),
	}
}

// -- parseCreateTransactionInput unit tests --

func TestParseCreateTransactionInput_ValidInput(t *testing.T) {
	input := &CreateTransactionInput{
		Caller: Caller{UserID: 7},
		Body: CreateTransactionBody{
			Name:            "Groceries",
			Price:           "42.50",
			CategoryID:      3,
			Currency:        "$",
			TransactionType: "income",
			CreatedAt:       "05.03.2025",
		},
	}

	create, err := parseCreateTransactionInput(input)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", create.Name)
	assert.True(t, create.Price.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, int64(3), create.CategoryID)
	assert.Equal(t, "$", create.Currency)
	assert.Equal(t, service.TypeIncome, create.Type)
	assert.Equal(t, "05.03.2025", create.CreatedAt)
}

func TestParseCreateTransactionInput_InvalidPrice(t *testing.T) {
	_, err := parseCreateTransactionInput(&CreateTransactionInput{
		Body: CreateTransactionBody{Name: "x", Price: "a lot", CategoryID: 1},
	})
	assert.Error(t, err)
}

// -- HTTP integration tests --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, int64(7), mock.MatchedBy(func(c service.TransactionCreate) bool {
		return c.Name == "Groceries" && c.Price.Equal(decimal.RequireFromString("42.5")) && c.Currency == "$"
	})).Return(sampleTransaction(), nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", callerHeader, CreateTransactionBody{
		Name:       "Groceries",
		Price:      "42.50",
		CategoryID: 3,
		Currency:   "$",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "42.50", body.Price)
	assert.Equal(t, "USD", body.Currency)
	assert.Equal(t, "Food", body.CategoryName)
	assert.Equal(t, "spending", body.TransactionType)
	assert.Equal(t, "2025-03-05T10:30:00Z", body.CreatedAt)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_UnknownCurrency(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, int64(7), mock.Anything).Return(nil, &service.Error{
		Kind:    service.KindInvalidInput,
		Message: "unknown currency: 'BIT' is not supported, use one of UAH, USD, EUR, CZK, RUB",
	})

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", callerHeader, CreateTransactionBody{
		Name: "Coins", Price: "1", CategoryID: 3, Currency: "BIT",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "BIT")
}

func TestHTTP_CreateTransaction_MissingCaller(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", CreateTransactionBody{
		Name: "Coins", Price: "1", CategoryID: 3,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_CreateTransaction_InvalidPrice(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", callerHeader, CreateTransactionBody{
		Name: "Coins", Price: "lots", CategoryID: 3,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_CreateTransaction_ServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		leaks  bool
	}{
		{"not found", &service.Error{Kind: service.KindNotFound, Message: "category not found"}, http.StatusNotFound, true},
		{"conflict", &service.Error{Kind: service.KindConflict, Message: "conflicting change"}, http.StatusConflict, true},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := new(mockTransactionService)
			mockSvc.On("CreateTransaction", mock.Anything, int64(7), mock.Anything).Return(nil, tc.err)

			resp := newTestAPI(t, mockSvc).Post("/v1/transaction", callerHeader, CreateTransactionBody{
				Name: "x", Price: "1", CategoryID: 3,
			})

			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.leaks, json.Valid(resp.Body.Bytes()) && containsMessage(resp.Body.Bytes(), tc.err.Error()))
		})
	}
}

func containsMessage(body []byte, message string) bool {
	var problem struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err != nil {
		return false
	}
	return problem.Detail == message
}
