package service

import (
	"github.com/finflow/finflow-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
}

// NewService creates a new Service with the given storage, write operator and rates.
func NewService(store *storage.Storage, op actionProcessor, rateProvider ratesProvider) *Service {
	return &Service{
		Transaction: NewTransactionService(store, op, rateProvider),
	}
}
