package services

import (
	"context"

	"github.com/olebsk/bank_ledger_app/internal/core/domain"
	"github.com/olebsk/bank_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByNumber retrieves a specific account by its account number.
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies a partial update to an existing account.
	UpdateAccount(ctx context.Context, accountNumber string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an account and its transactions.
	DeleteAccount(ctx context.Context, accountNumber string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
