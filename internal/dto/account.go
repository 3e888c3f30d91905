package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
// Balance is optional; a missing balance opens the account at zero.
type CreateAccountRequest struct {
	AccountNumber string           `json:"accountNumber" binding:"required,alphanum,min=10,max=20"`
	Balance       *decimal.Decimal `json:"balance"` // Optional, use pointer for nullability
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// A balance patch is rejected by the service: balances only move through
// ledger operations.
type UpdateAccountRequest struct {
	AccountNumber *string          `json:"accountNumber" binding:"omitempty,alphanum,min=10,max=20"`
	Balance       *decimal.Decimal `json:"balance"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// BalanceResponse carries the result of a balance query.
type BalanceResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: acc.AccountNumber,
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}
