package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
)

// LedgerSvcFacade exposes the money-movement core. Every operation is a
// single atomic unit: it either fully applies (balance updated and a
// transaction appended) or has no effect.
type LedgerSvcFacade interface {
	// Deposit credits amount to the account and records a DEPOSIT transaction.
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Account, error)

	// Withdraw debits amount from the account and records a WITHDRAW transaction.
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Account, error)

	// GetBalance returns the current balance of the account. No side effect.
	GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error)

	// GetHistory returns the account's transactions within [from, to],
	// ordered by timestamp ascending.
	GetHistory(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// Transfer atomically moves amount from one account to another and
	// records a single TRANSFER transaction against the source account.
	Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) error
}
