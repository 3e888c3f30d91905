package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its internal identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its user-facing account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ExistsByNumber reports whether an account with the given number exists.
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate when
	// the account number is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details (not its balance).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account and, with it, all of its transactions.
	DeleteAccount(ctx context.Context, accountNumber string) error
}

// AccountRepository combines the account repository read and write interfaces.
type AccountRepository interface {
	AccountReader
	AccountWriter
}

// AccountLockingSupport defines the row-locking operations the pgsql
// transaction repository uses to serialize balance mutations. Implementations
// must lock the requested accounts in ascending account-id order.
type AccountLockingSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies balance deltas for multiple accounts within a given transaction.
	// The update is guarded so that no balance can drop below zero.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal) error
}

// AccountRepositoryWithLocking is implemented by the pgsql account repository
// and consumed by the pgsql transaction repository.
type AccountRepositoryWithLocking interface {
	AccountRepository
	AccountLockingSupport
}
