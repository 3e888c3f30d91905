package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
)

// TransactionRepository is the append-only transaction log combined with the
// atomic balance application that every ledger operation runs through.
type TransactionRepository interface {
	// SaveTransaction atomically applies the balance deltas in balanceChanges
	// (keyed by account id) and appends the transaction record. Either both
	// happen or neither does. Implementations must serialize concurrent calls
	// touching the same account and must reject the whole operation with
	// apperrors.ErrInsufficientFunds if any resulting balance would be
	// negative, or apperrors.ErrNotFound if any account is missing.
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// FindTransactionsByAccountInRange retrieves the transactions of one
	// account whose timestamp falls within [from, to], ordered by timestamp
	// ascending with transaction id as tiebreak.
	FindTransactionsByAccountInRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)
}
