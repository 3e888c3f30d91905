package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/olebsk/bank_ledger_app/internal/apperrors"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
	portsrepo "github.com/olebsk/bank_ledger_app/internal/core/ports/repositories"
	"github.com/olebsk/bank_ledger_app/internal/models"
	"github.com/olebsk/bank_ledger_app/internal/utils/mapping"
)

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryWithLocking
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryWithLocking) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxTransactionRepository implements the transaction repository port
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// SaveTransaction applies the balance deltas and appends the transaction
// record within one database transaction. Affected account rows are locked
// in ascending account-id order first; the guarded balance update then
// rejects any change that would leave a balance negative, which rolls the
// whole operation back.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// No-op once the transaction is committed
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges); err != nil {
		return err
	}

	modelTxn := mapping.ToModelTransaction(txn)
	insertQuery := `
		INSERT INTO transactions (transaction_id, account_id, amount, transaction_type, timestamp)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = tx.Exec(ctx, insertQuery,
		modelTxn.TransactionID,
		modelTxn.AccountID,
		modelTxn.Amount,
		modelTxn.TransactionType,
		modelTxn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", modelTxn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionsByAccountInRange retrieves one account's transactions whose
// timestamp falls within [from, to], ordered by timestamp ascending with the
// transaction id as tiebreak for determinism.
func (r *PgxTransactionRepository) FindTransactionsByAccountInRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	if to.Before(from) {
		return nil, apperrors.ErrInvalidRange
	}

	query := `
		SELECT transaction_id, account_id, amount, transaction_type, timestamp
		FROM transactions
		WHERE account_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC, transaction_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var modelTxn models.Transaction
		if err := rows.Scan(
			&modelTxn.TransactionID,
			&modelTxn.AccountID,
			&modelTxn.Amount,
			&modelTxn.TransactionType,
			&modelTxn.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for account %s: %w", accountID, err)
		}
		transactions = append(transactions, mapping.ToDomainTransaction(modelTxn))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows for account %s: %w", accountID, err)
	}

	return transactions, nil
}
