package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/olebsk/bank_ledger_app/internal/apperrors"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
	portsrepo "github.com/olebsk/bank_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/olebsk/bank_ledger_app/internal/core/ports/services"
	"github.com/olebsk/bank_ledger_app/internal/middleware"
)

// ledgerService implements the money-movement core. Atomicity of each
// operation lives in TransactionRepository.SaveTransaction: the balance
// deltas and the transaction record are applied together or not at all, with
// affected accounts locked for the duration. The balance checks done here are
// fast-path error reporting; the repository re-enforces the non-negative
// balance invariant under the lock.
type ledgerService struct {
	accountRepo portsrepo.AccountRepository
	txnRepo     portsrepo.TransactionRepository
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateAmount rejects non-positive amounts and amounts with more than two
// decimal places. Monetary values are exact, scale-2 decimals.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.ErrInvalidAmount
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: at most two decimal places allowed, got %s", apperrors.ErrValidation, amount.String())
	}
	return nil
}

func (s *ledgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Missing accounts take precedence over bad amounts.
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for deposit", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return nil, err
	}

	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       account.AccountID,
		Amount:          amount,
		TransactionType: domain.Deposit,
		Timestamp:       time.Now().UTC(),
	}
	balanceChanges := map[string]decimal.Decimal{account.AccountID: amount}

	if err := s.txnRepo.SaveTransaction(ctx, txn, balanceChanges); err != nil {
		logger.Error("Failed to apply deposit", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		return nil, err
	}

	logger.Info("Deposit applied", slog.String("account_number", accountNumber), slog.String("amount", amount.String()))
	return s.refreshAccount(ctx, accountNumber)
}

func (s *ledgerService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for withdrawal", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return nil, err
	}

	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	if account.Balance.LessThan(amount) {
		logger.Warn("Withdrawal exceeds balance", slog.String("account_number", accountNumber), slog.String("balance", account.Balance.String()), slog.String("amount", amount.String()))
		return nil, fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, account.Balance.String(), amount.String())
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       account.AccountID,
		Amount:          amount,
		TransactionType: domain.Withdraw,
		Timestamp:       time.Now().UTC(),
	}
	balanceChanges := map[string]decimal.Decimal{account.AccountID: amount.Neg()}

	if err := s.txnRepo.SaveTransaction(ctx, txn, balanceChanges); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to apply withdrawal", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return nil, err
	}

	logger.Info("Withdrawal applied", slog.String("account_number", accountNumber), slog.String("amount", amount.String()))
	return s.refreshAccount(ctx, accountNumber)
}

func (s *ledgerService) GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for balance query", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *ledgerService) GetHistory(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for history query", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	if to.Before(from) {
		return nil, apperrors.ErrInvalidRange
	}

	transactions, err := s.txnRepo.FindTransactionsByAccountInRange(ctx, accountID, from, to)
	if err != nil {
		logger.Error("Failed to query transaction history", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Debug("History retrieved", slog.String("account_id", accountID), slog.Int("count", len(transactions)))
	return transactions, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(amount); err != nil {
		return err
	}

	fromAccount, err := s.accountRepo.FindAccountByNumber(ctx, fromAccountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find source account for transfer", slog.String("error", err.Error()), slog.String("account_number", fromAccountNumber))
		}
		return fmt.Errorf("source account %s: %w", fromAccountNumber, err)
	}

	toAccount, err := s.accountRepo.FindAccountByNumber(ctx, toAccountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find destination account for transfer", slog.String("error", err.Error()), slog.String("account_number", toAccountNumber))
		}
		return fmt.Errorf("destination account %s: %w", toAccountNumber, err)
	}

	if fromAccount.Balance.LessThan(amount) {
		logger.Warn("Transfer exceeds source balance", slog.String("from", fromAccountNumber), slog.String("balance", fromAccount.Balance.String()), slog.String("amount", amount.String()))
		return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, fromAccount.Balance.String(), amount.String())
	}

	// Accumulate deltas per account id; a self-transfer nets to zero and
	// still records its TRANSFER transaction.
	balanceChanges := make(map[string]decimal.Decimal, 2)
	balanceChanges[fromAccount.AccountID] = balanceChanges[fromAccount.AccountID].Sub(amount)
	balanceChanges[toAccount.AccountID] = balanceChanges[toAccount.AccountID].Add(amount)

	// Only the initiating side gets a transaction record.
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       fromAccount.AccountID,
		Amount:          amount,
		TransactionType: domain.Transfer,
		Timestamp:       time.Now().UTC(),
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, balanceChanges); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to apply transfer", slog.String("error", err.Error()), slog.String("from", fromAccountNumber), slog.String("to", toAccountNumber))
		}
		return err
	}

	logger.Info("Transfer applied", slog.String("from", fromAccountNumber), slog.String("to", toAccountNumber), slog.String("amount", amount.String()))
	return nil
}

// refreshAccount re-reads the account after a committed ledger operation so
// the caller sees the post-commit balance rather than the pre-read one.
func (s *ledgerService) refreshAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("operation committed but account re-read failed: %w", err)
	}
	return account, nil
}
