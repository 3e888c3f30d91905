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
	"github.com/olebsk/bank_ledger_app/internal/dto"
	"github.com/olebsk/bank_ledger_app/internal/middleware"
)

// accountService manages the account lifecycle: creation, lookup, renumbering
// and deletion. Balance mutations are the ledger service's job.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must be zero or positive", apperrors.ErrValidation)
	}
	if balance.Exponent() < -2 {
		return nil, fmt.Errorf("%w: balance must have at most two decimal places", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: req.AccountNumber,
		Balance:       balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_number", account.AccountNumber))
		}
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return &account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by number in repository", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountNumber string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Balance != nil {
		// Balances only change through deposit, withdrawal or transfer so
		// that every balance movement has a matching transaction record.
		return nil, fmt.Errorf("%w: balance cannot be updated directly", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for update", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return nil, err
	}

	if req.AccountNumber != nil && *req.AccountNumber != account.AccountNumber {
		exists, err := s.accountRepo.ExistsByNumber(ctx, *req.AccountNumber)
		if err != nil {
			logger.Error("Failed to check account number availability", slog.String("error", err.Error()), slog.String("account_number", *req.AccountNumber))
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrDuplicate
		}
		account.AccountNumber = *req.AccountNumber
	}

	account.LastUpdatedAt = time.Now().UTC()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to update account in repository", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountNumber string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeleteAccount(ctx, accountNumber); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete account in repository", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return err
	}

	logger.Info("Account deleted", slog.String("account_number", accountNumber))
	return nil
}
