package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olebsk/bank_ledger_app/internal/apperrors"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
	portsrepo "github.com/olebsk/bank_ledger_app/internal/core/ports/repositories"
)

// Store is an in-memory implementation of both repository ports. It backs
// local development runs (no PGSQL_URL configured) and the concurrency tests.
//
// Locking discipline mirrors the pgsql adapter: structural changes to the
// account maps serialize on mu, while balance mutations take the per-account
// mutexes of every affected account in ascending account-id order, so the
// same fixed lock order protects against deadlock in both backends.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*accountEntry // keyed by account id
	byNumber map[string]string         // account number -> account id

	// txnMu guards txns. The per-account entry locks only serialize balance
	// mutations; operations on unrelated accounts still share the log map,
	// so the map itself needs its own lock.
	txnMu sync.Mutex
	txns  map[string][]domain.Transaction
}

type accountEntry struct {
	mu      sync.Mutex
	account domain.Account
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*accountEntry),
		byNumber: make(map[string]string),
		txns:     make(map[string][]domain.Transaction),
	}
}

// NewRepositoryProvider wires the in-memory store as both repositories.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	store := NewStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:     store,
		TransactionRepo: store,
	}
}

var (
	_ portsrepo.AccountRepository     = (*Store)(nil)
	_ portsrepo.TransactionRepository = (*Store)(nil)
)

// SaveAccount persists a new account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byNumber[account.AccountNumber]; taken {
		return fmt.Errorf("%w: account with number %s already exists", apperrors.ErrDuplicate, account.AccountNumber)
	}
	if _, taken := s.accounts[account.AccountID]; taken {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}

	s.accounts[account.AccountID] = &accountEntry{account: account}
	s.byNumber[account.AccountNumber] = account.AccountID
	return nil
}

// FindAccountByID retrieves an account snapshot by its internal identifier.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	entry, ok := s.accounts[accountID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return entry.snapshot(), nil
}

// FindAccountByNumber retrieves an account snapshot by its account number.
func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.byNumber[accountNumber]
	var entry *accountEntry
	if ok {
		entry = s.accounts[id]
	}
	s.mu.RUnlock()
	if entry == nil {
		return nil, apperrors.ErrNotFound
	}
	return entry.snapshot(), nil
}

// ExistsByNumber reports whether an account with the given number exists.
func (s *Store) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byNumber[accountNumber]
	return ok, nil
}

// UpdateAccount updates an account's number. Balances are not touched here;
// they move only through SaveTransaction.
func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if account.AccountNumber != entry.account.AccountNumber {
		if _, taken := s.byNumber[account.AccountNumber]; taken {
			return fmt.Errorf("%w: account with number %s already exists", apperrors.ErrDuplicate, account.AccountNumber)
		}
		delete(s.byNumber, entry.account.AccountNumber)
		s.byNumber[account.AccountNumber] = account.AccountID
		entry.account.AccountNumber = account.AccountNumber
	}
	entry.account.LastUpdatedAt = account.LastUpdatedAt
	return nil
}

// DeleteAccount removes an account and its transaction log. The exclusive
// store lock waits out any in-flight SaveTransaction before removal.
func (s *Store) DeleteAccount(ctx context.Context, accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byNumber[accountNumber]
	if !ok {
		return apperrors.ErrNotFound
	}
	delete(s.byNumber, accountNumber)
	delete(s.accounts, id)

	s.txnMu.Lock()
	delete(s.txns, id)
	s.txnMu.Unlock()
	return nil
}

// SaveTransaction atomically applies the balance deltas and appends the
// transaction record. Affected accounts are locked in ascending account-id
// order; if any resulting balance would be negative nothing is changed.
func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	// Shared store lock: concurrent SaveTransaction calls proceed in
	// parallel and serialize on the per-account locks below, while
	// structural mutations (delete, renumber) wait for the exclusive lock.
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	entries := make([]*accountEntry, 0, len(accountIDs))
	for _, id := range accountIDs {
		entry, ok := s.accounts[id]
		if !ok {
			return fmt.Errorf("%w: could not find or lock account %s", apperrors.ErrNotFound, id)
		}
		entries = append(entries, entry)
	}

	for _, entry := range entries {
		entry.mu.Lock()
	}
	defer func() {
		for _, entry := range entries {
			entry.mu.Unlock()
		}
	}()

	// Validate every resulting balance before mutating anything.
	for i, entry := range entries {
		next := entry.account.Balance.Add(balanceChanges[accountIDs[i]])
		if next.IsNegative() {
			return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, accountIDs[i])
		}
	}

	now := time.Now().UTC()
	for i, entry := range entries {
		delta := balanceChanges[accountIDs[i]]
		if delta.IsZero() {
			continue
		}
		entry.account.Balance = entry.account.Balance.Add(delta)
		entry.account.LastUpdatedAt = now
	}
	s.appendTransaction(txn)
	return nil
}

// appendTransaction inserts the record keeping the per-account log ordered by
// timestamp (transaction id as tiebreak).
func (s *Store) appendTransaction(txn domain.Transaction) {
	s.txnMu.Lock()
	defer s.txnMu.Unlock()

	log := s.txns[txn.AccountID]
	idx := sort.Search(len(log), func(i int) bool {
		if !log[i].Timestamp.Equal(txn.Timestamp) {
			return log[i].Timestamp.After(txn.Timestamp)
		}
		return log[i].TransactionID > txn.TransactionID
	})
	log = append(log, domain.Transaction{})
	copy(log[idx+1:], log[idx:])
	log[idx] = txn
	s.txns[txn.AccountID] = log
}

// FindTransactionsByAccountInRange retrieves one account's transactions
// within [from, to], ordered by timestamp ascending.
func (s *Store) FindTransactionsByAccountInRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	if to.Before(from) {
		return nil, apperrors.ErrInvalidRange
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[accountID]; !ok {
		return nil, apperrors.ErrNotFound
	}

	s.txnMu.Lock()
	defer s.txnMu.Unlock()

	out := []domain.Transaction{}
	for _, txn := range s.txns[accountID] {
		if txn.Timestamp.Before(from) || txn.Timestamp.After(to) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

// snapshot returns a value copy so callers cannot mutate store internals.
func (e *accountEntry) snapshot() *domain.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := e.account
	return &cp
}
