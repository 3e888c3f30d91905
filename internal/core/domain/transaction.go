package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the ledger operation that produced a transaction.
type TransactionType string

const (
	Deposit  TransactionType = "DEPOSIT"
	Withdraw TransactionType = "WITHDRAW"
	Transfer TransactionType = "TRANSFER"
)

// Transaction is an immutable record of one balance-affecting event on a
// single account. Transactions are only ever created as a side effect of a
// ledger operation and are never updated afterwards.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	AccountID       string          `json:"accountID"`     // FK -> Account.AccountID (owning account)
	Amount          decimal.Decimal `json:"amount"`        // Strictly positive; scale 2
	TransactionType TransactionType `json:"transactionType"`
	Timestamp       time.Time       `json:"timestamp"` // Set at creation, UTC
}
