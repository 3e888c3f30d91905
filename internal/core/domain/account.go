package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a bank account within the core domain.
// This is the primary representation used by services.
//
// AccountID is the internal primary key; AccountNumber is the user-facing
// identifier (10-20 alphanumeric characters) used by the HTTP boundary.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string          `json:"accountNumber"` // Unique, user-facing
	Balance       decimal.Decimal `json:"balance"`       // Never negative; scale 2
	AuditFields                   // Embed CreatedAt, LastUpdatedAt
}
