package dto

import "github.com/shopspring/decimal"

// TransferRequest defines the data needed to move money between two accounts.
type TransferRequest struct {
	FromAccountNumber string          `json:"fromAccountNumber" binding:"required,alphanum,min=10,max=20"`
	ToAccountNumber   string          `json:"toAccountNumber" binding:"required,alphanum,min=10,max=20"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
}
