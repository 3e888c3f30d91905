package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
)

// DepositRequest defines the data needed to deposit into an account.
type DepositRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required,alphanum,min=10,max=20"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawRequest defines the data needed to withdraw from an account.
type WithdrawRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required,alphanum,min=10,max=20"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// TransactionResponse defines the data returned for one transaction record.
type TransactionResponse struct {
	Amount          decimal.Decimal        `json:"amount"`
	Timestamp       time.Time              `json:"timestamp"`
	TransactionType domain.TransactionType `json:"transactionType"`
}

// HistoryResponse wraps an ordered list of transactions.
type HistoryResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		Amount:          txn.Amount,
		Timestamp:       txn.Timestamp,
		TransactionType: txn.TransactionType,
	}
}

// ToHistoryResponse converts an ordered transaction slice to the response DTO.
func ToHistoryResponse(txns []domain.Transaction) HistoryResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return HistoryResponse{Transactions: out}
}
