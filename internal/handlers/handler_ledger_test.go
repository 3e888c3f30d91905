package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/olebsk/bank_ledger_app/internal/apperrors"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
	"github.com/olebsk/bank_ledger_app/internal/dto"
)

// LedgerHandlerTestSuite reuses the mocks and router setup of the account
// handler suite; only the routes under test differ.
type LedgerHandlerTestSuite struct {
	AccountHandlerTestSuite
}

func (suite *LedgerHandlerTestSuite) TestDeposit_Success() {
	amount := decimal.RequireFromString("500.00")
	after := &domain.Account{
		AccountID:     "acc-1",
		AccountNumber: "1234567890AB",
		Balance:       decimal.RequireFromString("1500.00"),
	}

	suite.mockLedgerService.On("Deposit", mock.Anything, "1234567890AB", mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(amount)
	})).Return(after, nil).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/deposit", gin.H{
		"accountNumber": "1234567890AB",
		"amount":        "500.00",
	})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.RequireFromString("1500.00")))
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDeposit_InvalidAmount() {
	suite.mockLedgerService.On("Deposit", mock.Anything, "1234567890AB", mock.Anything).
		Return(nil, apperrors.ErrInvalidAmount).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/deposit", gin.H{
		"accountNumber": "1234567890AB",
		"amount":        "-5.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDeposit_AccountNotFound() {
	suite.mockLedgerService.On("Deposit", mock.Anything, "0000000000XX", mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/deposit", gin.H{
		"accountNumber": "0000000000XX",
		"amount":        "5.00",
	})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestWithdraw_InsufficientFunds() {
	suite.mockLedgerService.On("Withdraw", mock.Anything, "1234567890AB", mock.Anything).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/withdraw", gin.H{
		"accountNumber": "1234567890AB",
		"amount":        "2000.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestWithdraw_Success() {
	after := &domain.Account{
		AccountID:     "acc-1",
		AccountNumber: "1234567890AB",
		Balance:       decimal.RequireFromString("1200.00"),
	}

	suite.mockLedgerService.On("Withdraw", mock.Anything, "1234567890AB", mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(decimal.RequireFromString("300.00"))
	})).Return(after, nil).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/withdraw", gin.H{
		"accountNumber": "1234567890AB",
		"amount":        "300.00",
	})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.RequireFromString("1200.00")))
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetBalance_Success() {
	suite.mockLedgerService.On("GetBalance", mock.Anything, "1234567890AB").
		Return(decimal.RequireFromString("1234.56"), nil).Once()

	w := suite.performJSON(http.MethodGet, "/api/v1/transactions/balance?accountNumber=1234567890AB", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("1234567890AB", resp.AccountNumber)
	suite.True(resp.Balance.Equal(decimal.RequireFromString("1234.56")))
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetBalance_MissingAccountNumber() {
	w := suite.performJSON(http.MethodGet, "/api/v1/transactions/balance", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetBalance")
}

func (suite *LedgerHandlerTestSuite) TestGetHistory_Success() {
	accountID := "2f0a6cbe-5dd1-4b69-9f57-0d9bfcd67e11"
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	expected := []domain.Transaction{
		{TransactionID: "txn-1", AccountID: accountID, Amount: decimal.RequireFromString("50.00"), TransactionType: domain.Deposit, Timestamp: from.Add(time.Hour)},
	}

	suite.mockLedgerService.On("GetHistory", mock.Anything, accountID,
		mock.MatchedBy(func(ts time.Time) bool { return ts.Equal(from) }),
		mock.MatchedBy(func(ts time.Time) bool { return ts.Equal(to) }),
	).Return(expected, nil).Once()

	historyURL := fmt.Sprintf("/api/v1/transactions/history?accountId=%s&from=%s&to=%s",
		accountID,
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)),
	)
	w := suite.performJSON(http.MethodGet, historyURL, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.HistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal(domain.Deposit, resp.Transactions[0].TransactionType)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetHistory_InvalidRange() {
	accountID := "2f0a6cbe-5dd1-4b69-9f57-0d9bfcd67e11"
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.mockLedgerService.On("GetHistory", mock.Anything, accountID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInvalidRange).Once()

	historyURL := fmt.Sprintf("/api/v1/transactions/history?accountId=%s&from=%s&to=%s",
		accountID,
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)),
	)
	w := suite.performJSON(http.MethodGet, historyURL, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetHistory_MissingParams() {
	w := suite.performJSON(http.MethodGet, "/api/v1/transactions/history", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetHistory")
}

func (suite *LedgerHandlerTestSuite) TestTransfer_Success() {
	suite.mockLedgerService.On("Transfer", mock.Anything, "1234567890AB", "0987654321XY",
		mock.MatchedBy(func(a decimal.Decimal) bool {
			return a.Equal(decimal.RequireFromString("300.00"))
		}),
	).Return(nil).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transfer", gin.H{
		"fromAccountNumber": "1234567890AB",
		"toAccountNumber":   "0987654321XY",
		"amount":            "300.00",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestTransfer_InsufficientFunds() {
	suite.mockLedgerService.On("Transfer", mock.Anything, "1234567890AB", "0987654321XY", mock.Anything).
		Return(apperrors.ErrInsufficientFunds).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transfer", gin.H{
		"fromAccountNumber": "1234567890AB",
		"toAccountNumber":   "0987654321XY",
		"amount":            "300.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestTransfer_MissingDestination() {
	w := suite.performJSON(http.MethodPost, "/api/v1/transfer", gin.H{
		"fromAccountNumber": "1234567890AB",
		"amount":            "300.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Transfer")
}

func (suite *LedgerHandlerTestSuite) TestTransfer_AccountNotFound() {
	suite.mockLedgerService.On("Transfer", mock.Anything, "1234567890AB", "0000000000XX", mock.Anything).
		Return(fmt.Errorf("destination account %s: %w", "0000000000XX", apperrors.ErrNotFound)).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transfer", gin.H{
		"fromAccountNumber": "1234567890AB",
		"toAccountNumber":   "0000000000XX",
		"amount":            "300.00",
	})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
