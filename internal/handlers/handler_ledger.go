package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olebsk/bank_ledger_app/internal/apperrors"
	portssvc "github.com/olebsk/bank_ledger_app/internal/core/ports/services"
	"github.com/olebsk/bank_ledger_app/internal/dto"
	"github.com/olebsk/bank_ledger_app/internal/middleware"
)

// ledgerHandler handles HTTP requests for money movement and queries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers the transaction routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/deposit", h.deposit)
		transactions.POST("/withdraw", h.withdraw)
		transactions.GET("/balance", h.getBalance)
		transactions.GET("/history", h.getHistory)
	}
}

// historyParams binds the query parameters of the history endpoint.
type historyParams struct {
	AccountID string    `form:"accountId" binding:"required,uuid"`
	From      time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To        time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// deposit godoc
// @Summary Deposit into an account
// @Description Credits the amount to the account and records a DEPOSIT transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   deposit body dto.DepositRequest true "Deposit details"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid amount or validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to deposit"
// @Router /transactions/deposit [post]
func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_number", req.AccountNumber))
	logger.Info("Received deposit request", slog.String("amount", req.Amount.String()))

	account, err := h.ledgerService.Deposit(c.Request.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		h.respondLedgerError(c, logger, err, "deposit")
		return
	}

	logger.Info("Deposit applied", slog.String("balance", account.Balance.String()))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// withdraw godoc
// @Summary Withdraw from an account
// @Description Debits the amount from the account and records a WITHDRAW transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   withdraw body dto.WithdrawRequest true "Withdrawal details"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid amount or insufficient funds"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to withdraw"
// @Router /transactions/withdraw [post]
func (h *ledgerHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_number", req.AccountNumber))
	logger.Info("Received withdrawal request", slog.String("amount", req.Amount.String()))

	account, err := h.ledgerService.Withdraw(c.Request.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		h.respondLedgerError(c, logger, err, "withdraw")
		return
	}

	logger.Info("Withdrawal applied", slog.String("balance", account.Balance.String()))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getBalance godoc
// @Summary Get the balance of an account
// @Description Returns the current balance for the account number given as a query parameter
// @Tags transactions
// @Produce  json
// @Param   accountNumber query string true "Account number"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Missing account number"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Router /transactions/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Query("accountNumber")
	if accountNumber == "" {
		logger.Warn("Missing accountNumber query parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountNumber query parameter is required"})
		return
	}

	logger = logger.With(slog.String("account_number", accountNumber))
	logger.Info("Received balance request")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to get balance from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountNumber: accountNumber, Balance: balance})
}

// getHistory godoc
// @Summary Get transaction history for an account
// @Description Returns the account's transactions within [from, to], ordered by timestamp ascending
// @Tags transactions
// @Produce  json
// @Param   accountId query string true "Account ID"
// @Param   from query string true "Range start (RFC 3339)"
// @Param   to query string true "Range end (RFC 3339)"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or range"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve history"
// @Router /transactions/history [get]
func (h *ledgerHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params historyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetHistory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", params.AccountID))
	logger.Info("Received history request",
		slog.Time("from", params.From),
		slog.Time("to", params.To),
	)

	txns, err := h.ledgerService.GetHistory(c.Request.Context(), params.AccountID, params.From, params.To)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for history")
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrInvalidRange) {
			logger.Warn("Invalid history range", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get history from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		}
		return
	}

	logger.Info("History retrieved", slog.Int("count", len(txns)))
	c.JSON(http.StatusOK, dto.ToHistoryResponse(txns))
}

// respondLedgerError maps money-movement errors to HTTP statuses.
func (h *ledgerHandler) respondLedgerError(c *gin.Context, logger *slog.Logger, err error, op string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Account not found", slog.String("op", op))
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Rejected ledger operation", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Ledger operation failed", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op})
	}
}
