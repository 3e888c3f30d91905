package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olebsk/bank_ledger_app/internal/apperrors"
	portssvc "github.com/olebsk/bank_ledger_app/internal/core/ports/services"
	"github.com/olebsk/bank_ledger_app/internal/dto"
	"github.com/olebsk/bank_ledger_app/internal/middleware"
)

// transferHandler handles account-to-account transfer requests.
type transferHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerTransferRoutes registers the transfer route.
func registerTransferRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &transferHandler{ledgerService: ledgerService}
	rg.POST("/transfer", h.transfer)
}

// transfer godoc
// @Summary Transfer between two accounts
// @Description Atomically moves the amount from the source account to the destination account
// @Tags transfer
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} map[string]string "Transfer completed"
// @Failure 400 {object} map[string]string "Invalid amount or insufficient funds"
// @Failure 404 {object} map[string]string "Source or destination account not found"
// @Failure 500 {object} map[string]string "Failed to transfer"
// @Router /transfer [post]
func (h *transferHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("from_account_number", req.FromAccountNumber),
		slog.String("to_account_number", req.ToAccountNumber),
	)
	logger.Info("Received transfer request", slog.String("amount", req.Amount.String()))

	err := h.ledgerService.Transfer(c.Request.Context(), req.FromAccountNumber, req.ToAccountNumber, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Transfer account not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidAmount),
			errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, apperrors.ErrInsufficientFunds):
			logger.Warn("Rejected transfer", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Transfer failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer"})
		}
		return
	}

	logger.Info("Transfer completed")
	c.JSON(http.StatusOK, gin.H{"message": "transfer completed"})
}
