package handlers

import (
	"net/http"

	"github.com/darisadam/bankist-server/internal/domain/transaction"
	"github.com/darisadam/bankist-server/internal/service"
	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Transfer godoc
// @Summary Transfer money
// @Description Move money from the logged-in account to another user
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body transaction.TransferRequest true "Transfer details"
// @Success 201 {object} transaction.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/transactions/transfer [post]
func (h *TransactionHandler) Transfer(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req transaction.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.transactionService.Transfer(c.Request.Context(), sess, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RequestLoan godoc
// @Summary Request a loan
// @Description Granted when some earlier movement is at least 10% of the amount
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body transaction.LoanRequest true "Loan amount"
// @Success 201 {object} transaction.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/transactions/loan [post]
func (h *TransactionHandler) RequestLoan(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req transaction.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.transactionService.RequestLoan(c.Request.Context(), sess, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
