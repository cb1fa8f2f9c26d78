package handlers

import (
	"net/http"
	"strconv"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/darisadam/bankist-server/internal/service"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountService service.AccountService
}

func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// GetAccount godoc
// @Summary Get account view
// @Description Owner, balance, summary and movements of the logged-in account
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} account.AccountResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/account [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := h.accountService.GetAccountView(sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetBalance godoc
// @Summary Get balance
// @Description Current balance, recomputed from the movements
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} account.BalanceResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/account/balance [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	balance, err := h.accountService.GetBalance(sess.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetSummary godoc
// @Summary Get summary
// @Description Totals in, out and interest
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} account.Summary
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/account/summary [get]
func (h *AccountHandler) GetSummary(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	summary, err := h.accountService.GetSummary(sess.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListMovements godoc
// @Summary List movements
// @Description Movements in ledger order, or ascending when sorted is true. Defaults to the session's sort mode.
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param sorted query bool false "Sort ascending"
// @Success 200 {object} account.MovementsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/account/movements [get]
func (h *AccountHandler) ListMovements(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	sorted := sess.Sorted
	if raw, present := c.GetQuery("sorted"); present {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sorted parameter"})
			return
		}
		sorted = parsed
	}

	movements, err := h.accountService.ListMovements(sess.AccountID, sorted)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movements)
}

// ToggleSort godoc
// @Summary Toggle sort
// @Description Flip the session's sort mode and return the movements in the new order
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} account.MovementsResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/account/movements/sort [post]
func (h *AccountHandler) ToggleSort(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	movements, err := h.accountService.ToggleSort(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movements)
}

// CloseAccount godoc
// @Summary Close account
// @Description Remove the logged-in account after confirming username and pin. Ends the session.
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body account.CloseAccountRequest true "Confirmation"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/account/close [post]
func (h *AccountHandler) CloseAccount(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req account.CloseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountService.CloseAccount(c.Request.Context(), sess, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account closed"})
}

// GetBankStats godoc
// @Summary Bank statistics
// @Description Deposit and withdrawal totals across all open accounts
// @Tags stats
// @Produce json
// @Success 200 {object} account.BankStats
// @Router /api/v1/stats [get]
func (h *AccountHandler) GetBankStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.accountService.GetBankStats())
}
