package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

// balanceHandler exposes the read-through balance projections.
type balanceHandler struct {
	balanceSvc portssvc.BalanceSvcFacade
}

func newBalanceHandler(balanceSvc portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{balanceSvc: balanceSvc}
}

// asOfParam parses the optional ?asOf query parameter (RFC 3339).
func asOfParam(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("asOf")
	if raw == "" {
		return nil, true
	}
	asOf, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &asOf, true
}

// getBalances returns all per-currency balances of an account owner.
func (h *balanceHandler) getBalances(c *gin.Context) {
	accountOwner := c.Param("accountOwner")

	asOf, ok := asOfParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf timestamp"})
		return
	}

	balances, err := h.balanceSvc.ComputeBalances(c.Request.Context(), accountOwner, asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.BalancesResponse{
		AccountOwner: accountOwner,
		Balances:     make(map[string]decimal.Decimal, len(balances)),
		AsOf:         time.Now().UTC(),
	}
	if asOf != nil {
		resp.AsOf = *asOf
	}
	for currency, balance := range balances {
		resp.Balances[string(currency)] = balance
	}
	c.JSON(http.StatusOK, resp)
}

// getBalance returns the balance of one (accountOwner, currency) pair.
func (h *balanceHandler) getBalance(c *gin.Context) {
	accountOwner := c.Param("accountOwner")
	currency := domain.Currency(c.Param("currency"))
	if !currency.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency"})
		return
	}

	asOf, ok := asOfParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf timestamp"})
		return
	}

	balance, err := h.balanceSvc.ComputeBalance(c.Request.Context(), accountOwner, currency, asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.BalanceResponse{
		AccountOwner: accountOwner,
		Currency:     string(currency),
		Balance:      balance,
		AsOf:         time.Now().UTC(),
	}
	if asOf != nil {
		resp.AsOf = *asOf
	}
	c.JSON(http.StatusOK, resp)
}

// registerBalanceRoutes registers balance projection routes.
func registerBalanceRoutes(group *gin.RouterGroup, balanceSvc portssvc.BalanceSvcFacade) {
	handler := newBalanceHandler(balanceSvc)

	balances := group.Group("/balances")
	{
		balances.GET("/:accountOwner", handler.getBalances)
		balances.GET("/:accountOwner/:currency", handler.getBalance)
	}
}
