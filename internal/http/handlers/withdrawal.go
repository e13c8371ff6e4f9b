package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// EstimateWithdrawal previews the coin-to-rupee conversion without touching
// the wallet.
func (h *Handler) EstimateWithdrawal(c *gin.Context) {
	coins, err := strconv.ParseInt(c.Query("coins"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coins query parameter required"})
		return
	}

	rupees, ratio, err := h.WithdrawalService.Estimate(c.Request.Context(), coins)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coin_amount":  coins,
		"rupee_amount": rupees,
		"ratio":        ratio,
	})
}

type WithdrawalRequest struct {
	Coins int64 `json:"coins" binding:"required"`
}

// RequestWithdrawal debits the coins and opens a pending payout request.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req WithdrawalRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coins required"})
		return
	}

	w, err := h.WithdrawalService.Request(c.Request.Context(), userID, req.Coins)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"withdrawal": w})
}

func (h *Handler) ListWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	withdrawals, err := h.WithdrawalService.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

// CancelWithdrawal voids the user's own pending request and refunds coins.
func (h *Handler) CancelWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	w, err := h.WithdrawalService.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}
