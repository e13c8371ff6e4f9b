package handlers

import (
	"net/http"
	"strconv"

	"livesocial_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetWallet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	wallet, err := h.WalletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// GetTransactions returns the ledger history, optionally filtered by type
// (?type=call_earning) and limited (?limit=50).
func (h *Handler) GetTransactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	txType := domain.TransactionType(c.Query("type"))

	history, err := h.WalletService.History(c.Request.Context(), userID, txType, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": history})
}

type RechargeRequest struct {
	Coins         int64  `json:"coins" binding:"required"`
	TransactionID string `json:"transaction_id"`
}

// Recharge credits purchased coins against an external payment reference.
func (h *Handler) Recharge(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req RechargeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coins required"})
		return
	}

	newBalance, err := h.WalletService.Recharge(c.Request.Context(), userID, req.Coins, req.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coin_balance": newBalance})
}
