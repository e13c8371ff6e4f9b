package handlers

import (
	"net/http"

	"livesocial_backend/internal/service"
	"livesocial_backend/internal/settlement"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListGifts(c *gin.Context) {
	gifts, err := h.GiftRepo.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": gifts})
}

type SendGiftRequest struct {
	ReceiverID int64 `json:"receiver_id" binding:"required"`
	GiftID     int64 `json:"gift_id" binding:"required"`
	Quantity   int64 `json:"quantity"`
}

// SendGift settles catalog price times quantity from sender to receiver.
// Gifts pay out regardless of either side's gender.
func (h *Handler) SendGift(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req SendGiftRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver_id and gift_id required"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}

	gift, err := h.GiftRepo.GetByID(c.Request.Context(), req.GiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !gift.Active {
		c.JSON(http.StatusNotFound, gin.H{"error": "gift not available", "code": "NOT_FOUND"})
		return
	}

	outcome, err := h.SettlementService.Settle(c.Request.Context(), service.SettleRequest{
		Kind:        settlement.EventGift,
		PayerID:     userID,
		PayeeID:     req.ReceiverID,
		GrossAmount: gift.CoinPrice * req.Quantity,
		Meta: map[string]interface{}{
			"gift_id":  gift.ID,
			"gift":     gift.Name,
			"quantity": req.Quantity,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settlement": outcome})
}
