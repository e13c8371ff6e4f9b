package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/service"
	"livesocial_backend/internal/settlement"
	"livesocial_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type StartCallRequest struct {
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	CallType   string `json:"call_type" binding:"required"`
}

// StartCall opens a ringing session and pushes a call_invite frame to the
// receiver's socket. The caller must be able to afford at least one minute.
func (h *Handler) StartCall(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req StartCallRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver_id and call_type required"})
		return
	}

	callType := domain.CallType(req.CallType)
	if !callType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "call_type must be audio or video"})
		return
	}
	if req.ReceiverID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot call yourself"})
		return
	}

	receiver, err := h.UserRepo.GetByID(c.Request.Context(), req.ReceiverID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.Hub.IsAvailable(receiver.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "receiver unavailable", "code": "RECEIVER_UNAVAILABLE"})
		return
	}

	rates := h.RateService.Current(c.Request.Context())
	perMinute := settlement.CoinsPerMinute(rates, callType, receiver.ProfileTier)

	wallet, err := h.WalletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if wallet.CoinBalance < perMinute {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient coins", "code": "INSUFFICIENT_BALANCE"})
		return
	}

	session := &domain.CallSession{
		CallerID:   userID,
		ReceiverID: receiver.ID,
		Type:       callType,
	}
	if err := h.CallRepo.Create(c.Request.Context(), session); err != nil {
		respondError(c, err)
		return
	}

	invite, _ := json.Marshal(gin.H{"call_id": session.ID, "call_type": callType, "coins_per_minute": perMinute})
	h.Hub.SendTo(receiver.ID, ws.Frame{Type: ws.FrameCallInvite, From: userID, To: receiver.ID, Data: invite})

	c.JSON(http.StatusCreated, gin.H{
		"call":             session,
		"coins_per_minute": perMinute,
	})
}

// AcceptCall moves a ringing session to ongoing and flags both peers busy.
func (h *Handler) AcceptCall(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	callID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call id"})
		return
	}

	session, err := h.CallRepo.GetByID(c.Request.Context(), callID)
	if err != nil {
		respondError(c, err)
		return
	}
	if session.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the receiver of this call"})
		return
	}

	if err := h.CallRepo.MarkOngoing(c.Request.Context(), callID); err != nil {
		respondError(c, err)
		return
	}

	h.Hub.SetBusy(session.CallerID, true)
	h.Hub.SetBusy(session.ReceiverID, true)

	c.JSON(http.StatusOK, gin.H{"status": "ongoing"})
}

type EndCallRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

// EndCall closes the session and settles the charge: duration times the
// per-minute rate for the receiver's tier, debited from the caller. A call
// that never connected, or ran zero whole minutes, ends free of charge.
// The session-level status guard makes a second end a no-op, so the
// settlement cannot run twice for one call.
func (h *Handler) EndCall(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	callID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call id"})
		return
	}

	var req EndCallRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.DurationMinutes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration_minutes must not be negative"})
		return
	}

	session, err := h.CallRepo.GetByID(c.Request.Context(), callID)
	if err != nil {
		respondError(c, err)
		return
	}
	if session.CallerID != userID && session.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this call"})
		return
	}

	billable := session.Status == domain.CallOngoing && req.DurationMinutes > 0

	endStatus := domain.CallEnded
	if session.Status == domain.CallRinging {
		endStatus = domain.CallMissed
	}
	if err := h.CallRepo.End(c.Request.Context(), callID, req.DurationMinutes, endStatus); err != nil {
		respondError(c, err)
		return
	}

	h.Hub.SetBusy(session.CallerID, false)
	h.Hub.SetBusy(session.ReceiverID, false)

	if !billable {
		c.JSON(http.StatusOK, gin.H{"status": endStatus, "charged": false})
		return
	}

	receiver, err := h.UserRepo.GetByID(c.Request.Context(), session.ReceiverID)
	tier := domain.TierBasic
	if err == nil {
		tier = receiver.ProfileTier
	}

	rates := h.RateService.Current(c.Request.Context())
	gross := int64(req.DurationMinutes) * settlement.CoinsPerMinute(rates, session.Type, tier)

	outcome, err := h.SettlementService.Settle(c.Request.Context(), service.SettleRequest{
		Kind:        settlement.EventCall,
		PayerID:     session.CallerID,
		PayeeID:     session.ReceiverID,
		GrossAmount: gross,
		Meta: map[string]interface{}{
			"call_id":          session.ID,
			"call_type":        session.Type,
			"duration_minutes": req.DurationMinutes,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     domain.CallEnded,
		"charged":    true,
		"settlement": outcome,
	})
}

// GetCall returns one session; participants only.
func (h *Handler) GetCall(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	callID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call id"})
		return
	}

	session, err := h.CallRepo.GetByID(c.Request.Context(), callID)
	if err != nil {
		respondError(c, err)
		return
	}
	if session.CallerID != userID && session.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this call"})
		return
	}

	c.JSON(http.StatusOK, session)
}
