package handlers

import (
	"errors"
	"net/http"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/logger"
	"livesocial_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type OTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// RequestOTP issues a login code for the phone. The code goes to the SMS
// collaborator; it is never returned in the response.
func (h *Handler) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone required"})
		return
	}

	code, err := h.OTPService.RequestCode(c.Request.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrOTPUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "otp unavailable"})
			return
		}
		respondError(c, err)
		return
	}

	// Handoff point for the SMS gateway. Logged at debug for local runs.
	logger.Debug("otp issued", "phone", req.Phone, "code", code)

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

type OTPVerifyRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Gender   string `json:"gender"`
	Username string `json:"username"`
}

// VerifyOTP exchanges a valid code for a session token, creating the user
// on first login.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone and code required"})
		return
	}

	token, user, err := h.OTPService.Verify(c.Request.Context(), req.Phone, req.Code, domain.Gender(req.Gender), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOTPInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code"})
		case errors.Is(err, service.ErrGenderRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "gender required for registration"})
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
