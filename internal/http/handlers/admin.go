package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/repository"
	"livesocial_backend/internal/settlement"

	"github.com/gin-gonic/gin"
)

// GetRates returns the stored rate table, or the defaults when no row has
// been written yet.
func (h *Handler) GetRates(c *gin.Context) {
	cfg, err := h.RateService.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrRateConfigMissing) {
			d := settlement.DefaultRates()
			c.JSON(http.StatusOK, gin.H{
				"rates": domain.RateConfig{
					AdminCommissionPercent: d.AdminCommissionPercent,
					GstarCommissionPercent: d.GstarCommissionPercent,
					GiconCommissionPercent: d.GiconCommissionPercent,
					CoinToRupeeRatio:       d.CoinToRupeeRatio,
					AudioCallRate:          d.AudioCallRate,
					VideoCallRate:          d.VideoCallRate,
					GiconRateMultiplier:    d.GiconRateMultiplier,
					GstarRateMultiplier:    d.GstarRateMultiplier,
				},
				"source": "defaults",
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rates": cfg, "source": "stored"})
}

// UpdateRates rewrites the rate table. The next settlement picks up the new
// values; in-flight ones finish on the snapshot they started with.
func (h *Handler) UpdateRates(c *gin.Context) {
	var cfg domain.RateConfig
	if err := c.BindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate config"})
		return
	}

	for _, pct := range []int64{cfg.AdminCommissionPercent, cfg.GstarCommissionPercent, cfg.GiconCommissionPercent} {
		if pct < 0 || pct > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "commission percents must be between 0 and 100"})
			return
		}
	}
	if cfg.CoinToRupeeRatio <= 0 || cfg.AudioCallRate <= 0 || cfg.VideoCallRate <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ratio and call rates must be positive"})
		return
	}
	if cfg.GiconRateMultiplier <= 0 || cfg.GstarRateMultiplier <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate multipliers must be positive"})
		return
	}

	if err := h.RateService.Update(c.Request.Context(), &cfg); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rates": cfg})
}

type SetTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// SetUserTier promotes or demotes a user's profile tier, which changes the
// commission rate and per-minute pricing applied to their future earnings.
func (h *Handler) SetUserTier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req SetTierRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tier required"})
		return
	}

	tier := domain.ProfileTier(req.Tier)
	if !tier.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tier must be basic, gicon or gstar"})
		return
	}

	if err := h.UserRepo.SetTier(c.Request.Context(), id, tier); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": id, "tier": tier})
}

type GiftUpsertRequest struct {
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	CoinPrice int64  `json:"coin_price" binding:"required"`
	Active    *bool  `json:"active"`
}

func (h *Handler) CreateGift(c *gin.Context) {
	var req GiftUpsertRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and coin_price required"})
		return
	}
	if req.CoinPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coin_price must be positive"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	gift := &domain.Gift{Name: req.Name, Icon: req.Icon, CoinPrice: req.CoinPrice, Active: active}
	if err := h.GiftRepo.Create(c.Request.Context(), gift); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"gift": gift})
}

func (h *Handler) UpdateGift(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gift id"})
		return
	}

	var req GiftUpsertRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and coin_price required"})
		return
	}
	if req.CoinPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coin_price must be positive"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	gift := &domain.Gift{ID: id, Name: req.Name, Icon: req.Icon, CoinPrice: req.CoinPrice, Active: active}
	if err := h.GiftRepo.Update(c.Request.Context(), gift); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gift": gift})
}

func (h *Handler) PendingWithdrawals(c *gin.Context) {
	withdrawals, err := h.WithdrawalService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

type ResolveWithdrawalRequest struct {
	Notes string `json:"notes"`
}

// CompleteWithdrawal marks a payout as done after the money left the bank.
func (h *Handler) CompleteWithdrawal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req ResolveWithdrawalRequest
	_ = c.BindJSON(&req)

	if err := h.WithdrawalService.Complete(c.Request.Context(), id, req.Notes); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// RejectWithdrawal refuses a payout and refunds the coins.
func (h *Handler) RejectWithdrawal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req ResolveWithdrawalRequest
	_ = c.BindJSON(&req)

	if err := h.WithdrawalService.Reject(c.Request.Context(), id, req.Notes); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

func (h *Handler) PendingReconciliations(c *gin.Context) {
	recs, err := h.ReconciliationRepo.GetPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciliations": recs})
}

// ResolveReconciliation closes a reconciliation event after manual replay.
func (h *Handler) ResolveReconciliation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reconciliation id"})
		return
	}

	if err := h.ReconciliationRepo.Resolve(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}
