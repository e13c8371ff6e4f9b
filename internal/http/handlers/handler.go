package handlers

import (
	"errors"
	"net/http"
	"time"

	"livesocial_backend/internal/repository"
	"livesocial_backend/internal/service"
	"livesocial_backend/internal/settlement"
	"livesocial_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB  *pgxpool.Pool
	Hub *ws.Hub

	UserRepo           *repository.UserRepository
	GiftRepo           *repository.GiftRepository
	CallRepo           *repository.CallRepository
	ReconciliationRepo *repository.ReconciliationRepository

	OTPService        *service.OTPService
	WalletService     *service.WalletService
	SettlementService *service.SettlementService
	WithdrawalService *service.WithdrawalService
	RateService       *service.RateService
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub, otp *service.OTPService, rateCacheTTL time.Duration) *Handler {
	rates := service.NewRateService(repository.NewRateConfigRepository(db), rateCacheTTL)
	return &Handler{
		DB:  db,
		Hub: hub,

		UserRepo:           repository.NewUserRepository(db),
		GiftRepo:           repository.NewGiftRepository(db),
		CallRepo:           repository.NewCallRepository(db),
		ReconciliationRepo: repository.NewReconciliationRepository(db),

		OTPService:        otp,
		WalletService:     service.NewWalletService(db),
		SettlementService: service.NewSettlementService(db, rates),
		WithdrawalService: service.NewWithdrawalService(db, rates),
		RateService:       rates,
	}
}

// getUserID reads the id the JWT middleware put into the context.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// respondError maps service/repository sentinels onto HTTP codes. Partial
// settlements get a distinct code so clients do not blind-retry a debit.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient coins", "code": "INSUFFICIENT_BALANCE"})
	case errors.Is(err, service.ErrPartialSettlement):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed, queued for reconciliation", "code": "PARTIAL_SETTLEMENT"})
	case errors.Is(err, settlement.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSelfSettle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount", "code": "INVALID_AMOUNT"})
	case errors.Is(err, settlement.ErrNotMultiple):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a multiple of the conversion ratio", "code": "INVALID_AMOUNT"})
	case errors.Is(err, settlement.ErrBelowMinimum):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount below minimum withdrawal", "code": "INVALID_AMOUNT"})
	case errors.Is(err, service.ErrPendingWithdrawal):
		c.JSON(http.StatusConflict, gin.H{"error": "a withdrawal is already pending", "code": "WITHDRAWAL_PENDING"})
	case errors.Is(err, service.ErrPayerNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrWalletNotFound),
		errors.Is(err, repository.ErrCallNotFound),
		errors.Is(err, repository.ErrGiftNotFound),
		errors.Is(err, repository.ErrWithdrawalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": "NOT_FOUND"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
