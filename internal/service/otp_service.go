package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/repository"

	redis "github.com/redis/go-redis/v9"
)

var (
	ErrOTPUnavailable = errors.New("otp service unavailable")
	ErrOTPInvalid     = errors.New("invalid or expired code")
	ErrGenderRequired = errors.New("gender required for registration")
)

// OTPService issues login codes and exchanges verified codes for JWTs.
// Codes live in Redis with a TTL; only a hash of the code is stored.
// Delivery (SMS) is a collaborator's concern and is not handled here.
type OTPService struct {
	redis    *redis.Client
	userRepo *repository.UserRepository
	ttl      time.Duration
	devCode  string
}

func NewOTPService(rdb *redis.Client, userRepo *repository.UserRepository, ttl time.Duration, devCode string) *OTPService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OTPService{redis: rdb, userRepo: userRepo, ttl: ttl, devCode: devCode}
}

// RequestCode generates a 6-digit code for the phone and stores its hash.
// The code is returned to the caller for handoff to the SMS collaborator.
func (s *OTPService) RequestCode(ctx context.Context, phone string) (string, error) {
	if s.redis == nil {
		if s.devCode != "" {
			return s.devCode, nil
		}
		return "", ErrOTPUnavailable
	}

	code := s.devCode
	if code == "" {
		n, err := rand.Int(rand.Reader, big.NewInt(1000000))
		if err != nil {
			return "", err
		}
		code = fmt.Sprintf("%06d", n.Int64())
	}

	if err := s.redis.Set(ctx, otpKey(phone), hashCode(code), s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the code, creates the user on first login and returns a
// session token. Gender is immutable: it is required on first login and
// ignored afterwards.
func (s *OTPService) Verify(ctx context.Context, phone, code string, gender domain.Gender, username string) (string, *domain.User, error) {
	if !s.checkCode(ctx, phone, code) {
		return "", nil, ErrOTPInvalid
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if errors.Is(err, repository.ErrUserNotFound) {
		if !gender.Valid() {
			return "", nil, ErrGenderRequired
		}
		user = &domain.User{
			Phone:    phone,
			Username: username,
			Gender:   gender,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", nil, err
		}
	} else if err != nil {
		return "", nil, err
	}

	token, err := GenerateJWT(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *OTPService) checkCode(ctx context.Context, phone, code string) bool {
	if s.redis == nil {
		return s.devCode != "" && subtle.ConstantTimeCompare([]byte(code), []byte(s.devCode)) == 1
	}

	stored, err := s.redis.Get(ctx, otpKey(phone)).Result()
	if err != nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(hashCode(code))) != 1 {
		return false
	}
	// single use
	s.redis.Del(ctx, otpKey(phone))
	return true
}

func otpKey(phone string) string {
	return "otp:" + phone
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
