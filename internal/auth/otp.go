package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
)

var (
	ErrNoOTPPending = errors.New("no otp pending")
	ErrOTPExpired   = errors.New("otp expired")
	ErrOTPMismatch  = errors.New("otp mismatch")
)

const otpTTL = 10 * time.Minute

// OTPService issues and verifies one-time codes. Codes are six decimal
// digits, stored bcrypt-hashed with a ten minute expiry.
type OTPService struct {
	users *store.UserStore
	now   func() time.Time
}

func NewOTPService(users *store.UserStore) *OTPService {
	return &OTPService{
		users: users,
		now:   time.Now,
	}
}

// Generate draws a uniform code in [100000, 999999].
func (s *OTPService) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))

	if err != nil {
		return "", err
	}

	return big.NewInt(0).Add(n, big.NewInt(100000)).String(), nil
}

// Issue stores a fresh code against the user and returns the plaintext for
// mailing. Any previously pending code is replaced.
func (s *OTPService) Issue(ctx context.Context, user *models.User) (string, error) {
	code, err := s.Generate()

	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(otpTTL)

	if err := s.users.SetOTP(ctx, user.ID, string(hash), expiresAt); err != nil {
		return "", err
	}

	hashStr := string(hash)
	user.OTPHash = &hashStr
	user.OTPExpiresAt = &expiresAt

	return code, nil
}

// Verify checks the submitted code against the pending one and consumes it.
// markVerified additionally flips the account to verified in the same write.
func (s *OTPService) Verify(ctx context.Context, user *models.User, submitted string, markVerified bool) error {
	if !user.HasPendingOTP() {
		return ErrNoOTPPending
	}

	if s.now().After(*user.OTPExpiresAt) {
		return ErrOTPExpired
	}

	submitted = strings.TrimSpace(submitted)

	if bcrypt.CompareHashAndPassword([]byte(*user.OTPHash), []byte(submitted)) != nil {
		return ErrOTPMismatch
	}

	if err := s.users.ConsumeOTP(ctx, user.ID, markVerified); err != nil {
		return err
	}

	user.OTPHash = nil
	user.OTPExpiresAt = nil

	if markVerified {
		user.IsVerified = true
	}

	return nil
}
