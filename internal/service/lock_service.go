package service

import (
	"context"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = fmt.Errorf("%w: invalid passcode", domain.ErrUnauthorized)
	ErrInvalidToken         = fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)
)

const minPasscodeLength = 4

// --- Service Interface ---

// LockService guards the local API with an optional passcode. Without a passcode the API
// is open.
type LockService interface {
	Enabled() bool
	SetPasscode(ctx context.Context, current, passcode string) error
	Unlock(ctx context.Context, passcode string) (string, error)
	ValidateToken(token string) error
}

// --- Service Implementation ---

type lockService struct {
	prefs         PreferenceService
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewLockService creates the app-lock service. The secret must not be empty.
func NewLockService(prefs PreferenceService, jwtSecret string, jwtExpiration time.Duration) LockService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &lockService{
		prefs:         prefs,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

func (s *lockService) Enabled() bool {
	return s.prefs.Get().PasscodeHash != ""
}

// SetPasscode sets, changes or (with an empty passcode) removes the lock. Once a lock is
// set, the current passcode is required to change it.
func (s *lockService) SetPasscode(ctx context.Context, current, passcode string) error {
	if s.Enabled() {
		if err := s.check(current); err != nil {
			return err
		}
	}
	if passcode == "" {
		return s.prefs.SetPasscodeHash(ctx, "")
	}
	if len(passcode) < minPasscodeLength {
		return fmt.Errorf("%w: passcode must have at least %d characters", domain.ErrInvalidArgument, minPasscodeLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return domain.Wrap(domain.ErrEncoding, err)
	}
	return s.prefs.SetPasscodeHash(ctx, string(hash))
}

// Unlock exchanges the passcode for a signed token.
func (s *lockService) Unlock(ctx context.Context, passcode string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("%w: no passcode is set", domain.ErrInvalidArgument)
	}
	if err := s.check(passcode); err != nil {
		return "", err
	}
	return s.generateJWT()
}

func (s *lockService) check(passcode string) error {
	hash := s.prefs.Get().PasscodeHash
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)); err != nil {
		return ErrAuthenticationFailed
	}
	return nil
}

// ValidateToken verifies signature, algorithm and expiry.
func (s *lockService) ValidateToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// --- JWT Helper ---

func (s *lockService) generateJWT() (string, error) {
	now := s.now()
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   "app-lock",
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "workout-tracker",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", domain.Wrap(domain.ErrEncoding, err)
	}
	return signed, nil
}
