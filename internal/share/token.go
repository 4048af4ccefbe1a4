// Package share issues and verifies signed read-only links to a single bill.
package share

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "tabsplit"

var (
	ErrInvalidToken  = errors.New("invalid or expired share token")
	ErrMissingSecret = errors.New("share secret must not be empty")
)

// Manager handles share token generation and validation.
type Manager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// Claims identifies the shared bill.
type Claims struct {
	BillID string `json:"bill_id"`
	jwt.RegisteredClaims
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a token manager. Tokens stay valid for ttl; a
// non-positive ttl issues tokens that never expire.
func NewManager(secretKey string, ttl time.Duration, opts ...Option) (*Manager, error) {
	if secretKey == "" {
		return nil, ErrMissingSecret
	}
	m := &Manager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue creates a token granting read access to billID. The zero time is
// returned as expiry for tokens that never expire.
func (m *Manager) Issue(billID string) (string, time.Time, error) {
	if billID == "" {
		return "", time.Time{}, errors.New("bill id is required")
	}

	now := m.now()
	claims := &Claims{
		BillID: billID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   billID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = now.Add(m.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a share token, returning its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.BillID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
