package share

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestManager(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	m, err := NewManager("test-secret", time.Hour, WithClock(clock))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, expiresAt, err := m.Issue("bill-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, now.Add(time.Hour))
	}

	t.Run("valid token", func(t *testing.T) {
		claims, err := m.Verify(token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if claims.BillID != "bill-1" || claims.Subject != "bill-1" {
			t.Errorf("unexpected claims: %+v", claims)
		}
		if claims.ID == "" {
			t.Error("expected a token ID")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		later, err := NewManager("test-secret", time.Hour, WithClock(func() time.Time { return now.Add(2 * time.Hour) }))
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if _, err := later.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewManager("other-secret", time.Hour, WithClock(clock))
		if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		parts := strings.Split(token, ".")
		parts[1] = parts[1][:len(parts[1])-2] + "AA"
		if _, err := m.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := &Claims{BillID: "bill-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"}}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := m.Verify(forged); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestManager_NoExpiry(t *testing.T) {
	m, err := NewManager("s", 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	token, expiresAt, err := m.Issue("b")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !expiresAt.IsZero() {
		t.Errorf("expected zero expiry, got %v", expiresAt)
	}
	if _, err := m.Verify(token); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestNewManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager("", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
	m, _ := NewManager("s", time.Hour)
	if _, _, err := m.Issue(""); err == nil {
		t.Error("expected error for empty bill id")
	}
}
