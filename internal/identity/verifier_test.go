package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub":       "u1",
		"email":     "owner@cafe1.test",
		"role":      "admin",
		"tenant_id": "cafe1",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify("Bearer " + raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "u1" || id.Email != "owner@cafe1.test" || id.Role != "admin" || id.TenantID != "cafe1" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifyFailuresAreGeneric(t *testing.T) {
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubject := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"expired", "Bearer " + expired},
		{"wrong signature", "Bearer " + wrongKey},
		{"missing subject", "Bearer " + noSubject},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := v.Verify(tc.header); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("want ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestNewVerifierRejectsEmptySecret(t *testing.T) {
	if _, err := NewVerifier("  "); err == nil {
		t.Fatal("empty secret must be rejected")
	}
}
