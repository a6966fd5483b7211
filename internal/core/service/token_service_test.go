package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openblog/blog-api/internal/core/domain"
	"github.com/openblog/blog-api/internal/core/ports"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)

	want := ports.Claims{UserID: 42, Email: "ada@example.com", RoleID: domain.RoleUser, Name: "Ada"}
	token, err := svc.Issue(want)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned an empty token")
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if *got != want {
		t.Fatalf("Verify() = %+v, want %+v", *got, want)
	}
}

func TestTokenDefaultTTL(t *testing.T) {
	svc := NewJWTTokenService(testSecret, 0)
	if svc.ttl != time.Hour {
		t.Fatalf("default ttl = %v, want %v", svc.ttl, time.Hour)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)
	// Force an already-expired token by bypassing the constructor clamp.
	svc.ttl = -time.Minute

	token, err := svc.Issue(ports.Claims{UserID: 1, RoleID: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("Verify(expired) = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewJWTTokenService("secret-a", time.Hour).Issue(ports.Claims{UserID: 1, RoleID: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := NewJWTTokenService("secret-b", time.Hour).Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("Verify(wrong secret) = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)
	token, err := svc.Issue(ports.Claims{UserID: 1, RoleID: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.Verify(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("Verify(tampered) = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestVerifyUnsignedAlgorithmRejected(t *testing.T) {
	mc := jwt.MapClaims{
		"id":     float64(1),
		"roleId": float64(domain.RoleUser),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, mc).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	svc := NewJWTTokenService(testSecret, time.Hour)
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("Verify(alg=none) = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyBadIdentityClaims(t *testing.T) {
	sign := func(mc jwt.MapClaims) string {
		mc["exp"] = time.Now().Add(time.Hour).Unix()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("signing token: %v", err)
		}
		return token
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing id", token: sign(jwt.MapClaims{"roleId": 2})},
		{name: "zero id", token: sign(jwt.MapClaims{"id": 0, "roleId": 2})},
		{name: "fractional id", token: sign(jwt.MapClaims{"id": 1.5, "roleId": 2})},
		{name: "string id", token: sign(jwt.MapClaims{"id": "1", "roleId": 2})},
		{name: "missing role", token: sign(jwt.MapClaims{"id": 1})},
		{name: "unknown role", token: sign(jwt.MapClaims{"id": 1, "roleId": 9})},
	}

	svc := NewJWTTokenService(testSecret, time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("Verify() = %v, want ErrInvalidToken", err)
			}
		})
	}
}
