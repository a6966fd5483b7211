package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openblog/blog-api/internal/core/domain"
	"github.com/openblog/blog-api/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// JWTTokenService signs and verifies identity tokens with a server-held
// HS256 secret. The secret is read-only after construction.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTTokenService(secret string, ttl time.Duration) *JWTTokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs the identity claims with a fixed expiry.
func (s *JWTTokenService) Issue(claims ports.Claims) (string, error) {
	mc := jwt.MapClaims{
		"id":     claims.UserID,
		"email":  claims.Email,
		"roleId": claims.RoleID,
		"name":   claims.Name,
		"exp":    time.Now().Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token. Malformed input, bad signature,
// unexpected algorithm, expiry, and incomplete or mistyped identity claims
// all collapse to domain.ErrInvalidToken so callers cannot tell which check
// failed.
func (s *JWTTokenService) Verify(token string) (*ports.Claims, error) {
	mc := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	id, ok := claimInt64(mc["id"])
	if !ok || id < 1 {
		return nil, domain.ErrInvalidToken
	}
	roleID, ok := claimInt64(mc["roleId"])
	if !ok || !domain.KnownRole(int(roleID)) {
		return nil, domain.ErrInvalidToken
	}
	email, _ := mc["email"].(string)
	name, _ := mc["name"].(string)

	return &ports.Claims{UserID: id, Email: email, RoleID: int(roleID), Name: name}, nil
}

// claimInt64 converts a decoded JSON claim to an integer. JSON numbers decode
// as float64; fractional values are rejected rather than truncated.
func claimInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
