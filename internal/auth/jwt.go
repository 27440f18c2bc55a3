package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"spendtrack/internal/config"
)

// ErrInvalidToken is returned for every verification failure. Callers see a
// single error so no internal detail leaks to unauthenticated clients.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer signs and verifies bearer tokens. The secret, the signing
// algorithm and the TTL come from configuration; the same issuer must be
// shared (or identically configured) between the user and expense services.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenIssuer builds a TokenIssuer from configuration.
func NewTokenIssuer(cfg *config.Config) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.JWTAlgorithm)
	}
	return &TokenIssuer{
		secret: []byte(cfg.JWTSecret),
		method: method,
		ttl:    cfg.JWTTTL,
	}, nil
}

// Issue creates a signed token for the given user id, valid for the
// configured TTL.
func (ti *TokenIssuer) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(ti.method, claims)
	return token.SignedString(ti.secret)
}

// Verify parses and validates a token string and returns the user id from
// its subject claim. Expiry is the only invalidation path; there is no
// revocation list.
func (ti *TokenIssuer) Verify(tokenStr string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != ti.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
