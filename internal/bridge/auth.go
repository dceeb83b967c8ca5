package bridge

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig holds the shared-key credentials the execution service uses
// to call the bridge endpoint.
type TokenConfig struct {
	Key      []byte
	Identity string
	TTL      time.Duration
}

// GenerateServiceToken mints an HS256 token for the execution service.
// Exposed so operators and tests can produce valid credentials.
func GenerateServiceToken(cfg *TokenConfig) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Identity,
		Subject:   cfg.Identity,
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Key)
}

// ValidateServiceToken parses and validates a bridge bearer token.
func ValidateServiceToken(cfg *TokenConfig, tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if cfg.Identity != "" && claims.Issuer != cfg.Identity {
		return nil, fmt.Errorf("invalid issuer")
	}

	return claims, nil
}
