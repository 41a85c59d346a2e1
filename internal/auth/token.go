package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity and the resolved permission strings so
// API authorization never needs a database round trip.
type Claims struct {
	jwt.RegisteredClaims
	UserID       int64    `json:"userId"`
	Email        string   `json:"email"`
	Nome         string   `json:"nome"`
	IsAdmin      bool     `json:"isAdmin"`
	IsSuperAdmin bool     `json:"isSuperAdmin"`
	Permissions  []string `json:"permissions"`
}

func signToken(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("auth: jwt secret vazio")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: método de assinatura inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: claims inválidos")
	}
	return claims, nil
}

func newRegisteredClaims(now time.Time, ttl time.Duration, subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    "trama-erp",
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}
