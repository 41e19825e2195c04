package utils

import (
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of an access token. Subject carries the user ID.
type SessionClaims struct {
	Role          domain.Role `json:"role,omitempty"`
	ParentAdminID *string     `json:"parentAdminId,omitempty"`
	Name          string      `json:"name,omitempty"`
	Email         string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new access token for the given principal.
func GenerateJWT(identity domain.Identity, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role:          identity.Role,
		ParentAdminID: identity.ParentAdminID,
		Name:          identity.Name,
		Email:         identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string, validates its signature and standard claims.
func ParseAndValidateJWT(tokenString string, secretKey string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
