// Package auth implements the stateless credential primitives of the wallet
// server: HS256 access tokens and bcrypt password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/wallet/internal/common"
	"github.com/dmitrijs2005/wallet/internal/server/models"
)

// Claims carries the registered claims plus the custom wallet claims.
// Subject is the username; UserID and Roles are embedded so most requests
// do not need a user lookup just to learn the caller's id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"userId"`
	Roles  []string `json:"roles"`
}

// GenerateToken signs an access token for user with subject = username and
// the id/role custom claims.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: user.ID,
		Roles:  []string{string(user.Role)},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns
// its claims. Malformed, tampered, or expired tokens all yield
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ExtractSubject returns the subject (username) of a verified token.
func ExtractSubject(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValidFor reports whether tokenString is an unexpired token whose
// subject matches user's username.
func IsValidFor(tokenString string, user *models.User, secretKey []byte) bool {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return false
	}
	return claims.Subject == user.Username
}
