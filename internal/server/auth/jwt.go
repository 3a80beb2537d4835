// Package auth issues and verifies the credentials the server accepts:
// HS256 access tokens and signed login proofs.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "timevault"
	tokenAudience = "timevault-api"
)

// Claims carries the authenticated identity (base58 public key) in the
// standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// nowFunc is swapped in tests.
var nowFunc = time.Now

// GenerateToken signs an access token for identity that expires after
// validity.
func GenerateToken(identity string, secretKey []byte, validity time.Duration) (string, error) {
	now := nowFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// GetIdentityFromToken validates tokenString and returns its subject.
// An expired token yields common.ErrTokenExpired and any other defect
// common.ErrInvalidToken.
func GetIdentityFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(nowFunc),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	case err != nil, claims.Subject == "":
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
