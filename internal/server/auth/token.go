// Package auth implements the credential primitives of the server:
// JWT issuance and verification, password hashing, and federated
// identity-assertion verification.
package auth

import (
	"errors"
	"time"

	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT claim set: the registered claims plus the user identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken signs a token carrying userID with the given secret,
// valid for validityDuration from now. Each token gets a unique jti, so
// two tokens minted in the same second for the same user still differ.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies tokenString against secretKey and returns the
// embedded user identifier. Malformed, expired, and badly signed tokens all
// collapse into common.ErrInvalidToken so callers cannot distinguish them.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return "", errors.Join(common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// Issuer mints and verifies the two token classes. Access and refresh
// tokens are signed with distinct secrets so that a leaked access-signing
// key cannot forge refresh tokens.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL returns the refresh-token lifetime, which also bounds the
// lifetime of the cookie carrying it.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// IssueAccess mints a short-lived access token for userID.
func (i *Issuer) IssueAccess(userID string) (string, error) {
	return GenerateToken(userID, i.accessSecret, i.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for userID.
func (i *Issuer) IssueRefresh(userID string) (string, error) {
	return GenerateToken(userID, i.refreshSecret, i.refreshTTL)
}

// ParseAccess verifies an access token and returns the user identifier.
func (i *Issuer) ParseAccess(token string) (string, error) {
	return GetUserIDFromToken(token, i.accessSecret)
}

// ParseRefresh verifies a refresh token and returns the user identifier.
// Cryptographic validity alone does not make a refresh token usable; the
// session service additionally checks membership in the user's stored set.
func (i *Issuer) ParseRefresh(token string) (string, error) {
	return GetUserIDFromToken(token, i.refreshSecret)
}
