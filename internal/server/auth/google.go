package auth

import (
	"context"
	"errors"

	"github.com/28ori/Buddy4Life/internal/common"
	"google.golang.org/api/idtoken"
)

// AssertionClaims are the identity claims extracted from a verified
// third-party assertion.
type AssertionClaims struct {
	Email     string
	FirstName string
	LastName  string
	Picture   string
}

// AssertionVerifier validates a provider-signed identity assertion and
// returns the verified claims.
type AssertionVerifier interface {
	Verify(ctx context.Context, assertion string) (*AssertionClaims, error)
}

// GoogleVerifier verifies Google ID tokens against a configured audience.
type GoogleVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{audience: audience, validate: idtoken.Validate}
}

// Verify checks the assertion's signature, expiry and audience, then maps
// the standard profile claims. A verified token without an email claim is
// rejected: the email is the account key.
func (v *GoogleVerifier) Verify(ctx context.Context, assertion string) (*AssertionClaims, error) {
	if assertion == "" {
		return nil, common.ErrInvalidAssertion
	}

	payload, err := v.validate(ctx, assertion, v.audience)
	if err != nil {
		return nil, errors.Join(common.ErrInvalidAssertion, err)
	}

	claims := &AssertionClaims{
		Email:     stringClaim(payload.Claims, "email"),
		FirstName: stringClaim(payload.Claims, "given_name"),
		LastName:  stringClaim(payload.Claims, "family_name"),
		Picture:   stringClaim(payload.Claims, "picture"),
	}
	if claims.Email == "" {
		return nil, common.ErrInvalidAssertion
	}

	return claims, nil
}

func stringClaim(claims map[string]any, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}
