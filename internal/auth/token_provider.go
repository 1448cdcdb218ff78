// Package auth provides token providers for authenticating requests against
// Delta Sharing servers.
package auth

import (
	"context"
	"time"

	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

// BearerTokenProvider serves a fixed bearer token, optionally bounded by an
// expiration time. Expiry is checked on every call.
type BearerTokenProvider struct {
	token      string
	expiration *time.Time
}

// NewBearerTokenProvider creates a provider for a token with an optional
// expiration time.
func NewBearerTokenProvider(token string, expiration *time.Time) *BearerTokenProvider {
	return &BearerTokenProvider{
		token:      token,
		expiration: expiration,
	}
}

// NewStaticTokenProvider creates a provider for a token that never expires.
func NewStaticTokenProvider(token string) *BearerTokenProvider {
	return NewBearerTokenProvider(token, nil)
}

// GetToken returns the configured token, or an error when it is missing or
// past its expiration time.
func (p *BearerTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", constants.ErrMissingBearerToken
	}

	if p.expiration != nil && time.Now().After(*p.expiration) {
		return "", constants.ErrTokenExpired
	}

	return p.token, nil
}

// NewProfileTokenProvider creates the provider matching the profile's
// credential variant.
func NewProfileTokenProvider(profile *sharing.Profile) (sharing.TokenProvider, error) {
	if profile == nil {
		return nil, constants.ErrNilProfile
	}

	if bearer, ok := profile.BearerToken(); ok {
		return NewBearerTokenProvider(bearer.Token(), bearer.ExpirationTime()), nil
	}

	return nil, constants.ErrUnsupportedAuthVariant
}
