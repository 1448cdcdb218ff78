package sharing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/fivetwenty-io/deltashare/internal/constants"
)

// BearerToken is the bearer credential variant of a profile. A token without
// an expiration time is valid indefinitely.
type BearerToken struct {
	token          string
	expirationTime *time.Time
}

// NewBearerToken creates a bearer token credential.
func NewBearerToken(token string, expirationTime *time.Time) BearerToken {
	return BearerToken{token: token, expirationTime: expirationTime}
}

// Token returns the raw bearer token.
func (b BearerToken) Token() string {
	return b.token
}

// ExpirationTime returns the expiration time, if any.
func (b BearerToken) ExpirationTime() *time.Time {
	return b.expirationTime
}

// HasExpired reports whether the token's expiration time is strictly in the
// past. Tokens without an expiration time never expire.
func (b BearerToken) HasExpired() bool {
	if b.expirationTime == nil {
		return false
	}

	return time.Now().After(*b.expirationTime)
}

// String implements fmt.Stringer with the token redacted.
func (b BearerToken) String() string {
	expiration := "none"
	if b.expirationTime != nil {
		expiration = b.expirationTime.Format(time.RFC3339)
	}

	return fmt.Sprintf("BearerToken{token: %s, expirationTime: %s}", constants.MaskedSecret, expiration)
}

// Profile holds the endpoint and credentials needed to connect to a sharing
// server. Profiles are usually loaded from a profile file.
type Profile struct {
	shareCredentialsVersion int
	endpoint                string
	bearerToken             *BearerToken
}

// profileFile is the on-disk JSON shape of a profile.
type profileFile struct {
	ShareCredentialsVersion int        `json:"shareCredentialsVersion"`
	Endpoint                string     `json:"endpoint"`
	BearerToken             *string    `json:"bearerToken,omitempty"`
	ExpirationTime          *time.Time `json:"expirationTime,omitempty"`
}

// LoadProfile reads and validates a profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewProfileError(fmt.Sprintf("failed to open profile file at %s", path)).WithCause(err)
	}

	profile, err := ParseProfile(data)
	if err != nil {
		sharingErr := &Error{}
		if errors.As(err, &sharingErr) {
			sharingErr.Message = fmt.Sprintf("%s at %s", sharingErr.Message, path)
		}

		return nil, err
	}

	return profile, nil
}

// ParseProfile validates profile JSON held in memory.
func ParseProfile(data []byte) (*Profile, error) {
	var file profileFile

	err := json.Unmarshal(data, &file)
	if err != nil {
		return nil, NewProfileError("failed to parse profile file").WithCause(err)
	}

	err = validateEndpoint(file.Endpoint)
	if err != nil {
		return nil, err
	}

	if file.ShareCredentialsVersion != constants.SupportedCredentialsVersion {
		return nil, NewProfileError(fmt.Sprintf("unsupported share credentials version: %d", file.ShareCredentialsVersion))
	}

	if file.BearerToken == nil || *file.BearerToken == "" {
		return nil, NewProfileError("invalid profile file").WithCause(constants.ErrMissingBearerToken)
	}

	token := NewBearerToken(*file.BearerToken, file.ExpirationTime)

	return &Profile{
		shareCredentialsVersion: file.ShareCredentialsVersion,
		endpoint:                file.Endpoint,
		bearerToken:             &token,
	}, nil
}

// NewBearerTokenProfile creates a version 1 profile from an endpoint and a
// bearer token.
func NewBearerTokenProfile(endpoint, token string, expirationTime *time.Time) (*Profile, error) {
	err := validateEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, NewProfileError("invalid profile").WithCause(constants.ErrMissingBearerToken)
	}

	bearer := NewBearerToken(token, expirationTime)

	return &Profile{
		shareCredentialsVersion: constants.SupportedCredentialsVersion,
		endpoint:                endpoint,
		bearerToken:             &bearer,
	}, nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return NewProfileError("invalid profile").WithCause(constants.ErrProfileEndpointRequired)
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return NewProfileError("failed to parse endpoint URL in profile").WithCause(err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return NewProfileError(fmt.Sprintf("failed to parse endpoint URL in profile: %q is not an absolute URL", endpoint))
	}

	return nil
}

// ShareCredentialsVersion returns the profile's credentials version.
func (p *Profile) ShareCredentialsVersion() int {
	return p.shareCredentialsVersion
}

// Endpoint returns the profile's server endpoint.
func (p *Profile) Endpoint() string {
	return p.endpoint
}

// IsBearerToken reports whether the profile carries a bearer token
// credential.
func (p *Profile) IsBearerToken() bool {
	return p.bearerToken != nil
}

// BearerToken returns the bearer credential when the profile carries one.
func (p *Profile) BearerToken() (BearerToken, bool) {
	if p.bearerToken == nil {
		return BearerToken{}, false
	}

	return *p.bearerToken, true
}

// HasExpired reports whether the profile's credential has expired.
func (p *Profile) HasExpired() bool {
	if p.bearerToken == nil {
		return false
	}

	return p.bearerToken.HasExpired()
}

// String implements fmt.Stringer with credentials redacted.
func (p *Profile) String() string {
	credential := "none"
	if p.bearerToken != nil {
		credential = p.bearerToken.String()
	}

	return fmt.Sprintf("Profile{shareCredentialsVersion: %d, endpoint: %s, credential: %s}",
		p.shareCredentialsVersion, p.endpoint, credential)
}

// MarshalJSON writes the profile in its file format, including the raw
// token. Profile files must round-trip; redaction applies to human-readable
// rendering only.
func (p *Profile) MarshalJSON() ([]byte, error) {
	file := profileFile{
		ShareCredentialsVersion: p.shareCredentialsVersion,
		Endpoint:                p.endpoint,
	}

	if p.bearerToken != nil {
		token := p.bearerToken.token
		file.BearerToken = &token
		file.ExpirationTime = p.bearerToken.expirationTime
	}

	return json.Marshal(file)
}

// UnmarshalJSON parses and validates profile JSON.
func (p *Profile) UnmarshalJSON(data []byte) error {
	parsed, err := ParseProfile(data)
	if err != nil {
		return err
	}

	*p = *parsed

	return nil
}

// Save writes the profile to a file readable only by the owner.
func (p *Profile) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return NewInternalError("failed to encode profile").WithCause(err)
	}

	err = os.WriteFile(path, append(data, '\n'), constants.ProfileFilePerm)
	if err != nil {
		return NewProfileError(fmt.Sprintf("failed to write profile file at %s", path)).WithCause(err)
	}

	return nil
}
