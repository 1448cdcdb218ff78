package constants

import "errors"

// Client configuration errors.
var (
	ErrNilProfile = errors.New("profile must not be nil")
)

// Profile errors.
var (
	ErrTokenExpired            = errors.New("bearer token in profile has expired")
	ErrMissingBearerToken      = errors.New("bearer token is missing in profile file")
	ErrUnsupportedCredentials  = errors.New("unsupported share credentials version")
	ErrUnsupportedAuthVariant  = errors.New("unsupported profile credential type")
	ErrProfileEndpointRequired = errors.New("profile endpoint is required")
)

// Query validation errors.
var (
	ErrVersionAndTimestamp  = errors.New("version and timestamp are mutually exclusive")
	ErrEndingWithoutStart   = errors.New("ending bound requires a starting bound of the same kind")
	ErrMissingStartingBound = errors.New("a starting version or starting timestamp is required")
	ErrMixedRangeBounds     = errors.New("range bounds must both be versions or both be timestamps")
)

// CLI errors.
var (
	ErrNoProfileConfigured  = errors.New("no profile configured, use 'deltashare login' or pass --profile")
	ErrProfileNameNotFound  = errors.New("profile name not found in configuration")
	ErrProfileNameTaken     = errors.New("a profile with that name already exists")
	ErrUnknownOutputFormat  = errors.New("unknown output format")
	ErrEndpointRequired     = errors.New("--endpoint is required")
	ErrTableRefArguments    = errors.New("expected SHARE SCHEMA TABLE arguments")
	ErrInvalidTableRef      = errors.New("table reference must be share.schema.table")
	ErrChangesBoundRequired = errors.New("either --starting-version or --starting-timestamp is required")
)
