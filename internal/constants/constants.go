package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600

	// ProfileFilePerm is the permission for written profile files, which
	// contain bearer tokens.
	ProfileFilePerm = 0600
)

// HTTP and network settings.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent identifies this client to sharing servers.
	DefaultUserAgent = "deltashare-go"

	// HeaderAuthorization is the request header carrying the bearer token.
	HeaderAuthorization = "Authorization"

	// HeaderUserAgent is the request header identifying the client.
	HeaderUserAgent = "User-Agent"

	// HeaderAccept is the request header declaring the accepted encoding.
	HeaderAccept = "Accept"

	// HeaderContentType is the request header declaring the body encoding.
	HeaderContentType = "Content-Type"

	// HeaderDeltaTableVersion is the response header carrying a table version.
	HeaderDeltaTableVersion = "Delta-Table-Version"

	// ContentTypeJSON is the media type for JSON request bodies.
	ContentTypeJSON = "application/json"

	// BearerTokenPrefix prefixes the token in the Authorization header.
	BearerTokenPrefix = "Bearer "
)

// Retry settings for the transport. Core operations do not retry; these
// bound the behavior when a caller opts in via the retry config option.
const (
	// DefaultRetryMax disables transport retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between opted-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between opted-in retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination limits.
const (
	// DefaultMaxPages caps how many pages a single aggregating call may
	// fetch before failing; termination otherwise depends entirely on
	// server-supplied page tokens.
	DefaultMaxPages = 50

	// QueryParamMaxResults is the page-size query parameter.
	QueryParamMaxResults = "maxResults"

	// QueryParamPageToken is the page-cursor query parameter.
	QueryParamPageToken = "pageToken"

	// QueryParamStartingTimestamp selects a version by timestamp.
	QueryParamStartingTimestamp = "startingTimestamp"
)

// Concurrency limits.
const (
	// DefaultSnapshotConcurrency bounds concurrent table fetches in the
	// snapshot fetcher.
	DefaultSnapshotConcurrency = 5
)

// Profile settings.
const (
	// SupportedCredentialsVersion is the only share credentials version
	// this client accepts.
	SupportedCredentialsVersion = 1

	// MaskedSecret replaces tokens in any human-readable rendering.
	MaskedSecret = "********"

	// ProfileFileExtension is the conventional profile file suffix.
	ProfileFileExtension = ".share"
)

// CLI defaults.
const (
	// ConfigDirName is the CLI configuration directory under $HOME.
	ConfigDirName = ".deltashare"

	// ConfigFileName is the CLI configuration file name.
	ConfigFileName = "config.yml"

	// ProfilesDirName holds profile files written by login.
	ProfilesDirName = "profiles"

	// EnvPrefix namespaces CLI environment variables.
	EnvPrefix = "DELTASHARE"

	// OutputFormatTable renders results as an aligned table.
	OutputFormatTable = "table"

	// OutputFormatJSON renders results as indented JSON.
	OutputFormatJSON = "json"

	// OutputFormatYAML renders results as YAML.
	OutputFormatYAML = "yaml"
)
