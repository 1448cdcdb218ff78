package sharing

import (
	"context"
	"time"
)

// TokenProvider supplies a bearer token for outgoing requests. It is
// consulted before every request; a failure prevents the network call and
// surfaces as a profile-kind error. Additional credential schemes implement
// this interface.
type TokenProvider interface {
	// GetToken returns the token to send, or an error when the credential
	// is absent or expired.
	GetToken(ctx context.Context) (string, error)
}

// Logger is the logging interface used by the client. Implementations can
// adapt any logging library; a nil logger disables logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client is the main interface for interacting with a Delta Sharing server.
type Client interface {
	// Shares returns the client for share operations.
	Shares() SharesClient

	// Schemas returns the client for schema operations.
	Schemas() SchemasClient

	// Tables returns the client for table operations.
	Tables() TablesClient
}

// SharesClient provides access to the shares exposed by a server.
type SharesClient interface {
	// List fetches every share, walking all pages.
	List(ctx context.Context) ([]Share, error)

	// ListPaginated fetches a single page of shares at the given cursor.
	ListPaginated(ctx context.Context, pagination *Pagination) (*ListSharesResponse, error)

	// Get fetches a share by name. A share the server does not expose
	// yields (nil, nil).
	Get(ctx context.Context, name string) (*Share, error)
}

// SchemasClient provides access to the schemas within a share.
type SchemasClient interface {
	// List fetches every schema of a share, walking all pages.
	List(ctx context.Context, share string) ([]Schema, error)

	// ListPaginated fetches a single page of schemas at the given cursor.
	ListPaginated(ctx context.Context, share string, pagination *Pagination) (*ListSchemasResponse, error)
}

// TablesClient provides access to tables and their version, metadata, data,
// and change information.
type TablesClient interface {
	// ListInShare fetches every table of a share across all its schemas.
	ListInShare(ctx context.Context, share string) ([]Table, error)

	// ListInSharePaginated fetches a single page of a share's tables.
	ListInSharePaginated(ctx context.Context, share string, pagination *Pagination) (*ListTablesResponse, error)

	// ListInSchema fetches every table of a schema.
	ListInSchema(ctx context.Context, share, schema string) ([]Table, error)

	// ListInSchemaPaginated fetches a single page of a schema's tables.
	ListInSchemaPaginated(ctx context.Context, share, schema string, pagination *Pagination) (*ListTablesResponse, error)

	// Version fetches a table's version. A nil query asks for the latest
	// version.
	Version(ctx context.Context, share, schema, table string, query *TableVersionQuery) (uint64, error)

	// Metadata fetches a table's protocol and metadata.
	Metadata(ctx context.Context, share, schema, table string) (*TableMetadata, error)

	// Query fetches the data files of a table. A nil query requests the
	// full latest snapshot.
	Query(ctx context.Context, share, schema, table string, query *TableDataQuery) (*TableData, error)

	// Changes fetches the change files of a table for a version or
	// timestamp range.
	Changes(ctx context.Context, share, schema, table string, query *TableChangesQuery) (*TableChanges, error)
}

// Config holds the configuration for creating a client.
type Config struct {
	// Endpoint is the sharing server base URL. Taken from the profile when
	// one is set.
	Endpoint string

	// Profile supplies the endpoint and credential from a profile file.
	Profile *Profile

	// BearerToken authenticates requests when no profile or token provider
	// is configured.
	BearerToken string

	// TokenProvider overrides every other credential source.
	TokenProvider TokenProvider

	// HTTPTimeout bounds each request; zero uses the default.
	HTTPTimeout time.Duration

	// PageSize is the maxResults sent by aggregating list calls; zero
	// leaves the page size to the server.
	PageSize int

	// MaxPages caps the pages an aggregating call may fetch; zero uses the
	// default.
	MaxPages int

	// UserAgent overrides the client's User-Agent header.
	UserAgent string

	// Logger receives client logs; nil disables logging.
	Logger Logger

	// Debug additionally logs request and response bodies.
	Debug bool

	// SkipTLSVerify disables TLS certificate verification. Intended for
	// development servers only.
	SkipTLSVerify bool

	// RetryMax enables transport-level retries when positive. Zero, the
	// default, sends each request exactly once.
	RetryMax int

	// RetryWaitMin is the minimum wait between opted-in retries.
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait between opted-in retries.
	RetryWaitMax time.Duration
}
