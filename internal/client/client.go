// Package client implements the sharing.Client interface over the Delta
// Sharing REST protocol.
package client

import (
	"strings"

	"github.com/fivetwenty-io/deltashare/internal/auth"
	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/internal/http"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

// Client implements the sharing.Client interface.
type Client struct {
	httpClient    *http.Client
	tokenProvider sharing.TokenProvider
	baseURL       string
	logger        sharing.Logger

	// Resource clients
	shares  sharing.SharesClient
	schemas sharing.SchemasClient
	tables  sharing.TablesClient
}

// New creates a new Delta Sharing client from the given configuration.
func New(config *sharing.Config) (*Client, error) {
	if config == nil {
		return nil, sharing.ErrConfigRequired
	}

	endpoint := resolveEndpoint(config)
	if endpoint == "" {
		return nil, sharing.ErrEndpointRequired
	}

	tokenProvider, err := createTokenProvider(config)
	if err != nil {
		return nil, err
	}

	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(endpoint, tokenProvider, httpOpts...)

	client := &Client{
		httpClient:    httpClient,
		tokenProvider: tokenProvider,
		baseURL:       endpoint,
		logger:        config.Logger,
	}

	client.initializeResourceClients(config)

	return client, nil
}

// resolveEndpoint picks the server endpoint, preferring the profile's.
func resolveEndpoint(config *sharing.Config) string {
	endpoint := config.Endpoint
	if config.Profile != nil {
		endpoint = config.Profile.Endpoint()
	}

	return strings.TrimSuffix(endpoint, "/")
}

// createTokenProvider creates the token provider matching the configured
// credential source. An explicit provider wins over a profile, a profile
// over a plain bearer token.
func createTokenProvider(config *sharing.Config) (sharing.TokenProvider, error) {
	if config.TokenProvider != nil {
		return config.TokenProvider, nil
	}

	if config.Profile != nil {
		return auth.NewProfileTokenProvider(config.Profile)
	}

	if config.BearerToken != "" {
		return auth.NewStaticTokenProvider(config.BearerToken), nil
	}

	return nil, sharing.ErrCredentialsRequired
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *sharing.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.SkipTLSVerify {
		httpOpts = append(httpOpts, http.WithSkipTLSVerify(true))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients(config *sharing.Config) {
	pagination := &sharing.PaginationOptions{
		PageSize: config.PageSize,
		MaxPages: config.MaxPages,
	}

	c.shares = NewSharesClient(c.httpClient, pagination)
	c.schemas = NewSchemasClient(c.httpClient, pagination)
	c.tables = NewTablesClient(c.httpClient, pagination)
}

// Shares implements sharing.Client.Shares.
func (c *Client) Shares() sharing.SharesClient {
	return c.shares
}

// Schemas implements sharing.Client.Schemas.
func (c *Client) Schemas() sharing.SchemasClient {
	return c.schemas
}

// Tables implements sharing.Client.Tables.
func (c *Client) Tables() sharing.TablesClient {
	return c.tables
}
