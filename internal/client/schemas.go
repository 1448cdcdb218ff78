package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/deltashare/internal/http"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

// SchemasClient implements sharing.SchemasClient.
type SchemasClient struct {
	httpClient *http.Client
	pagination *sharing.PaginationOptions
}

// NewSchemasClient creates a new schemas client.
func NewSchemasClient(httpClient *http.Client, pagination *sharing.PaginationOptions) *SchemasClient {
	return &SchemasClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sharing.SchemasClient.List.
func (c *SchemasClient) List(ctx context.Context, share string) ([]sharing.Schema, error) {
	fetch := func(ctx context.Context, pagination *sharing.Pagination) (*sharing.ListSchemasResponse, error) {
		return c.ListPaginated(ctx, share, pagination)
	}

	return sharing.FetchAllPages(ctx, fetch, c.pagination)
}

// ListPaginated implements sharing.SchemasClient.ListPaginated.
func (c *SchemasClient) ListPaginated(ctx context.Context, share string, pagination *sharing.Pagination) (*sharing.ListSchemasResponse, error) {
	var query url.Values
	if pagination != nil {
		query = pagination.ToValues()
	}

	path := http.BuildPath("shares", share, "schemas")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing schemas: %w", err)
	}

	result, err := http.Decode[sharing.ListSchemasResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing schemas list response: %w", err)
	}

	return result, nil
}
