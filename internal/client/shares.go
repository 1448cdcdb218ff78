package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/deltashare/internal/http"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

// SharesClient implements sharing.SharesClient.
type SharesClient struct {
	httpClient *http.Client
	pagination *sharing.PaginationOptions
}

// NewSharesClient creates a new shares client.
func NewSharesClient(httpClient *http.Client, pagination *sharing.PaginationOptions) *SharesClient {
	return &SharesClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sharing.SharesClient.List.
func (c *SharesClient) List(ctx context.Context) ([]sharing.Share, error) {
	return sharing.FetchAllPages(ctx, c.ListPaginated, c.pagination)
}

// ListPaginated implements sharing.SharesClient.ListPaginated.
func (c *SharesClient) ListPaginated(ctx context.Context, pagination *sharing.Pagination) (*sharing.ListSharesResponse, error) {
	var query url.Values
	if pagination != nil {
		query = pagination.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/shares", query)
	if err != nil {
		return nil, fmt.Errorf("listing shares: %w", err)
	}

	result, err := http.Decode[sharing.ListSharesResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing shares list response: %w", err)
	}

	return result, nil
}

// Get implements sharing.SharesClient.Get. A share the server does not
// expose yields (nil, nil) rather than an error.
func (c *SharesClient) Get(ctx context.Context, name string) (*sharing.Share, error) {
	path := http.BuildPath("shares", name)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		if sharing.IsNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting share: %w", err)
	}

	result, err := http.Decode[sharing.GetShareResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing share response: %w", err)
	}

	return &result.Share, nil
}
