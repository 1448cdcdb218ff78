package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/internal/http"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

// TablesClient implements sharing.TablesClient.
type TablesClient struct {
	httpClient *http.Client
	pagination *sharing.PaginationOptions
}

// NewTablesClient creates a new tables client.
func NewTablesClient(httpClient *http.Client, pagination *sharing.PaginationOptions) *TablesClient {
	return &TablesClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// ListInShare implements sharing.TablesClient.ListInShare.
func (c *TablesClient) ListInShare(ctx context.Context, share string) ([]sharing.Table, error) {
	fetch := func(ctx context.Context, pagination *sharing.Pagination) (*sharing.ListTablesResponse, error) {
		return c.ListInSharePaginated(ctx, share, pagination)
	}

	return sharing.FetchAllPages(ctx, fetch, c.pagination)
}

// ListInSharePaginated implements sharing.TablesClient.ListInSharePaginated.
func (c *TablesClient) ListInSharePaginated(ctx context.Context, share string, pagination *sharing.Pagination) (*sharing.ListTablesResponse, error) {
	var query url.Values
	if pagination != nil {
		query = pagination.ToValues()
	}

	path := http.BuildPath("shares", share, "schemas", "all-tables")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing share tables: %w", err)
	}

	result, err := http.Decode[sharing.ListTablesResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing share tables response: %w", err)
	}

	return result, nil
}

// ListInSchema implements sharing.TablesClient.ListInSchema.
func (c *TablesClient) ListInSchema(ctx context.Context, share, schema string) ([]sharing.Table, error) {
	fetch := func(ctx context.Context, pagination *sharing.Pagination) (*sharing.ListTablesResponse, error) {
		return c.ListInSchemaPaginated(ctx, share, schema, pagination)
	}

	return sharing.FetchAllPages(ctx, fetch, c.pagination)
}

// ListInSchemaPaginated implements sharing.TablesClient.ListInSchemaPaginated.
func (c *TablesClient) ListInSchemaPaginated(ctx context.Context, share, schema string, pagination *sharing.Pagination) (*sharing.ListTablesResponse, error) {
	var query url.Values
	if pagination != nil {
		query = pagination.ToValues()
	}

	path := http.BuildPath("shares", share, "schemas", schema, "tables")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing schema tables: %w", err)
	}

	result, err := http.Decode[sharing.ListTablesResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing schema tables response: %w", err)
	}

	return result, nil
}

// Version implements sharing.TablesClient.Version. The version arrives in
// the Delta-Table-Version response header, not the body.
func (c *TablesClient) Version(ctx context.Context, share, schema, table string, query *sharing.TableVersionQuery) (uint64, error) {
	var values url.Values
	if query != nil {
		values = query.ToValues()
	}

	path := http.BuildPath("shares", share, "schemas", schema, "tables", table, "version")

	resp, err := c.httpClient.Get(ctx, path, values)
	if err != nil {
		return 0, fmt.Errorf("getting table version: %w", err)
	}

	header := resp.Headers.Get(constants.HeaderDeltaTableVersion)
	if header == "" {
		return 0, sharing.NewParseResponseError("missing Delta-Table-Version header")
	}

	version, err := strconv.ParseUint(header, 10, 64)
	if err != nil {
		return 0, sharing.NewParseResponseError(fmt.Sprintf("invalid Delta-Table-Version header %q", header)).WithCause(err)
	}

	return version, nil
}

// Metadata implements sharing.TablesClient.Metadata.
func (c *TablesClient) Metadata(ctx context.Context, share, schema, table string) (*sharing.TableMetadata, error) {
	path := http.BuildPath("shares", share, "schemas", schema, "tables", table, "metadata")

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting table metadata: %w", err)
	}

	protocol, metadata, _, err := assembleActions(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing table metadata response: %w", err)
	}

	return &sharing.TableMetadata{
		Protocol: *protocol,
		Metadata: *metadata,
	}, nil
}

// Query implements sharing.TablesClient.Query. A nil query requests the full
// latest snapshot.
func (c *TablesClient) Query(ctx context.Context, share, schema, table string, query *sharing.TableDataQuery) (*sharing.TableData, error) {
	if query == nil {
		query = sharing.NewTableDataQuery()
	}

	err := query.Validate()
	if err != nil {
		return nil, err
	}

	path := http.BuildPath("shares", share, "schemas", schema, "tables", table, "query")

	resp, err := c.httpClient.Post(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("querying table data: %w", err)
	}

	protocol, metadata, files, err := assembleActions(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing table data response: %w", err)
	}

	return &sharing.TableData{
		Protocol: *protocol,
		Metadata: *metadata,
		Files:    files,
	}, nil
}

// Changes implements sharing.TablesClient.Changes.
func (c *TablesClient) Changes(ctx context.Context, share, schema, table string, query *sharing.TableChangesQuery) (*sharing.TableChanges, error) {
	if query == nil {
		query = sharing.NewTableChangesQuery()
	}

	err := query.Validate()
	if err != nil {
		return nil, err
	}

	path := http.BuildPath("shares", share, "schemas", schema, "tables", table, "changes")

	resp, err := c.httpClient.Post(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("querying table changes: %w", err)
	}

	protocol, metadata, files, err := assembleActions(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing table changes response: %w", err)
	}

	return &sharing.TableChanges{
		Protocol: *protocol,
		Metadata: *metadata,
		Files:    files,
	}, nil
}

// assembleActions decodes an action-line response body and folds it into its
// protocol action, metadata action, and file actions. Both the protocol and
// metadata actions are required; file order is preserved.
func assembleActions(body []byte) (*sharing.ProtocolAction, *sharing.MetadataAction, []sharing.FileAction, error) {
	actions, err := sharing.ParseTableActions(body)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		protocol *sharing.ProtocolAction
		metadata *sharing.MetadataAction
		files    []sharing.FileAction
	)

	for _, action := range actions {
		switch {
		case action.IsProtocol():
			protocol = action.Protocol
		case action.IsMetadata():
			metadata = action.Metadata
		case action.IsFile():
			files = append(files, *action.File)
		}
	}

	if protocol == nil {
		return nil, nil, nil, sharing.NewParseResponseError("response is missing the protocol action")
	}

	if metadata == nil {
		return nil, nil, nil, sharing.NewParseResponseError("response is missing the metadata action")
	}

	return protocol, metadata, files, nil
}
