package sharing

// Share is a named collection of schemas exposed by a sharing server.
type Share struct {
	ID   *string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string  `json:"name"         yaml:"name"`
}

// Schema is a namespace of tables within a share.
type Schema struct {
	Name  string `json:"name"  yaml:"name"`
	Share string `json:"share" yaml:"share"`
}

// Table is a queryable dataset identified by share, schema, and table name.
type Table struct {
	Name    string  `json:"name"              yaml:"name"`
	Schema  string  `json:"schema"            yaml:"schema"`
	Share   string  `json:"share"             yaml:"share"`
	ShareID *string `json:"shareId,omitempty" yaml:"shareId,omitempty"`
	ID      *string `json:"id,omitempty"      yaml:"id,omitempty"`
}

// ListResponse is the success envelope for a single page of a list endpoint.
type ListResponse[T any] struct {
	Items         []T     `json:"items"                   yaml:"items"`
	NextPageToken *string `json:"nextPageToken,omitempty" yaml:"nextPageToken,omitempty"`
}

// GetNextPageToken returns the next page token or an empty string.
func (r *ListResponse[T]) GetNextPageToken() string {
	if r.NextPageToken == nil {
		return ""
	}

	return *r.NextPageToken
}

// List response aliases for the listable resources.
type (
	ListSharesResponse  = ListResponse[Share]
	ListSchemasResponse = ListResponse[Schema]
	ListTablesResponse  = ListResponse[Table]
)

// GetShareResponse is the success envelope for a single-share lookup.
type GetShareResponse struct {
	Share Share `json:"share" yaml:"share"`
}
