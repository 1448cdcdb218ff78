package sharing

import (
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/deltashare/internal/constants"
)

// TableVersionQuery selects which table version a version request asks for:
// the latest version, or the earliest version created at or after a starting
// timestamp.
type TableVersionQuery struct {
	startingTimestamp *time.Time
}

// TableVersionLatest asks for the table's latest version.
func TableVersionLatest() TableVersionQuery {
	return TableVersionQuery{}
}

// TableVersionAtTimestamp asks for the earliest version created at or after
// the given timestamp.
func TableVersionAtTimestamp(timestamp time.Time) TableVersionQuery {
	return TableVersionQuery{startingTimestamp: &timestamp}
}

// ParseTableVersionQuery parses "latest" or an RFC3339 timestamp.
func ParseTableVersionQuery(value string) (TableVersionQuery, error) {
	if strings.EqualFold(value, "latest") {
		return TableVersionLatest(), nil
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return TableVersionQuery{}, NewRequestError(
			`cannot parse table version query: the value must be "latest" or an RFC3339 timestamp like 2021-08-01T00:00:00Z`,
		).WithCause(err)
	}

	return TableVersionAtTimestamp(timestamp), nil
}

// IsLatest reports whether the query asks for the latest version.
func (q TableVersionQuery) IsLatest() bool {
	return q.startingTimestamp == nil
}

// StartingTimestamp returns the starting timestamp for timestamp queries.
func (q TableVersionQuery) StartingTimestamp() (time.Time, bool) {
	if q.startingTimestamp == nil {
		return time.Time{}, false
	}

	return *q.startingTimestamp, true
}

// ToValues renders the query as query parameters; the latest-version query
// adds none.
func (q TableVersionQuery) ToValues() url.Values {
	values := url.Values{}

	if q.startingTimestamp != nil {
		values.Set(constants.QueryParamStartingTimestamp, q.startingTimestamp.UTC().Format(time.RFC3339))
	}

	return values
}

// TableDataQuery is the request body of a table query. All fields are
// optional; unset fields are omitted from the wire.
type TableDataQuery struct {
	PredicateHints     []string   `json:"predicateHints,omitempty"     yaml:"predicateHints,omitempty"`
	JSONPredicateHints *string    `json:"jsonPredicateHints,omitempty" yaml:"jsonPredicateHints,omitempty"`
	LimitHint          *int       `json:"limitHint,omitempty"          yaml:"limitHint,omitempty"`
	Version            *uint64    `json:"version,omitempty"            yaml:"version,omitempty"`
	Timestamp          *time.Time `json:"timestamp,omitempty"          yaml:"timestamp,omitempty"`
	StartingVersion    *uint64    `json:"startingVersion,omitempty"    yaml:"startingVersion,omitempty"`
	EndingVersion      *uint64    `json:"endingVersion,omitempty"      yaml:"endingVersion,omitempty"`
}

// NewTableDataQuery creates an empty table data query.
func NewTableDataQuery() *TableDataQuery {
	return &TableDataQuery{}
}

// WithPredicateHint appends a SQL predicate hint.
func (q *TableDataQuery) WithPredicateHint(hint string) *TableDataQuery {
	q.PredicateHints = append(q.PredicateHints, hint)

	return q
}

// WithJSONPredicateHints sets the JSON predicate hints document.
func (q *TableDataQuery) WithJSONPredicateHints(hints string) *TableDataQuery {
	q.JSONPredicateHints = &hints

	return q
}

// WithLimitHint caps how many rows the caller intends to read.
func (q *TableDataQuery) WithLimitHint(limit int) *TableDataQuery {
	q.LimitHint = &limit

	return q
}

// WithVersion pins the query to a table version.
func (q *TableDataQuery) WithVersion(version uint64) *TableDataQuery {
	q.Version = &version

	return q
}

// WithTimestamp pins the query to the version current at a timestamp.
func (q *TableDataQuery) WithTimestamp(timestamp time.Time) *TableDataQuery {
	q.Timestamp = &timestamp

	return q
}

// WithStartingVersion asks for data of all versions since the given one.
func (q *TableDataQuery) WithStartingVersion(version uint64) *TableDataQuery {
	q.StartingVersion = &version

	return q
}

// WithEndingVersion bounds a starting-version query.
func (q *TableDataQuery) WithEndingVersion(version uint64) *TableDataQuery {
	q.EndingVersion = &version

	return q
}

// Validate checks the query's field combinations.
func (q *TableDataQuery) Validate() error {
	if q.Version != nil && q.Timestamp != nil {
		return NewRequestError("invalid table data query").WithCause(constants.ErrVersionAndTimestamp)
	}

	if q.EndingVersion != nil && q.StartingVersion == nil {
		return NewRequestError("invalid table data query").WithCause(constants.ErrEndingWithoutStart)
	}

	return nil
}

// TableChangesQuery is the request body of a table changes request. The
// change range starts at either a version or a timestamp; the ending bound,
// when set, must be of the same kind.
type TableChangesQuery struct {
	StartingVersion           *uint64    `json:"startingVersion,omitempty"           yaml:"startingVersion,omitempty"`
	EndingVersion             *uint64    `json:"endingVersion,omitempty"             yaml:"endingVersion,omitempty"`
	StartingTimestamp         *time.Time `json:"startingTimestamp,omitempty"         yaml:"startingTimestamp,omitempty"`
	EndingTimestamp           *time.Time `json:"endingTimestamp,omitempty"           yaml:"endingTimestamp,omitempty"`
	IncludeHistoricalMetadata *bool      `json:"includeHistoricalMetadata,omitempty" yaml:"includeHistoricalMetadata,omitempty"`
}

// NewTableChangesQuery creates an empty table changes query.
func NewTableChangesQuery() *TableChangesQuery {
	return &TableChangesQuery{}
}

// WithStartingVersion starts the change range at a version.
func (q *TableChangesQuery) WithStartingVersion(version uint64) *TableChangesQuery {
	q.StartingVersion = &version

	return q
}

// WithEndingVersion ends the change range at a version.
func (q *TableChangesQuery) WithEndingVersion(version uint64) *TableChangesQuery {
	q.EndingVersion = &version

	return q
}

// WithStartingTimestamp starts the change range at a timestamp.
func (q *TableChangesQuery) WithStartingTimestamp(timestamp time.Time) *TableChangesQuery {
	q.StartingTimestamp = &timestamp

	return q
}

// WithEndingTimestamp ends the change range at a timestamp.
func (q *TableChangesQuery) WithEndingTimestamp(timestamp time.Time) *TableChangesQuery {
	q.EndingTimestamp = &timestamp

	return q
}

// WithIncludeHistoricalMetadata asks the server to include metadata of
// historical versions in the response.
func (q *TableChangesQuery) WithIncludeHistoricalMetadata(include bool) *TableChangesQuery {
	q.IncludeHistoricalMetadata = &include

	return q
}

// Validate checks the query's range bounds.
func (q *TableChangesQuery) Validate() error {
	if q.StartingVersion == nil && q.StartingTimestamp == nil {
		return NewRequestError("invalid table changes query").WithCause(constants.ErrMissingStartingBound)
	}

	if q.StartingVersion != nil && q.StartingTimestamp != nil {
		return NewRequestError("invalid table changes query").WithCause(constants.ErrMixedRangeBounds)
	}

	if q.StartingVersion != nil && q.EndingTimestamp != nil {
		return NewRequestError("invalid table changes query").WithCause(constants.ErrMixedRangeBounds)
	}

	if q.StartingTimestamp != nil && q.EndingVersion != nil {
		return NewRequestError("invalid table changes query").WithCause(constants.ErrMixedRangeBounds)
	}

	return nil
}
