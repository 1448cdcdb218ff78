package sharing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/deltashare/internal/constants"
)

// TableRef identifies a table by its share, schema, and table name.
type TableRef struct {
	Share  string
	Schema string
	Table  string
}

// String renders the reference as "share.schema.table".
func (r TableRef) String() string {
	return r.Share + "." + r.Schema + "." + r.Table
}

// ParseTableRef parses a "share.schema.table" reference.
func ParseTableRef(ref string) (TableRef, error) {
	parts := strings.Split(ref, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return TableRef{}, fmt.Errorf("%w: %q", constants.ErrInvalidTableRef, ref)
	}

	return TableRef{Share: parts[0], Schema: parts[1], Table: parts[2]}, nil
}

// SnapshotResult represents the outcome of fetching one table's snapshot
// information.
type SnapshotResult struct {
	Ref      TableRef
	Version  uint64
	Metadata *TableMetadata
	Err      error
	Duration time.Duration
}

// SnapshotFetcher fetches version or metadata information for many tables
// concurrently. Failures are recorded per table; one table's error never
// aborts the others.
type SnapshotFetcher struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewSnapshotFetcher creates a new snapshot fetcher.
func NewSnapshotFetcher(client Client, concurrency int) *SnapshotFetcher {
	if concurrency <= 0 {
		concurrency = constants.DefaultSnapshotConcurrency
	}

	return &SnapshotFetcher{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-table timeout.
func (f *SnapshotFetcher) SetTimeout(timeout time.Duration) {
	f.timeout = timeout
}

// FetchVersions fetches the latest version of every referenced table. Results
// are positional: results[i] corresponds to refs[i].
func (f *SnapshotFetcher) FetchVersions(ctx context.Context, refs []TableRef) []SnapshotResult {
	return f.fetchAll(ctx, refs, func(ctx context.Context, ref TableRef, result *SnapshotResult) {
		result.Version, result.Err = f.client.Tables().Version(ctx, ref.Share, ref.Schema, ref.Table, nil)
	})
}

// FetchMetadata fetches the protocol and metadata of every referenced table.
// Results are positional: results[i] corresponds to refs[i].
func (f *SnapshotFetcher) FetchMetadata(ctx context.Context, refs []TableRef) []SnapshotResult {
	return f.fetchAll(ctx, refs, func(ctx context.Context, ref TableRef, result *SnapshotResult) {
		result.Metadata, result.Err = f.client.Tables().Metadata(ctx, ref.Share, ref.Schema, ref.Table)
	})
}

// fetchAll runs one fetch per reference under the concurrency bound.
func (f *SnapshotFetcher) fetchAll(ctx context.Context, refs []TableRef, fetch func(ctx context.Context, ref TableRef, result *SnapshotResult)) []SnapshotResult {
	results := make([]SnapshotResult, len(refs))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, f.concurrency)

	for index, ref := range refs {
		waitGroup.Add(1)

		go func(index int, ref TableRef) {
			defer waitGroup.Done()

			// Acquire semaphore
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()

			result := SnapshotResult{Ref: ref}

			start := time.Now()
			fetch(opCtx, ref, &result)
			result.Duration = time.Since(start)
			results[index] = result
		}(index, ref)
	}

	waitGroup.Wait()

	return results
}
