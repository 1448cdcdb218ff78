package sharing

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/deltashare/internal/constants"
)

// Pagination is the cursor state for one multi-page listing. A cursor is
// owned by the single call driving it and is advanced exactly once per
// fetched page via SetPageToken.
type Pagination struct {
	maxResults int
	pageToken  string
	isStart    bool
}

// NewPagination creates a cursor at the start state. A maxResults of zero or
// less leaves the page size to the server.
func NewPagination(maxResults int) *Pagination {
	return &Pagination{maxResults: maxResults, isStart: true}
}

// NewPaginationFromToken creates a cursor resuming at a server-issued page
// token.
func NewPaginationFromToken(maxResults int, pageToken string) *Pagination {
	return &Pagination{maxResults: maxResults, pageToken: pageToken}
}

// MaxResults returns the requested page size, zero when unset.
func (p *Pagination) MaxResults() int {
	return p.maxResults
}

// PageToken returns the current page token, empty when unset.
func (p *Pagination) PageToken() string {
	return p.pageToken
}

// SetPageToken advances the cursor with the next page token from a fetched
// page. An empty token finishes the cursor.
func (p *Pagination) SetPageToken(token string) {
	p.isStart = false
	p.pageToken = token
}

// HasNextPage reports whether another page should be fetched: always before
// the first fetch, afterward only while the server keeps issuing tokens.
func (p *Pagination) HasNextPage() bool {
	return p.isStart || p.pageToken != ""
}

// IsFinished reports whether the listing is complete.
func (p *Pagination) IsFinished() bool {
	return !p.HasNextPage()
}

// ToValues renders the cursor as query parameters. Unset fields are
// omitted; an unset cursor yields no parameters at all.
func (p *Pagination) ToValues() url.Values {
	values := url.Values{}

	if p.maxResults > 0 {
		values.Set(constants.QueryParamMaxResults, strconv.Itoa(p.maxResults))
	}

	if p.pageToken != "" {
		values.Set(constants.QueryParamPageToken, p.pageToken)
	}

	return values
}

// PageFetcher fetches a single page of a listing for the pagination driver.
type PageFetcher[T any] func(ctx context.Context, pagination *Pagination) (*ListResponse[T], error)

// PaginationOptions configures the pagination driver.
type PaginationOptions struct {
	// PageSize is the maxResults sent per page; zero uses the server default.
	PageSize int

	// MaxPages caps the number of pages a single aggregation may fetch;
	// zero uses the package default. Termination otherwise depends
	// entirely on server-issued tokens, so the cap guards against a
	// malfunctioning server that never stops issuing them.
	MaxPages int
}

func (o *PaginationOptions) pageSize() int {
	if o == nil {
		return 0
	}

	return o.PageSize
}

func (o *PaginationOptions) maxPages() int {
	if o == nil || o.MaxPages <= 0 {
		return constants.DefaultMaxPages
	}

	return o.MaxPages
}

// FetchAllPages runs one listing to completion and returns all items in
// server order. Any page error aborts the whole operation with no partial
// result; exceeding the page cap is an internal error, never a silent
// partial aggregate.
func FetchAllPages[T any](ctx context.Context, fetch PageFetcher[T], opts *PaginationOptions) ([]T, error) {
	pagination := NewPagination(opts.pageSize())
	maxPages := opts.maxPages()

	var items []T

	pages := 0

	for pagination.HasNextPage() {
		err := ctx.Err()
		if err != nil {
			return nil, NewRequestError("listing cancelled").WithCause(err)
		}

		if pages >= maxPages {
			return nil, NewInternalError(fmt.Sprintf("pagination exceeded %d pages", maxPages))
		}

		page, err := fetch(ctx, pagination)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)
		pagination.SetPageToken(page.GetNextPageToken())
		pages++
	}

	return items, nil
}

// PaginationIterator walks a listing one page at a time.
type PaginationIterator[T any] struct {
	fetch      PageFetcher[T]
	pagination *Pagination
	maxPages   int
	pages      int
}

// NewPaginationIterator creates an iterator at the start of a listing.
func NewPaginationIterator[T any](fetch PageFetcher[T], opts *PaginationOptions) *PaginationIterator[T] {
	return &PaginationIterator[T]{
		fetch:      fetch,
		pagination: NewPagination(opts.pageSize()),
		maxPages:   opts.maxPages(),
	}
}

// HasNext reports whether another page is available.
func (it *PaginationIterator[T]) HasNext() bool {
	return it.pagination.HasNextPage()
}

// Next fetches the next page of items.
func (it *PaginationIterator[T]) Next(ctx context.Context) ([]T, error) {
	if !it.HasNext() {
		return nil, fmt.Errorf("listing is finished: %w", ErrNoMoreItems)
	}

	if it.pages >= it.maxPages {
		return nil, NewInternalError(fmt.Sprintf("pagination exceeded %d pages", it.maxPages))
	}

	page, err := it.fetch(ctx, it.pagination)
	if err != nil {
		return nil, err
	}

	it.pagination.SetPageToken(page.GetNextPageToken())
	it.pages++

	return page.Items, nil
}

// All drains the remaining pages and returns their items in order.
func (it *PaginationIterator[T]) All(ctx context.Context) ([]T, error) {
	var items []T

	for it.HasNext() {
		err := ctx.Err()
		if err != nil {
			return nil, NewRequestError("listing cancelled").WithCause(err)
		}

		page, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}

		items = append(items, page...)
	}

	return items, nil
}

// ForEach applies fn to every remaining item, stopping at the first error.
func (it *PaginationIterator[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for it.HasNext() {
		page, err := it.Next(ctx)
		if err != nil {
			return err
		}

		for _, item := range page {
			err = fn(item)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// PageResult carries one page of a streamed listing.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// StreamPages fetches pages in a goroutine and delivers them on the
// returned channel. The channel is closed when the listing completes, fails,
// or the context is cancelled; a failure is delivered as the final result.
func StreamPages[T any](ctx context.Context, fetch PageFetcher[T], opts *PaginationOptions) <-chan PageResult[T] {
	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		pagination := NewPagination(opts.pageSize())
		maxPages := opts.maxPages()
		pages := 0

		for pagination.HasNextPage() {
			if pages >= maxPages {
				deliverResult(ctx, results, PageResult[T]{Err: NewInternalError(fmt.Sprintf("pagination exceeded %d pages", maxPages))})

				return
			}

			page, err := fetch(ctx, pagination)
			if err != nil {
				deliverResult(ctx, results, PageResult[T]{Err: err})

				return
			}

			if !deliverResult(ctx, results, PageResult[T]{Items: page.Items}) {
				return
			}

			pagination.SetPageToken(page.GetNextPageToken())
			pages++
		}
	}()

	return results
}

func deliverResult[T any](ctx context.Context, results chan<- PageResult[T], result PageResult[T]) bool {
	select {
	case results <- result:
		return true
	case <-ctx.Done():
		return false
	}
}
