package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deltashare/internal/client"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

const testToken = "test-token"

// newTestClient creates a client wired to the given handler with a static
// bearer token. The server is torn down with the test.
func newTestClient(t *testing.T, handler http.Handler) *client.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := client.New(&sharing.Config{
		Endpoint:    server.URL,
		BearerToken: testToken,
	})
	require.NoError(t, err)

	return c
}

// serveJSON writes a JSON response with the given status.
func serveJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// serveErrorEnvelope writes the protocol's error envelope.
func serveErrorEnvelope(t *testing.T, w http.ResponseWriter, status int, errorCode, message string) {
	t.Helper()

	serveJSON(t, w, status, sharing.ErrorResponse{ErrorCode: errorCode, Message: message})
}

// requireBearer asserts that the request carries the test token.
func requireBearer(t *testing.T, r *http.Request) {
	t.Helper()
	require.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
}

// pagedListHandler serves a list endpoint from a sequence of pages. Page i is
// continued with the token "page-i"; the last page carries no next token.
func pagedListHandler[T any](t *testing.T, wantPath string, pages [][]T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		require.Equal(t, wantPath, r.URL.Path)

		index := 0

		if token := r.URL.Query().Get("pageToken"); token != "" {
			parsed, err := strconv.Atoi(strings.TrimPrefix(token, "page-"))
			require.NoError(t, err, "unexpected page token %q", token)

			index = parsed
		}

		require.Less(t, index, len(pages))

		page := sharing.ListResponse[T]{Items: pages[index]}
		if index+1 < len(pages) {
			next := fmt.Sprintf("page-%d", index+1)
			page.NextPageToken = &next
		}

		serveJSON(t, w, http.StatusOK, page)
	})
}

// ctx is a shorthand for test contexts.
func ctx() context.Context {
	return context.Background()
}
