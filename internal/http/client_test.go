package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharehttp "github.com/fivetwenty-io/deltashare/internal/http"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

// tokenProviderFunc adapts a function to sharing.TokenProvider.
type tokenProviderFunc func(ctx context.Context) (string, error)

func (f tokenProviderFunc) GetToken(ctx context.Context) (string, error) {
	return f(ctx)
}

func staticToken(token string) sharing.TokenProvider {
	return tokenProviderFunc(func(context.Context) (string, error) {
		return token, nil
	})
}

// testLogger captures log calls for assertions.
type testLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (l *testLogger) Debug(msg string, fields map[string]interface{}) { l.record(msg, fields) }
func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.record(msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.record(msg, fields) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.record(msg, fields) }

func (l *testLogger) record(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	require.NoError(t, err)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		writeJSON(t, w, http.StatusOK, map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, staticToken("test-token"))

	resp, err := client.Get(context.Background(), "/shares", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_TokenFailurePreventsNetworkCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	failing := tokenProviderFunc(func(context.Context) (string, error) {
		return "", assert.AnError
	})

	client := sharehttp.NewClient(server.URL, failing)

	_, err := client.Get(context.Background(), "/shares", nil)
	require.Error(t, err)

	// Bad credentials are a profile error, never a transport error
	kind, ok := sharing.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, sharing.ErrorKindProfile, kind)
	assert.Equal(t, int32(0), calls.Load(), "no request may reach the server")
}

func TestClient_NoTokenProviderSendsUnauthenticated(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]string{})
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	_, err := client.Get(context.Background(), "/shares", nil)
	require.NoError(t, err)
}

//nolint:funlen // table covers the full classification rule
func TestClient_ClassifiesStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   sharing.ErrorKind
		wantCode   string
		wantStatus int
	}{
		{
			name:       "400 bad request",
			status:     http.StatusBadRequest,
			body:       `{"errorCode":"INVALID_PARAMETER_VALUE","message":"bad maxResults"}`,
			wantKind:   sharing.ErrorKindClient,
			wantCode:   "INVALID_PARAMETER_VALUE",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "401 unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"errorCode":"UNAUTHENTICATED","message":"token rejected"}`,
			wantKind:   sharing.ErrorKindClient,
			wantCode:   "UNAUTHENTICATED",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "403 forbidden",
			status:     http.StatusForbidden,
			body:       `{"errorCode":"PERMISSION_DENIED","message":"not a recipient"}`,
			wantKind:   sharing.ErrorKindClient,
			wantCode:   "PERMISSION_DENIED",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "404 not found",
			status:     http.StatusNotFound,
			body:       `{"errorCode":"SHARE_NOT_FOUND","message":"no such share"}`,
			wantKind:   sharing.ErrorKindClient,
			wantCode:   "SHARE_NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "500 internal server error",
			status:     http.StatusInternalServerError,
			body:       `{"errorCode":"INTERNAL_ERROR","message":"server fell over"}`,
			wantKind:   sharing.ErrorKindServer,
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := sharehttp.NewClient(server.URL, nil)

			_, err := client.Get(context.Background(), "/shares", nil)
			require.Error(t, err)

			sharingErr := &sharing.Error{}
			require.ErrorAs(t, err, &sharingErr)
			assert.Equal(t, tt.wantKind, sharingErr.Kind)
			assert.Equal(t, tt.wantStatus, sharingErr.StatusCode)
			assert.Equal(t, tt.wantCode, sharingErr.ErrorCode)
		})
	}
}

func TestClient_NotFoundIsDistinguishable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorCode":"SHARE_NOT_FOUND","message":"m"}`))
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	_, err := client.Get(context.Background(), "/shares/missing", nil)
	require.Error(t, err)
	assert.True(t, sharing.IsNotFound(err))
	assert.False(t, sharing.IsUnauthorized(err))
}

func TestClient_MalformedErrorEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	_, err := client.Get(context.Background(), "/shares/missing", nil)
	require.Error(t, err)

	kind, ok := sharing.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, sharing.ErrorKindParseResponse, kind)
}

func TestClient_UnknownStatusIsInternal(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		// Deliberately not the error envelope: an unknown status must not
		// have its body parsed.
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	_, err := client.Get(context.Background(), "/shares", nil)
	require.Error(t, err)

	kind, ok := sharing.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, sharing.ErrorKindInternal, kind)
	assert.Contains(t, err.Error(), "unknown server response")
	assert.Contains(t, err.Error(), "418")
}

func TestClient_TransportFailureIsRequestError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	client := sharehttp.NewClient(server.URL, nil)

	_, err := client.Get(context.Background(), "/shares", nil)
	require.Error(t, err)

	kind, ok := sharing.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, sharing.ErrorKindRequest, kind)
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/shares", nil)
	require.Error(t, err)

	kind, ok := sharing.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, sharing.ErrorKindRequest, kind)
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(100), body["limitHint"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	_, err := client.Post(context.Background(), "/shares/s/schemas/d/tables/t/query", map[string]int{"limitHint": 100})
	require.NoError(t, err)
}

func TestClient_QueryParameters(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "tok", r.URL.Query().Get("pageToken"))
		writeJSON(t, w, http.StatusOK, map[string]string{})
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	pagination := sharing.NewPaginationFromToken(10, "tok")

	_, err := client.Get(context.Background(), "/shares", pagination.ToValues())
	require.NoError(t, err)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	resp := &sharehttp.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"items":[{"name":"sales"}],"nextPageToken":"tok"}`),
	}

	page, err := sharehttp.Decode[sharing.ListSharesResponse](resp)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "sales", page.Items[0].Name)
	assert.Equal(t, "tok", page.GetNextPageToken())

	_, err = sharehttp.Decode[sharing.ListSharesResponse](&sharehttp.Response{Body: []byte("{broken")})
	require.Error(t, err)

	kind, ok := sharing.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, sharing.ErrorKindParseResponse, kind)
}

func TestBuildPath_EscapesSegments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/shares", sharehttp.BuildPath("shares"))
	assert.Equal(t, "/shares/sales/schemas", sharehttp.BuildPath("shares", "sales", "schemas"))

	// Names are user-supplied content and may carry reserved characters
	assert.Equal(t,
		"/shares/my%20share/schemas/a%2Fb/tables/t%3Fq",
		sharehttp.BuildPath("shares", "my share", "schemas", "a/b", "tables", "t?q"))
}

func TestClient_EscapedSegmentsReachServerIntact(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shares/my%20share/schemas/a%2Fb/tables", r.URL.EscapedPath())
		writeJSON(t, w, http.StatusOK, map[string]string{})
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	path := sharehttp.BuildPath("shares", "my share", "schemas", "a/b", "tables")

	_, err := client.Get(context.Background(), path, nil)
	require.NoError(t, err)
}

func TestClient_DebugLoggingMasksToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{})
	}))
	defer server.Close()

	logger := &testLogger{}
	client := sharehttp.NewClient(server.URL, staticToken("super-secret"),
		sharehttp.WithLogger(logger), sharehttp.WithDebug(true))

	_, err := client.Get(context.Background(), "/shares", nil)
	require.NoError(t, err)

	require.Contains(t, logger.messages, "HTTP Request")
	require.Contains(t, logger.messages, "HTTP Response")

	for i, msg := range logger.messages {
		if msg != "HTTP Request" {
			continue
		}

		headers, ok := logger.fields[i]["headers"].(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "Bearer ********", headers["Authorization"])
	}
}

func TestClient_RetryConfigRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"errorCode":"INTERNAL_ERROR","message":"try again"}`))

			return
		}

		writeJSON(t, w, http.StatusOK, map[string]string{})
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil,
		sharehttp.WithRetryConfig(3, 10*time.Millisecond, 50*time.Millisecond))

	resp, err := client.Get(context.Background(), "/shares", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DefaultDoesNotRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errorCode":"INTERNAL_ERROR","message":"boom"}`))
	}))
	defer server.Close()

	client := sharehttp.NewClient(server.URL, nil)

	_, err := client.Get(context.Background(), "/shares", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
