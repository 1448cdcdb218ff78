package sharing_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fivetwenty-io/deltashare/pkg/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     sharing.ErrorKind
		expected string
	}{
		{sharing.ErrorKindInternal, "INTERNAL_ERROR"},
		{sharing.ErrorKindProfile, "PROFILE_ERROR"},
		{sharing.ErrorKindRequest, "REQUEST_ERROR"},
		{sharing.ErrorKindParseResponse, "PARSE_RESPONSE_ERROR"},
		{sharing.ErrorKindClient, "CLIENT_ERROR"},
		{sharing.ErrorKindServer, "SERVER_ERROR"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.kind.String())
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := sharing.NewInternalError("something broke")
	assert.Equal(t, "[INTERNAL_ERROR] something broke", err.Error())

	err = sharing.NewRequestError("request failed")
	assert.Equal(t, "[REQUEST_ERROR] request failed", err.Error())
}

func TestError_ClientAndServerIncludeStatus(t *testing.T) {
	t.Parallel()

	clientErr := sharing.NewClientError(404, "NOT_FOUND", "share does not exist")
	assert.Equal(t, "[CLIENT_ERROR] 404 NOT_FOUND: share does not exist", clientErr.Error())

	serverErr := sharing.NewServerError(500, "INTERNAL", "boom")
	assert.Equal(t, "[SERVER_ERROR] 500 INTERNAL: boom", serverErr.Error())
}

func TestError_WithCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying failure")
	err := sharing.NewParseResponseError("failed to parse response body").WithCause(cause)

	assert.Contains(t, err.Error(), "underlying failure")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_SurvivesWrapping(t *testing.T) {
	t.Parallel()

	inner := sharing.NewClientError(403, "FORBIDDEN", "no access")
	wrapped := fmt.Errorf("listing shares: %w", inner)

	var sharingErr *sharing.Error
	require.ErrorAs(t, wrapped, &sharingErr)
	assert.Equal(t, sharing.ErrorKindClient, sharingErr.Kind)
	assert.Equal(t, 403, sharingErr.StatusCode)

	kind, ok := sharing.KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, sharing.ErrorKindClient, kind)
}

func TestKindOf_NonSharingError(t *testing.T) {
	t.Parallel()

	_, ok := sharing.KindOf(errors.New("plain"))
	assert.False(t, ok)

	_, ok = sharing.KindOf(nil)
	assert.False(t, ok)
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, sharing.IsNotFound(sharing.NewClientError(404, "NOT_FOUND", "gone")))
	assert.True(t, sharing.IsNotFound(fmt.Errorf("getting share: %w", sharing.NewClientError(404, "", ""))))

	assert.False(t, sharing.IsNotFound(sharing.NewClientError(403, "FORBIDDEN", "no")))
	assert.False(t, sharing.IsNotFound(sharing.NewServerError(500, "", "boom")))
	assert.False(t, sharing.IsNotFound(errors.New("404")))
	assert.False(t, sharing.IsNotFound(nil))
}

func TestIsUnauthorizedAndForbidden(t *testing.T) {
	t.Parallel()

	assert.True(t, sharing.IsUnauthorized(sharing.NewClientError(401, "UNAUTHENTICATED", "bad token")))
	assert.False(t, sharing.IsUnauthorized(sharing.NewClientError(403, "FORBIDDEN", "no access")))

	assert.True(t, sharing.IsForbidden(sharing.NewClientError(403, "FORBIDDEN", "no access")))
	assert.False(t, sharing.IsForbidden(sharing.NewClientError(401, "UNAUTHENTICATED", "bad token")))
}

func TestIsProfileError(t *testing.T) {
	t.Parallel()

	assert.True(t, sharing.IsProfileError(sharing.NewProfileError("bad profile")))
	assert.False(t, sharing.IsProfileError(sharing.NewRequestError("timeout")))
	assert.False(t, sharing.IsProfileError(nil))
}

func TestErrorResponse_Error(t *testing.T) {
	t.Parallel()

	response := &sharing.ErrorResponse{ErrorCode: "INVALID_PARAMETER", Message: "maxResults out of range"}
	assert.Equal(t, "[INVALID_PARAMETER] maxResults out of range", response.Error())
}
