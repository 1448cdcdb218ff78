package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deltashare/internal/client"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(nil)
		require.ErrorIs(t, err, sharing.ErrConfigRequired)
	})

	t.Run("requires an endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(&sharing.Config{BearerToken: "tok"})
		require.ErrorIs(t, err, sharing.ErrEndpointRequired)
	})

	t.Run("requires a credential source", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(&sharing.Config{Endpoint: "https://sharing.example.com"})
		require.ErrorIs(t, err, sharing.ErrCredentialsRequired)
	})

	t.Run("creates a client with a bearer token", func(t *testing.T) {
		t.Parallel()

		c, err := client.New(&sharing.Config{
			Endpoint:    "https://sharing.example.com",
			BearerToken: "tok",
		})
		require.NoError(t, err)
		assert.NotNil(t, c.Shares())
		assert.NotNil(t, c.Schemas())
		assert.NotNil(t, c.Tables())
	})

	t.Run("creates a client from a profile", func(t *testing.T) {
		t.Parallel()

		profile, err := sharing.NewBearerTokenProfile("https://sharing.example.com", "tok", nil)
		require.NoError(t, err)

		c, err := client.New(&sharing.Config{Profile: profile})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestNew_ProfileEndpointWins(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		serveJSON(t, w, http.StatusOK, sharing.ListSharesResponse{})
	}))
	t.Cleanup(server.Close)

	profile, err := sharing.NewBearerTokenProfile(server.URL, "tok", nil)
	require.NoError(t, err)

	// The config endpoint points nowhere; the profile's must be used
	c, err := client.New(&sharing.Config{
		Endpoint: "https://unreachable.invalid",
		Profile:  profile,
	})
	require.NoError(t, err)

	_, err = c.Shares().List(context.Background())
	require.NoError(t, err)
}

func TestNew_ExplicitTokenProviderWinsOverProfile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer provider-token", r.Header.Get("Authorization"))
		serveJSON(t, w, http.StatusOK, sharing.ListSharesResponse{})
	}))
	t.Cleanup(server.Close)

	profile, err := sharing.NewBearerTokenProfile(server.URL, "profile-token", nil)
	require.NoError(t, err)

	c, err := client.New(&sharing.Config{
		Profile:       profile,
		TokenProvider: staticProvider("provider-token"),
	})
	require.NoError(t, err)

	_, err = c.Shares().List(context.Background())
	require.NoError(t, err)
}

// staticProvider is a fixed-token sharing.TokenProvider for tests.
type staticProvider string

func (p staticProvider) GetToken(context.Context) (string, error) {
	return string(p), nil
}
