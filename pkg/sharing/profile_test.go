package sharing_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfileJSON = `{
  "shareCredentialsVersion": 1,
  "endpoint": "https://sharing.example.com/delta-sharing",
  "bearerToken": "secret-token"
}`

func TestParseProfile_Valid(t *testing.T) {
	t.Parallel()

	profile, err := sharing.ParseProfile([]byte(validProfileJSON))
	require.NoError(t, err)

	assert.Equal(t, 1, profile.ShareCredentialsVersion())
	assert.Equal(t, "https://sharing.example.com/delta-sharing", profile.Endpoint())
	assert.True(t, profile.IsBearerToken())
	assert.False(t, profile.HasExpired())

	bearer, ok := profile.BearerToken()
	require.True(t, ok)
	assert.Equal(t, "secret-token", bearer.Token())
	assert.Nil(t, bearer.ExpirationTime())
}

func TestParseProfile_WithExpiration(t *testing.T) {
	t.Parallel()

	data := `{
  "shareCredentialsVersion": 1,
  "endpoint": "https://sharing.example.com",
  "bearerToken": "secret-token",
  "expirationTime": "2030-01-01T00:00:00Z"
}`

	profile, err := sharing.ParseProfile([]byte(data))
	require.NoError(t, err)
	assert.False(t, profile.HasExpired())

	bearer, _ := profile.BearerToken()
	require.NotNil(t, bearer.ExpirationTime())
	assert.Equal(t, 2030, bearer.ExpirationTime().Year())
}

func TestParseProfile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"malformed JSON", `{not json`},
		{"unsupported version", `{"shareCredentialsVersion":2,"endpoint":"https://e.example.com","bearerToken":"t"}`},
		{"missing bearer token", `{"shareCredentialsVersion":1,"endpoint":"https://e.example.com"}`},
		{"empty bearer token", `{"shareCredentialsVersion":1,"endpoint":"https://e.example.com","bearerToken":""}`},
		{"missing endpoint", `{"shareCredentialsVersion":1,"bearerToken":"t"}`},
		{"relative endpoint", `{"shareCredentialsVersion":1,"endpoint":"not-a-url","bearerToken":"t"}`},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := sharing.ParseProfile([]byte(test.data))
			require.Error(t, err)
			assert.True(t, sharing.IsProfileError(err))
		})
	}
}

func TestBearerToken_HasExpired(t *testing.T) {
	t.Parallel()

	assert.False(t, sharing.NewBearerToken("t", nil).HasExpired())

	future := time.Now().Add(time.Hour)
	assert.False(t, sharing.NewBearerToken("t", &future).HasExpired())

	past := time.Now().Add(-time.Hour)
	assert.True(t, sharing.NewBearerToken("t", &past).HasExpired())
}

func TestProfile_StringNeverContainsToken(t *testing.T) {
	t.Parallel()

	expiration := time.Now().Add(time.Hour)
	profile, err := sharing.NewBearerTokenProfile("https://sharing.example.com", "super-secret-token", &expiration)
	require.NoError(t, err)

	rendered := profile.String()
	assert.NotContains(t, rendered, "super-secret-token")
	assert.Contains(t, rendered, constants.MaskedSecret)
	assert.Contains(t, rendered, "https://sharing.example.com")

	// The same holds for fmt verbs and the credential itself
	bearer, _ := profile.BearerToken()
	assert.NotContains(t, fmt.Sprintf("%v %s", profile, bearer), "super-secret-token")
}

func TestProfile_SaveAndLoad(t *testing.T) {
	t.Parallel()

	expiration := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	profile, err := sharing.NewBearerTokenProfile("https://sharing.example.com", "round-trip-token", &expiration)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.share")
	require.NoError(t, profile.Save(path))

	// Profile files hold the raw token and must stay owner-only
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := sharing.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, profile.Endpoint(), loaded.Endpoint())

	bearer, ok := loaded.BearerToken()
	require.True(t, ok)
	assert.Equal(t, "round-trip-token", bearer.Token())
	require.NotNil(t, bearer.ExpirationTime())
	assert.True(t, expiration.Equal(*bearer.ExpirationTime()))
}

func TestLoadProfile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := sharing.LoadProfile(filepath.Join(t.TempDir(), "absent.share"))
	require.Error(t, err)
	assert.True(t, sharing.IsProfileError(err))
}

func TestLoadProfile_ErrorNamesPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.share")
	require.NoError(t, os.WriteFile(path, []byte(`{"shareCredentialsVersion":3}`), 0600))

	_, err := sharing.LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestNewBearerTokenProfile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := sharing.NewBearerTokenProfile("", "token", nil)
	require.Error(t, err)

	_, err = sharing.NewBearerTokenProfile("https://sharing.example.com", "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrMissingBearerToken)
}
