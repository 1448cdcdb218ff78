package client_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

func TestSchemasList_AggregatesAllPages(t *testing.T) {
	t.Parallel()

	pages := [][]sharing.Schema{
		{{Name: "emea", Share: "sales"}, {Name: "apac", Share: "sales"}},
		{{Name: "amer", Share: "sales"}},
	}
	c := newTestClient(t, pagedListHandler(t, "/shares/sales/schemas", pages))

	schemas, err := c.Schemas().List(ctx(), "sales")
	require.NoError(t, err)
	require.Len(t, schemas, 3)
	assert.Equal(t, "emea", schemas[0].Name)
	assert.Equal(t, "apac", schemas[1].Name)
	assert.Equal(t, "amer", schemas[2].Name)
}

func TestSchemasListPaginated(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		assert.Equal(t, "/shares/sales/schemas", r.URL.Path)
		assert.Equal(t, "resume", r.URL.Query().Get("pageToken"))

		serveJSON(t, w, http.StatusOK, sharing.ListSchemasResponse{
			Items: []sharing.Schema{{Name: "emea", Share: "sales"}},
		})
	}))

	page, err := c.Schemas().ListPaginated(ctx(), "sales", sharing.NewPaginationFromToken(0, "resume"))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "sales", page.Items[0].Share)
	assert.Empty(t, page.GetNextPageToken())
}

func TestSchemasListPaginated_EscapesShareName(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shares/sales%2F2026/schemas", r.URL.EscapedPath())
		serveJSON(t, w, http.StatusOK, sharing.ListSchemasResponse{})
	}))

	_, err := c.Schemas().ListPaginated(ctx(), "sales/2026", nil)
	require.NoError(t, err)
}

func TestSchemasList_ServerErrorPropagates(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		serveErrorEnvelope(t, w, http.StatusUnauthorized, "UNAUTHENTICATED", "token rejected")
	}))

	_, err := c.Schemas().List(ctx(), "sales")
	require.Error(t, err)
	assert.True(t, sharing.IsUnauthorized(err))
}
