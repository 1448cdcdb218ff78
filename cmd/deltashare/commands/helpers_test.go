package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deltashare/cmd/deltashare/commands"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

func TestTruncateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", commands.TruncateString("short", 10))
	assert.Equal(t, "exactly-10", commands.TruncateString("exactly-10", 10))
	assert.Equal(t, "much to...", commands.TruncateString("much too long for ten", 10))
}

func TestTableRefArguments(t *testing.T) {
	t.Parallel()

	// Both the three-argument and dotted forms are accepted
	cmd := commands.NewTablesCommand()
	version := findSubcommand(cmd, "version")
	require.NotNil(t, version)

	require.NoError(t, version.Args(version, []string{"sales", "emea", "orders"}))
	require.NoError(t, version.Args(version, []string{"sales.emea.orders"}))
	require.Error(t, version.Args(version, []string{"sales", "emea", "orders", "extra"}))
}

func TestParseTableRefForms(t *testing.T) {
	t.Parallel()

	ref, err := sharing.ParseTableRef("sales.emea.orders")
	require.NoError(t, err)
	assert.Equal(t, "sales", ref.Share)
	assert.Equal(t, "emea", ref.Schema)
	assert.Equal(t, "orders", ref.Table)
}
