package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/deltashare/pkg/sharing"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewSchemasCommand creates the schemas command group.
func NewSchemasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schemas",
		Aliases: []string{"schema"},
		Short:   "Browse schemas",
		Long:    "List the schemas within a share",
	}

	cmd.AddCommand(newSchemasListCommand())

	return cmd
}

func newSchemasListCommand() *cobra.Command {
	var (
		allPages  bool
		pageToken string
	)

	cmd := &cobra.Command{
		Use:   "list SHARE",
		Short: "List schemas",
		Long:  "List the schemas within a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemasListCommand(cmd, args[0], allPages, pageToken)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "page token to resume from")

	return cmd
}

func runSchemasListCommand(cmd *cobra.Command, share string, allPages bool, pageToken string) error {
	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages && pageToken == "" {
		schemas, err := client.Schemas().List(ctx, share)
		if err != nil {
			return fmt.Errorf("failed to list schemas: %w", err)
		}

		return outputSchemas(schemas, "")
	}

	pagination := paginationFromFlags(viper.GetInt("max-results"), pageToken)

	page, err := client.Schemas().ListPaginated(ctx, share, pagination)
	if err != nil {
		return fmt.Errorf("failed to list schemas: %w", err)
	}

	return outputSchemas(page.Items, page.GetNextPageToken())
}

func outputSchemas(schemas []sharing.Schema, nextPageToken string) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(schemas)
	case OutputFormatYAML:
		return StandardYAMLRenderer(schemas)
	default:
		return renderSchemasTable(schemas, nextPageToken)
	}
}

func renderSchemasTable(schemas []sharing.Schema, nextPageToken string) error {
	if len(schemas) == 0 {
		_, _ = os.Stdout.WriteString("No schemas found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Share")

	for _, schema := range schemas {
		_ = table.Append(schema.Name, schema.Share)
	}

	_ = table.Render()

	renderNextPageHint(nextPageToken)

	return nil
}
