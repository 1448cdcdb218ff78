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

// NewSharesCommand creates the shares command group.
func NewSharesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shares",
		Aliases: []string{"share"},
		Short:   "Browse shares",
		Long:    "List and inspect the shares granted to the recipient",
	}

	cmd.AddCommand(newSharesListCommand())
	cmd.AddCommand(newSharesGetCommand())

	return cmd
}

func newSharesListCommand() *cobra.Command {
	var (
		allPages  bool
		pageToken string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shares",
		Long:  "List the shares the recipient has access to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSharesListCommand(cmd, allPages, pageToken)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "page token to resume from")

	return cmd
}

func runSharesListCommand(cmd *cobra.Command, allPages bool, pageToken string) error {
	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages && pageToken == "" {
		shares, err := client.Shares().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list shares: %w", err)
		}

		return outputShares(shares, "")
	}

	pagination := paginationFromFlags(viper.GetInt("max-results"), pageToken)

	page, err := client.Shares().ListPaginated(ctx, pagination)
	if err != nil {
		return fmt.Errorf("failed to list shares: %w", err)
	}

	return outputShares(page.Items, page.GetNextPageToken())
}

func outputShares(shares []sharing.Share, nextPageToken string) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(shares)
	case OutputFormatYAML:
		return StandardYAMLRenderer(shares)
	default:
		return renderSharesTable(shares, nextPageToken)
	}
}

func renderSharesTable(shares []sharing.Share, nextPageToken string) error {
	if len(shares) == 0 {
		_, _ = os.Stdout.WriteString("No shares found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "ID")

	for _, share := range shares {
		_ = table.Append(share.Name, stringOrDefault(share.ID))
	}

	_ = table.Render()

	renderNextPageHint(nextPageToken)

	return nil
}

func newSharesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SHARE_NAME",
		Short: "Get share details",
		Long:  "Display details for a single share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSharesGetCommand(cmd, args[0])
		},
	}
}

func runSharesGetCommand(cmd *cobra.Command, name string) error {
	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	share, err := client.Shares().Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get share: %w", err)
	}

	if share == nil {
		return fmt.Errorf("share '%s': %w", name, ErrShareNotFound)
	}

	return outputShareDetails(share)
}

func outputShareDetails(share *sharing.Share) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(share)
	case OutputFormatYAML:
		return StandardYAMLRenderer(share)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")

		_ = table.Append("Name", share.Name)
		_ = table.Append("ID", stringOrDefault(share.ID))

		_ = table.Render()

		return nil
	}
}
