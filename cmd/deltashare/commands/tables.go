package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// fileIDDisplayLength bounds file IDs in table output.
	fileIDDisplayLength = 16

	// fileURLDisplayLength bounds presigned URLs in table output.
	fileURLDisplayLength = 64
)

// NewTablesCommand creates the tables command group.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tables",
		Aliases: []string{"table"},
		Short:   "Browse and query tables",
		Long:    "List shared tables and fetch their versions, metadata, data files, and change feeds",
	}

	cmd.AddCommand(newTablesListCommand())
	cmd.AddCommand(newTablesListAllCommand())
	cmd.AddCommand(newTablesVersionCommand())
	cmd.AddCommand(newTablesMetadataCommand())
	cmd.AddCommand(newTablesQueryCommand())
	cmd.AddCommand(newTablesChangesCommand())

	return cmd
}

func newTablesListCommand() *cobra.Command {
	var (
		allPages  bool
		pageToken string
	)

	cmd := &cobra.Command{
		Use:   "list SHARE SCHEMA",
		Short: "List tables in a schema",
		Long:  "List the tables within a schema of a share",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesListCommand(cmd, args[0], args[1], allPages, pageToken)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "page token to resume from")

	return cmd
}

func runTablesListCommand(cmd *cobra.Command, share, schema string, allPages bool, pageToken string) error {
	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages && pageToken == "" {
		tables, err := client.Tables().ListInSchema(ctx, share, schema)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}

		return outputTables(tables, "")
	}

	pagination := paginationFromFlags(viper.GetInt("max-results"), pageToken)

	page, err := client.Tables().ListInSchemaPaginated(ctx, share, schema, pagination)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	return outputTables(page.Items, page.GetNextPageToken())
}

func newTablesListAllCommand() *cobra.Command {
	var (
		allPages  bool
		pageToken string
	)

	cmd := &cobra.Command{
		Use:   "list-all SHARE",
		Short: "List all tables in a share",
		Long:  "List the tables of every schema within a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesListAllCommand(cmd, args[0], allPages, pageToken)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "page token to resume from")

	return cmd
}

func runTablesListAllCommand(cmd *cobra.Command, share string, allPages bool, pageToken string) error {
	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages && pageToken == "" {
		tables, err := client.Tables().ListInShare(ctx, share)
		if err != nil {
			return fmt.Errorf("failed to list share tables: %w", err)
		}

		return outputTables(tables, "")
	}

	pagination := paginationFromFlags(viper.GetInt("max-results"), pageToken)

	page, err := client.Tables().ListInSharePaginated(ctx, share, pagination)
	if err != nil {
		return fmt.Errorf("failed to list share tables: %w", err)
	}

	return outputTables(page.Items, page.GetNextPageToken())
}

func outputTables(tables []sharing.Table, nextPageToken string) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(tables)
	case OutputFormatYAML:
		return StandardYAMLRenderer(tables)
	default:
		return renderTablesTable(tables, nextPageToken)
	}
}

func renderTablesTable(tables []sharing.Table, nextPageToken string) error {
	if len(tables) == 0 {
		_, _ = os.Stdout.WriteString("No tables found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Schema", "Share", "ID")

	for _, entry := range tables {
		_ = table.Append(entry.Name, entry.Schema, entry.Share, stringOrDefault(entry.ID))
	}

	_ = table.Render()

	renderNextPageHint(nextPageToken)

	return nil
}

func newTablesVersionCommand() *cobra.Command {
	var startingTimestamp string

	cmd := &cobra.Command{
		Use:   "version SHARE SCHEMA TABLE",
		Short: "Get a table version",
		Long:  "Fetch the latest table version, or the earliest version at or after a timestamp",
		Args:  cobra.RangeArgs(1, tableRefArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesVersionCommand(cmd, args, startingTimestamp)
		},
	}

	cmd.Flags().StringVar(&startingTimestamp, "starting-timestamp", "", "RFC 3339 timestamp, or 'latest'")

	return cmd
}

func runTablesVersionCommand(cmd *cobra.Command, args []string, startingTimestamp string) error {
	ref, err := tableRefFromArgs(args)
	if err != nil {
		return err
	}

	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	var query *sharing.TableVersionQuery

	if startingTimestamp != "" {
		parsed, err := sharing.ParseTableVersionQuery(startingTimestamp)
		if err != nil {
			return err
		}

		query = &parsed
	}

	ctx := context.Background()

	version, err := client.Tables().Version(ctx, ref.Share, ref.Schema, ref.Table, query)
	if err != nil {
		return fmt.Errorf("failed to get table version: %w", err)
	}

	return outputTableVersion(ref, version)
}

func outputTableVersion(ref sharing.TableRef, version uint64) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(map[string]interface{}{"table": ref.String(), "version": version})
	case OutputFormatYAML:
		return StandardYAMLRenderer(map[string]interface{}{"table": ref.String(), "version": version})
	default:
		_, _ = fmt.Fprintf(os.Stdout, "%d\n", version)

		return nil
	}
}

func newTablesMetadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata SHARE SCHEMA TABLE",
		Short: "Get table metadata",
		Long:  "Fetch the protocol and metadata of a shared table",
		Args:  cobra.RangeArgs(1, tableRefArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesMetadataCommand(cmd, args)
		},
	}
}

func runTablesMetadataCommand(cmd *cobra.Command, args []string) error {
	ref, err := tableRefFromArgs(args)
	if err != nil {
		return err
	}

	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	metadata, err := client.Tables().Metadata(ctx, ref.Share, ref.Schema, ref.Table)
	if err != nil {
		return fmt.Errorf("failed to get table metadata: %w", err)
	}

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(metadata)
	case OutputFormatYAML:
		return StandardYAMLRenderer(metadata)
	default:
		return renderTableMetadataTable(ref, metadata)
	}
}

func renderTableMetadataTable(ref sharing.TableRef, metadata *sharing.TableMetadata) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Table", ref.String())
	_ = table.Append("Format", string(metadata.Protocol.Format()))
	_ = table.Append("Metadata ID", metadata.Metadata.ID)
	_ = table.Append("Name", stringOrDefault(metadata.Metadata.Name))
	_ = table.Append("Partition columns", joinOrDefault(metadata.Metadata.PartitionColumns))
	_ = table.Append("Version", uint64OrDefault(metadata.Metadata.Version))
	_ = table.Append("Size", int64OrDefault(metadata.Metadata.Size))
	_ = table.Append("Files", int64OrDefault(metadata.Metadata.NumFiles))

	_ = table.Render()

	if schema := metadata.Metadata.SchemaStringValue(); schema != "" {
		_, _ = fmt.Fprintf(os.Stdout, "\nSchema:\n%s\n", schema)
	}

	return nil
}

type tableQueryOptions struct {
	limitHint       int
	version         uint64
	timestamp       string
	predicateHints  []string
	jsonPredicate   string
	startingVersion uint64
	endingVersion   uint64
}

func newTablesQueryCommand() *cobra.Command {
	opts := &tableQueryOptions{}

	cmd := &cobra.Command{
		Use:   "query SHARE SCHEMA TABLE",
		Short: "Query table data files",
		Long:  "Fetch the data files of a shared table, optionally pinned to a version or timestamp",
		Args:  cobra.RangeArgs(1, tableRefArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesQueryCommand(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.limitHint, "limit", 0, "row count hint for file pruning")
	cmd.Flags().Uint64Var(&opts.version, "version", 0, "query a specific table version")
	cmd.Flags().StringVar(&opts.timestamp, "timestamp", "", "query the table as of an RFC 3339 timestamp")
	cmd.Flags().StringArrayVar(&opts.predicateHints, "predicate", nil, "SQL predicate hint (repeatable)")
	cmd.Flags().StringVar(&opts.jsonPredicate, "json-predicate", "", "structured predicate hints as JSON")
	cmd.Flags().Uint64Var(&opts.startingVersion, "starting-version", 0, "start of a version range query")
	cmd.Flags().Uint64Var(&opts.endingVersion, "ending-version", 0, "end of a version range query")

	return cmd
}

func runTablesQueryCommand(cmd *cobra.Command, args []string, opts *tableQueryOptions) error {
	ref, err := tableRefFromArgs(args)
	if err != nil {
		return err
	}

	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	query := sharing.NewTableDataQuery()

	for _, hint := range opts.predicateHints {
		query.WithPredicateHint(hint)
	}

	if opts.jsonPredicate != "" {
		query.WithJSONPredicateHints(opts.jsonPredicate)
	}

	if opts.limitHint > 0 {
		query.WithLimitHint(opts.limitHint)
	}

	if cmd.Flags().Changed("version") {
		query.WithVersion(opts.version)
	}

	if opts.timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, opts.timestamp)
		if err != nil {
			return fmt.Errorf("invalid --timestamp value: %w", err)
		}

		query.WithTimestamp(parsed)
	}

	if cmd.Flags().Changed("starting-version") {
		query.WithStartingVersion(opts.startingVersion)
	}

	if cmd.Flags().Changed("ending-version") {
		query.WithEndingVersion(opts.endingVersion)
	}

	ctx := context.Background()

	data, err := client.Tables().Query(ctx, ref.Share, ref.Schema, ref.Table, query)
	if err != nil {
		return fmt.Errorf("failed to query table: %w", err)
	}

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(data)
	case OutputFormatYAML:
		return StandardYAMLRenderer(data)
	default:
		return renderTableDataTable(ref, data)
	}
}

func renderTableDataTable(ref sharing.TableRef, data *sharing.TableData) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Table", ref.String())
	_ = table.Append("Format", string(data.Protocol.Format()))
	_ = table.Append("Version", uint64OrDefault(data.Metadata.Version))
	_ = table.Append("Files", strconv.Itoa(len(data.Files)))

	_ = table.Render()

	_, _ = os.Stdout.WriteString("\nFiles:\n")
	renderFileActionsTable(data.Files)

	return nil
}

type tableChangesOptions struct {
	startingVersion           uint64
	startingTimestamp         string
	endingVersion             uint64
	endingTimestamp           string
	includeHistoricalMetadata bool
}

func newTablesChangesCommand() *cobra.Command {
	opts := &tableChangesOptions{}

	cmd := &cobra.Command{
		Use:   "changes SHARE SCHEMA TABLE",
		Short: "Read the table change feed",
		Long:  "Fetch the change data feed of a shared table for a version or timestamp range",
		Args:  cobra.RangeArgs(1, tableRefArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesChangesCommand(cmd, args, opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.startingVersion, "starting-version", 0, "start of the change range (version)")
	cmd.Flags().StringVar(&opts.startingTimestamp, "starting-timestamp", "", "start of the change range (RFC 3339)")
	cmd.Flags().Uint64Var(&opts.endingVersion, "ending-version", 0, "end of the change range (version)")
	cmd.Flags().StringVar(&opts.endingTimestamp, "ending-timestamp", "", "end of the change range (RFC 3339)")
	cmd.Flags().BoolVar(&opts.includeHistoricalMetadata, "include-historical-metadata", false, "include metadata of intermediate versions")

	return cmd
}

func runTablesChangesCommand(cmd *cobra.Command, args []string, opts *tableChangesOptions) error {
	ref, err := tableRefFromArgs(args)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("starting-version") && opts.startingTimestamp == "" {
		return constants.ErrChangesBoundRequired
	}

	client, err := CreateClientWithProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		return err
	}

	query := sharing.NewTableChangesQuery()

	if cmd.Flags().Changed("starting-version") {
		query.WithStartingVersion(opts.startingVersion)
	}

	if opts.startingTimestamp != "" {
		parsed, err := time.Parse(time.RFC3339, opts.startingTimestamp)
		if err != nil {
			return fmt.Errorf("invalid --starting-timestamp value: %w", err)
		}

		query.WithStartingTimestamp(parsed)
	}

	if cmd.Flags().Changed("ending-version") {
		query.WithEndingVersion(opts.endingVersion)
	}

	if opts.endingTimestamp != "" {
		parsed, err := time.Parse(time.RFC3339, opts.endingTimestamp)
		if err != nil {
			return fmt.Errorf("invalid --ending-timestamp value: %w", err)
		}

		query.WithEndingTimestamp(parsed)
	}

	if opts.includeHistoricalMetadata {
		query.WithIncludeHistoricalMetadata(true)
	}

	ctx := context.Background()

	changes, err := client.Tables().Changes(ctx, ref.Share, ref.Schema, ref.Table, query)
	if err != nil {
		return fmt.Errorf("failed to query table changes: %w", err)
	}

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(changes)
	case OutputFormatYAML:
		return StandardYAMLRenderer(changes)
	default:
		return renderTableChangesTable(ref, changes)
	}
}

func renderTableChangesTable(ref sharing.TableRef, changes *sharing.TableChanges) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Table", ref.String())
	_ = table.Append("Format", string(changes.Protocol.Format()))
	_ = table.Append("Changes", strconv.Itoa(len(changes.Files)))

	_ = table.Render()

	_, _ = os.Stdout.WriteString("\nChanges:\n")
	renderFileActionsTable(changes.Files)

	return nil
}

func renderFileActionsTable(files []sharing.FileAction) {
	if len(files) == 0 {
		_, _ = os.Stdout.WriteString("No files returned\n")

		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Size", "Version", "Timestamp", "Location")

	for _, file := range files {
		_ = table.Append(
			TruncateString(file.ID, fileIDDisplayLength),
			strconv.FormatInt(fileSize(file), 10),
			uint64OrDefault(file.Version),
			timestampOrDefault(file.Timestamp),
			TruncateString(fileLocation(file), fileURLDisplayLength),
		)
	}

	_ = table.Render()
}

// fileLocation returns the file URL, reaching into the nested Delta action
// for delta-format lines.
func fileLocation(file sharing.FileAction) string {
	if file.DeltaSingleAction != nil && file.DeltaSingleAction.Add != nil {
		return file.DeltaSingleAction.Add.Path
	}

	return file.URL
}

func fileSize(file sharing.FileAction) int64 {
	if file.DeltaSingleAction != nil && file.DeltaSingleAction.Add != nil {
		return file.DeltaSingleAction.Add.Size
	}

	return file.Size
}

func uint64OrDefault(value *uint64) string {
	if value == nil {
		return NotAvailable
	}

	return strconv.FormatUint(*value, 10)
}

func int64OrDefault(value *int64) string {
	if value == nil {
		return NotAvailable
	}

	return strconv.FormatInt(*value, 10)
}

func joinOrDefault(values []string) string {
	if len(values) == 0 {
		return NotAvailable
	}

	return strings.Join(values, ", ")
}

func timestampOrDefault(millis *int64) string {
	if millis == nil {
		return NotAvailable
	}

	return time.UnixMilli(*millis).UTC().Format(time.RFC3339)
}
