package commands

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewProfilesCommand creates the profiles command group.
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "Manage sharing profiles",
		Long:    "List, inspect, register, and select Delta Sharing profiles",
	}

	cmd.AddCommand(newProfilesListCommand())
	cmd.AddCommand(newProfilesShowCommand())
	cmd.AddCommand(newProfilesAddCommand())
	cmd.AddCommand(newProfilesRemoveCommand())
	cmd.AddCommand(newProfilesUseCommand())

	return cmd
}

func newProfilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered profiles",
		Long:  "List the profiles registered in the CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesListCommand()
		},
	}
}

func runProfilesListCommand() error {
	config := loadConfig()

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(config)
	case OutputFormatYAML:
		return StandardYAMLRenderer(config)
	default:
		return renderProfilesTable(config)
	}
}

func renderProfilesTable(config *Config) error {
	if len(config.Profiles) == 0 {
		_, _ = os.Stdout.WriteString("No profiles configured\n")

		return nil
	}

	names := make([]string, 0, len(config.Profiles))
	for name := range config.Profiles {
		names = append(names, name)
	}

	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Path", "Current")

	for _, name := range names {
		current := ""
		if name == config.CurrentProfile {
			current = Yes
		}

		_ = table.Append(name, config.Profiles[name], current)
	}

	_ = table.Render()

	return nil
}

func newProfilesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [NAME]",
		Short: "Show profile details",
		Long:  "Display a profile with its bearer token redacted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			return runProfilesShowCommand(name)
		},
	}
}

// profileView is the redacted rendering of a profile. The bearer token never
// appears in command output.
type profileView struct {
	Name                    string `json:"name,omitempty"           yaml:"name,omitempty"`
	Path                    string `json:"path"                     yaml:"path"`
	Endpoint                string `json:"endpoint"                 yaml:"endpoint"`
	ShareCredentialsVersion int    `json:"shareCredentialsVersion"  yaml:"shareCredentialsVersion"`
	BearerToken             string `json:"bearerToken"              yaml:"bearerToken"`
	ExpirationTime          string `json:"expirationTime,omitempty" yaml:"expirationTime,omitempty"`
	Expired                 bool   `json:"expired"                  yaml:"expired"`
}

func runProfilesShowCommand(name string) error {
	config := loadConfig()

	profilePath, err := resolveProfilePath(config, name)
	if err != nil {
		return err
	}

	profile, err := sharing.LoadProfile(profilePath)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	view := profileView{
		Name:                    name,
		Path:                    profilePath,
		Endpoint:                profile.Endpoint(),
		ShareCredentialsVersion: profile.ShareCredentialsVersion(),
		BearerToken:             constants.MaskedSecret,
		Expired:                 profile.HasExpired(),
	}

	if name == "" {
		view.Name = config.CurrentProfile
	}

	if bearer, ok := profile.BearerToken(); ok {
		if expiration := bearer.ExpirationTime(); expiration != nil {
			view.ExpirationTime = expiration.Format(time.RFC3339)
		}
	}

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(view)
	case OutputFormatYAML:
		return StandardYAMLRenderer(view)
	default:
		return renderProfileDetailsTable(view)
	}
}

func renderProfileDetailsTable(view profileView) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	if view.Name != "" {
		_ = table.Append("Name", view.Name)
	}

	_ = table.Append("Path", view.Path)
	_ = table.Append("Endpoint", view.Endpoint)
	_ = table.Append("Credentials version", fmt.Sprintf("%d", view.ShareCredentialsVersion))
	_ = table.Append("Bearer token", view.BearerToken)

	expiration := view.ExpirationTime
	if expiration == "" {
		expiration = NotAvailable
	}

	_ = table.Append("Expiration", expiration)

	if view.Expired {
		_ = table.Append("Expired", Yes)
	}

	_ = table.Render()

	return nil
}

func newProfilesAddCommand() *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "add NAME PATH",
		Short: "Register a profile file",
		Long:  "Register an existing profile file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesAddCommand(args[0], args[1], use)
		},
	}

	cmd.Flags().BoolVar(&use, "use", false, "make the profile current after registering it")

	return cmd
}

func runProfilesAddCommand(name, path string, use bool) error {
	config := loadConfig()

	if _, exists := config.Profiles[name]; exists {
		return fmt.Errorf("profile '%s': %w", name, constants.ErrProfileNameTaken)
	}

	// Reject files that do not parse as profiles before registering them
	if _, err := sharing.LoadProfile(path); err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if config.Profiles == nil {
		config.Profiles = make(map[string]string)
	}

	config.Profiles[name] = path
	if use || config.CurrentProfile == "" {
		config.CurrentProfile = name
	}

	if err := saveConfigStruct(config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Registered profile '%s'\n", name)

	if config.CurrentProfile == name {
		_, _ = fmt.Fprintf(os.Stdout, "Profile '%s' is now the current profile\n", name)
	}

	return nil
}

func newProfilesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a registered profile",
		Long:  "Remove a profile from the registry without deleting its file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesRemoveCommand(args[0])
		},
	}
}

func runProfilesRemoveCommand(name string) error {
	config := loadConfig()

	if _, exists := config.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s': %w", name, constants.ErrProfileNameNotFound)
	}

	delete(config.Profiles, name)

	if config.CurrentProfile == name {
		config.CurrentProfile = ""
	}

	if err := saveConfigStruct(config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Removed profile '%s'\n", name)

	return nil
}

func newProfilesUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use NAME",
		Short: "Select the current profile",
		Long:  "Make a registered profile the default for subsequent commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesUseCommand(args[0])
		},
	}
}

func runProfilesUseCommand(name string) error {
	config := loadConfig()

	if _, exists := config.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s': %w", name, constants.ErrProfileNameNotFound)
	}

	config.CurrentProfile = name

	if err := saveConfigStruct(config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Profile '%s' is now the current profile\n", name)

	return nil
}
