package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/pkg/shareclient"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// NotAvailable is shown in tables when a value is absent.
	NotAvailable = "N/A"

	// Yes marks boolean table cells.
	Yes = "yes"

	// Output formats.
	OutputFormatTable = constants.OutputFormatTable
	OutputFormatJSON  = constants.OutputFormatJSON
	OutputFormatYAML  = constants.OutputFormatYAML

	// YAML formatting.
	defaultYAMLIndent = 2

	// tableRefArgCount is the argument count of the SHARE SCHEMA TABLE form.
	tableRefArgCount = 3
)

// Static errors for command validation.
var (
	ErrShareNotFound       = errors.New("share not found")
	ErrMissingEndpointHost = errors.New("endpoint URL has no host")
)

// Config is the CLI configuration persisted under ~/.deltashare.
type Config struct {
	// Profiles maps profile names to profile file paths.
	Profiles map[string]string `json:"profiles,omitempty" yaml:"profiles,omitempty"`

	// CurrentProfile selects the profile used when --profile is not given.
	CurrentProfile string `json:"current_profile,omitempty" yaml:"current_profile,omitempty"`

	// Output is the default output format.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// configFilePath resolves the CLI configuration file path, creating the
// configuration directory when needed.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, constants.ConfigDirName)

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, constants.ConfigFileName), nil
}

// loadConfig reads the CLI configuration. A missing or unreadable config file
// yields an empty configuration. The file is read directly rather than
// through viper, which lowercases map keys and would fold profile names.
func loadConfig() *Config {
	config := &Config{
		Output: viper.GetString("output"),
	}

	configFile, err := configFilePath()
	if err != nil {
		return config
	}

	// #nosec G304 -- resolved from the user's own home directory or --config
	data, err := os.ReadFile(configFile)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// profilesDir returns the directory where login writes profile files.
func profilesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ProfilesDirName), nil
}

// resolveProfilePath resolves a --profile value to a profile file path. An
// empty value selects the configured current profile; a registered name
// resolves through the registry; anything else is treated as a file path.
func resolveProfilePath(config *Config, nameOrPath string) (string, error) {
	if nameOrPath == "" {
		nameOrPath = config.CurrentProfile
	}

	if nameOrPath == "" {
		return "", constants.ErrNoProfileConfigured
	}

	if path, exists := config.Profiles[nameOrPath]; exists {
		return path, nil
	}

	if _, err := os.Stat(nameOrPath); err == nil {
		return nameOrPath, nil
	}

	return "", fmt.Errorf("profile '%s': %w", nameOrPath, constants.ErrProfileNameNotFound)
}

// CreateClientWithProfile creates a sharing client for the selected profile.
// The flag value wins over the DELTASHARE_PROFILE environment variable and
// the configured current profile.
func CreateClientWithProfile(profileFlag string) (sharing.Client, error) {
	if profileFlag == "" {
		profileFlag = viper.GetString("profile")
	}

	config := loadConfig()

	profilePath, err := resolveProfilePath(config, profileFlag)
	if err != nil {
		return nil, err
	}

	profile, err := sharing.LoadProfile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	clientConfig := &sharing.Config{
		Profile:       profile,
		PageSize:      viper.GetInt("max-results"),
		SkipTLSVerify: viper.GetBool("skip-tls-verify"),
	}

	if viper.GetBool("verbose") {
		clientConfig.Logger = stderrLogger{}
		clientConfig.Debug = true
	}

	return shareclient.New(clientConfig)
}

// normalizeEndpoint validates a sharing endpoint URL. A missing scheme
// defaults to https. The URL path is preserved; sharing servers are commonly
// mounted under a prefix.
func normalizeEndpoint(endpoint string) (string, error) {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingEndpointHost, endpoint)
	}

	return strings.TrimSuffix(endpoint, "/"), nil
}

// profileNameFromEndpoint derives a default profile name from the endpoint
// host.
func profileNameFromEndpoint(endpoint string) string {
	parsedURL, err := url.Parse(endpoint)
	if err != nil || parsedURL.Hostname() == "" {
		return "default"
	}

	return parsedURL.Hostname()
}

// writeProfileFile saves a profile under the profiles directory and returns
// its path.
func writeProfileFile(name string, profile *sharing.Profile) (string, error) {
	dir, err := profilesDir()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(dir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create profiles directory: %w", err)
	}

	path := filepath.Join(dir, name+constants.ProfileFileExtension)

	err = profile.Save(path)
	if err != nil {
		return "", fmt.Errorf("failed to write profile file: %w", err)
	}

	return path, nil
}

// tableRefFromArgs accepts either SHARE SCHEMA TABLE or a single
// share.schema.table argument.
func tableRefFromArgs(args []string) (sharing.TableRef, error) {
	switch len(args) {
	case 1:
		return sharing.ParseTableRef(args[0])
	case tableRefArgCount:
		return sharing.TableRef{Share: args[0], Schema: args[1], Table: args[2]}, nil
	default:
		return sharing.TableRef{}, constants.ErrTableRefArguments
	}
}

// paginationFromFlags builds a page cursor from list flags. Nil leaves paging
// to the server.
func paginationFromFlags(maxResults int, pageToken string) *sharing.Pagination {
	if pageToken != "" {
		return sharing.NewPaginationFromToken(maxResults, pageToken)
	}

	if maxResults > 0 {
		return sharing.NewPagination(maxResults)
	}

	return nil
}

// stderrLogger writes client logs to standard error for --verbose runs.
type stderrLogger struct{}

func (stderrLogger) Debug(msg string, fields map[string]interface{}) { logToStderr("DEBUG", msg, fields) }
func (stderrLogger) Info(msg string, fields map[string]interface{})  { logToStderr("INFO", msg, fields) }
func (stderrLogger) Warn(msg string, fields map[string]interface{})  { logToStderr("WARN", msg, fields) }
func (stderrLogger) Error(msg string, fields map[string]interface{}) { logToStderr("ERROR", msg, fields) }

func logToStderr(level, msg string, fields map[string]interface{}) {
	if len(fields) == 0 {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", level, msg)

		return
	}

	_, _ = fmt.Fprintf(os.Stderr, "%s %s %v\n", level, msg, fields)
}

// StandardJSONRenderer creates a standard JSON encoder.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer creates a standard YAML encoder.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// renderNextPageHint prints a continuation hint after a partial listing.
func renderNextPageHint(nextPageToken string) {
	if nextPageToken != "" {
		_, _ = fmt.Fprintf(os.Stdout, "\nMore results available. Use --page-token %s to continue.\n", nextPageToken)
	}
}

// stringOrDefault renders an optional string value.
func stringOrDefault(value *string) string {
	if value == nil || *value == "" {
		return NotAvailable
	}

	return *value
}

// TruncateString shortens a string for table display.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}

	return s[:maxLength-3] + "..."
}
