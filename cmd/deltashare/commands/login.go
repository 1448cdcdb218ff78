package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/pkg/shareclient"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		endpoint    string
		token       string
		expires     string
		profileName string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a Delta Sharing server",
		Long:  "Verify a bearer token against a sharing server and save it as a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoginCommand(endpoint, token, expires, profileName)
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "sharing server endpoint URL")
	cmd.Flags().StringVarP(&token, "token", "t", "", "bearer token (prompted for when omitted)")
	cmd.Flags().StringVar(&expires, "expires", "", "token expiration time (RFC 3339)")
	cmd.Flags().StringVarP(&profileName, "name", "n", "", "profile name (defaults to the endpoint host)")

	return cmd
}

//nolint:funlen
func runLoginCommand(endpoint, token, expires, profileName string) error {
	// Get the endpoint
	if endpoint == "" {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Endpoint: ")
		endpoint, _ = reader.ReadString('\n')
		endpoint = strings.TrimSpace(endpoint)
	}

	if endpoint == "" {
		return constants.ErrEndpointRequired
	}

	normalizedEndpoint, err := normalizeEndpoint(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}

	// Get the bearer token without echoing it
	if token == "" {
		fmt.Print("Bearer token: ")

		byteToken, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}

		token = strings.TrimSpace(string(byteToken))

		fmt.Println()
	}

	var expirationTime *time.Time

	if expires != "" {
		parsed, err := time.Parse(time.RFC3339, expires)
		if err != nil {
			return fmt.Errorf("invalid --expires value: %w", err)
		}

		expirationTime = &parsed
	}

	profile, err := sharing.NewBearerTokenProfile(normalizedEndpoint, token, expirationTime)
	if err != nil {
		return err
	}

	client, err := shareclient.NewWithProfile(profile)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	// Verify the credential with a single-page shares probe
	ctx := context.Background()

	_, err = client.Shares().ListPaginated(ctx, sharing.NewPagination(1))
	if err != nil {
		return fmt.Errorf("failed to verify credentials: %w", err)
	}

	if profileName == "" {
		profileName = profileNameFromEndpoint(normalizedEndpoint)
	}

	profilePath, err := writeProfileFile(profileName, profile)
	if err != nil {
		return err
	}

	// Register the profile and make it current
	config := loadConfig()
	if config.Profiles == nil {
		config.Profiles = make(map[string]string)
	}

	config.Profiles[profileName] = profilePath
	config.CurrentProfile = profileName

	if err := saveConfigStruct(config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Successfully logged in to %s\n", normalizedEndpoint)
	fmt.Printf("Profile '%s' is now the current profile\n", profileName)

	return nil
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out from the current sharing server",
		Long:  "Clear the current profile selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.CurrentProfile == "" {
				fmt.Println("No current profile set")

				return nil
			}

			name := config.CurrentProfile
			config.CurrentProfile = ""

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Logged out of profile '%s'\n", name)

			return nil
		},
	}
}
