// Package shareclient provides the main entry point for creating Delta Sharing clients
package shareclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/deltashare/internal/client"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

// New creates a new Delta Sharing client from the given configuration.
func New(config *sharing.Config) (sharing.Client, error) {
	if config == nil {
		return nil, sharing.ErrConfigRequired
	}

	if config.Profile == nil && config.Endpoint == "" {
		return nil, sharing.ErrEndpointRequired
	}

	// Normalize the endpoint; a profile carries an already validated URL.
	if config.Endpoint != "" {
		endpoint := strings.TrimSuffix(config.Endpoint, "/")
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}

		config.Endpoint = endpoint
	}

	sharingClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return sharingClient, nil
}

// NewWithProfile creates a new client from a parsed profile.
func NewWithProfile(profile *sharing.Profile) (sharing.Client, error) {
	return New(&sharing.Config{
		Profile: profile,
	})
}

// NewFromProfileFile creates a new client from a profile file on disk.
func NewFromProfileFile(path string) (sharing.Client, error) {
	profile, err := sharing.LoadProfile(path)
	if err != nil {
		return nil, err
	}

	return NewWithProfile(profile)
}

// NewWithToken creates a new client for an endpoint and a fixed bearer token.
func NewWithToken(endpoint, token string) (sharing.Client, error) {
	return New(&sharing.Config{
		Endpoint:    endpoint,
		BearerToken: token,
	})
}
