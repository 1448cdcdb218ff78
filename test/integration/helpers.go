//go:build integration
// +build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests. Tests run against a
// real Delta Sharing server and are skipped when no endpoint is configured.
type TestConfig struct {
	// ProfilePath is a profile file granting access to the test server.
	ProfilePath string

	// ShareName is a share the profile is expected to see.
	ShareName string

	// BinaryPath is the path to the deltashare binary for CLI tests.
	BinaryPath string

	Verbose bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		ProfilePath: os.Getenv("DELTASHARE_TEST_PROFILE"),
		ShareName:   os.Getenv("DELTASHARE_TEST_SHARE"),
		BinaryPath:  binaryPath(),
		Verbose:     os.Getenv("DELTASHARE_TEST_VERBOSE") == "true",
	}
}

// binaryPath determines the path to the deltashare binary.
func binaryPath() string {
	if path := os.Getenv("DELTASHARE_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../deltashare",
		"./deltashare",
		"../deltashare",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "deltashare" // Fallback to PATH
}

// SkipIfMissingConfig skips the test when no test server is configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.ProfilePath == "" {
		t.Skip("DELTASHARE_TEST_PROFILE not set, skipping integration test")
	}

	if _, err := os.Stat(config.ProfilePath); err != nil {
		t.Skipf("profile file %s not readable, skipping integration test", config.ProfilePath)
	}
}

// SkipIfMissingBinary additionally skips CLI-driving tests when the binary is
// not built.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := os.Stat(config.BinaryPath); os.IsNotExist(err) {
		t.Skipf("deltashare binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs deltashare CLI commands against the test server.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a deltashare command with the test profile and returns its
// output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--profile", runner.config.ProfilePath}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// AssertJSONOutput verifies command output looks like JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}
