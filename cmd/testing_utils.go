// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments
// and capturing output.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/dyad/internal/configs"
)

// testEnv is an isolated working directory with its own config and audit log.
type testEnv struct {
	Dir        string
	ConfigPath string
	AuditPath  string
}

// setupTestEnvironment isolates user settings, config and audit log in temp
// directories and clears DYAD_* variables that could leak in from the host.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	tempDir := t.TempDir()
	tempUserDir := t.TempDir()

	originalUserSettings := configs.UserDyadSettings
	configs.UserDyadSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempUserDir, "config"),
		UserDataPath:    filepath.Join(tempUserDir, "data"),
	}
	t.Cleanup(func() {
		configs.UserDyadSettings = originalUserSettings
		ResetGlobalState()
	})

	env := &testEnv{
		Dir:        tempDir,
		ConfigPath: filepath.Join(tempUserDir, "config", "config.toml"),
		AuditPath:  filepath.Join(tempUserDir, "data", "audit.jsonl"),
	}

	for _, name := range []string{
		"DYAD_PASSWORD", "DYAD_EMAIL", "DYAD_AUDIT_ENABLED", "DYAD_AUDIT_PATH",
		"DYAD_DEFAULTS_SUFFIX", "DYAD_DEFAULTS_OUTPUT_DIR", "DYAD_DEFAULTS_OVERWRITE",
		"DYAD_DEFAULTS_MIN_PASSWORD_LENGTH", "DYAD_S3_ENDPOINT",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("NO_COLOR", "1")

	return env
}

// writeFile creates name under the environment's directory and returns its path.
func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// writeConfig replaces the environment's config file with content.
func (e *testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.ConfigPath), 0700); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}
	if err := os.WriteFile(e.ConfigPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

// path returns the absolute path of name under the environment's directory.
func (e *testEnv) path(name string) string {
	return filepath.Join(e.Dir, name)
}

// run executes the dyad CLI with args against the environment's config file.
func (e *testEnv) run(args ...string) (string, error) {
	ResetGlobalState()
	RootCmd.SetArgs(append([]string{"--config", e.ConfigPath}, args...))
	return captureOutput(RootCmd.Execute)
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// withStdin replaces os.Stdin with a pipe carrying input for the duration of the test.
func withStdin(t *testing.T, input string) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdin pipe: %v", err)
	}
	if _, err := w.WriteString(input); err != nil {
		t.Fatalf("Failed to write stdin: %v", err)
	}
	w.Close()

	original := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = original
		r.Close()
	})
}
