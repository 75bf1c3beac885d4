package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/PolarWolf314/dyad/internal/configs"
	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

func TestConfigInit(t *testing.T) {
	env := setupTestEnvironment(t)

	output, err := env.run("config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Configuration written to") {
		t.Errorf("Expected success message, got: %s", output)
	}
	if _, err := os.Stat(env.ConfigPath); err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}

	output, err = env.run("config", "init")
	if !errors.Is(err, kerrors.ErrConfigExists) {
		t.Fatalf("Expected ErrConfigExists, got %v\nOutput: %s", err, output)
	}

	if output, err := env.run("config", "init", "--force"); err != nil {
		t.Fatalf("config init --force failed: %v\nOutput: %s", err, output)
	}
}

func TestConfigInitRepairsBrokenFile(t *testing.T) {
	env := setupTestEnvironment(t)
	env.writeConfig(t, "[defaults]\nsuffix = \"\"\n")
	env.writeFile(t, "notes.txt", "hello")
	t.Setenv("DYAD_PASSWORD", testPassword)

	output, err := env.run("encrypt", env.path("notes.txt"), "--email", testEmail)
	if !errors.Is(err, kerrors.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Configuration is invalid") {
		t.Errorf("Expected invalid config message, got: %s", output)
	}

	if output, err := env.run("config", "init", "--force"); err != nil {
		t.Fatalf("config init --force failed: %v\nOutput: %s", err, output)
	}
	if output, err := env.run("encrypt", env.path("notes.txt"), "--email", testEmail); err != nil {
		t.Fatalf("encrypt failed after repair: %v\nOutput: %s", err, output)
	}
}

func TestConfigShow(t *testing.T) {
	env := setupTestEnvironment(t)
	env.writeConfig(t, `[defaults]
suffix = ".box"
min_password_length = 10

[s3]
endpoint = "localhost:9000"
access_key_id = "minioadmin"
secret_access_key = "supersecret"
`)

	t.Run("json", func(t *testing.T) {
		output, err := env.run("config", "show", "--format", "json")
		if err != nil {
			t.Fatalf("config show failed: %v\nOutput: %s", err, output)
		}
		var cfg configs.UserConfig
		if err := json.Unmarshal([]byte(output), &cfg); err != nil {
			t.Fatalf("Output is not JSON: %v\n%s", err, output)
		}
		if cfg.Defaults.Suffix != ".box" || cfg.Defaults.MinPasswordLength != 10 {
			t.Errorf("Unexpected defaults: %+v", cfg.Defaults)
		}
		if !cfg.Audit.Enabled {
			t.Errorf("Audit should stay enabled by default")
		}
		if cfg.S3.SecretAccessKey == "supersecret" {
			t.Errorf("Secret access key was not masked")
		}
	})

	for _, format := range []string{"toml", "yaml"} {
		t.Run(format, func(t *testing.T) {
			output, err := env.run("config", "show", "--format", format)
			if err != nil {
				t.Fatalf("config show failed: %v\nOutput: %s", err, output)
			}
			if !strings.Contains(output, ".box") {
				t.Errorf("Expected suffix in output, got: %s", output)
			}
			if strings.Contains(output, "supersecret") {
				t.Errorf("Secret access key was not masked: %s", output)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		if _, err := env.run("config", "show", "--format", "ini"); err == nil {
			t.Fatal("Expected an error for an unknown format")
		}
	})
}

func TestRootCommandBanner(t *testing.T) {
	env := setupTestEnvironment(t)

	output, err := env.run()
	if err != nil {
		t.Fatalf("dyad failed: %v", err)
	}
	if !strings.Contains(output, "dyad --help") {
		t.Errorf("Expected a help hint, got: %s", output)
	}
}
