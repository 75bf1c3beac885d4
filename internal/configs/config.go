package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

const (
	DefaultSuffix            = ".dyad"
	DefaultMinPasswordLength = 7
)

type UserConfig struct {
	Defaults Defaults    `toml:"defaults" yaml:"defaults" json:"defaults"`
	Audit    AuditConfig `toml:"audit" yaml:"audit" json:"audit"`
	S3       S3Config    `toml:"s3" yaml:"s3" json:"s3"`
}

type Defaults struct {
	Suffix            string `toml:"suffix" yaml:"suffix" json:"suffix"`
	OutputDir         string `toml:"output_dir" yaml:"output_dir" json:"output_dir"`
	MinPasswordLength int    `toml:"min_password_length" yaml:"min_password_length" json:"min_password_length"`
	Overwrite         bool   `toml:"overwrite" yaml:"overwrite" json:"overwrite"`
}

type AuditConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `toml:"path" yaml:"path" json:"path"`
}

type S3Config struct {
	Endpoint        string `toml:"endpoint" yaml:"endpoint" json:"endpoint"`
	Region          string `toml:"region" yaml:"region" json:"region"`
	Bucket          string `toml:"bucket" yaml:"bucket" json:"bucket"`
	AccessKeyID     string `toml:"access_key_id" yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key" yaml:"secret_access_key" json:"secret_access_key"`
	UseSSL          bool   `toml:"use_ssl" yaml:"use_ssl" json:"use_ssl"`
}

// DefaultUserConfig returns the configuration used when no file exists.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Defaults: Defaults{
			Suffix:            DefaultSuffix,
			MinPasswordLength: DefaultMinPasswordLength,
		},
		Audit: AuditConfig{
			Enabled: true,
		},
		S3: S3Config{
			UseSSL: true,
		},
	}
}

// LoadUserConfig reads the config at path over the defaults. A missing file
// yields the defaults.
func LoadUserConfig(path string) (*UserConfig, error) {
	config := DefaultUserConfig()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	unknown, err := LoadTOML(path, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s: unknown keys %s", kerrors.ErrInvalidConfig, path, strings.Join(unknown, ", "))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveUserConfig writes config to path, creating parent directories.
func SaveUserConfig(path string, config *UserConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// InitUserConfig writes the default config to path. An existing file is only
// replaced when force is set.
func InitUserConfig(path string, force bool) (*UserConfig, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigExists, path)
	}

	config := DefaultUserConfig()
	if err := SaveUserConfig(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that would make envelopes unusable or ambiguous.
func (c *UserConfig) Validate() error {
	suffix := c.Defaults.Suffix
	if suffix == "" {
		return fmt.Errorf("%w: defaults.suffix must not be empty", kerrors.ErrInvalidConfig)
	}
	if strings.ContainsAny(suffix, `/\`) {
		return fmt.Errorf("%w: defaults.suffix %q contains a path separator", kerrors.ErrInvalidConfig, suffix)
	}
	if c.Defaults.MinPasswordLength < 1 {
		return fmt.Errorf("%w: defaults.min_password_length must be at least 1", kerrors.ErrInvalidConfig)
	}
	if c.S3.Bucket != "" && c.S3.Endpoint == "" {
		return fmt.Errorf("%w: s3.bucket is set but s3.endpoint is empty", kerrors.ErrInvalidConfig)
	}
	return nil
}

// AuditLogPath returns the configured audit log path, or the default one.
func (c *UserConfig) AuditLogPath() string {
	if c.Audit.Path == "" {
		return DefaultAuditLogPath()
	}
	if strings.HasPrefix(c.Audit.Path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.Audit.Path[2:])
		}
	}
	return c.Audit.Path
}

// Redacted returns a copy safe to print.
func (c *UserConfig) Redacted() *UserConfig {
	out := *c
	if out.S3.SecretAccessKey != "" {
		out.S3.SecretAccessKey = "********"
	}
	return &out
}
