package configs

import (
	"log"
	"os"
	"path/filepath"
)

type UserSettings struct {
	// UserConfigsPath is the directory holding config.toml.
	UserConfigsPath string
	// UserDataPath is the directory holding the audit log.
	UserDataPath string
}

var UserDyadSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	UserDyadSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "dyad"),
		UserDataPath:    filepath.Join(dataDir, "dyad"),
	}
}

// DefaultConfigPath is where the user config lives unless --config says otherwise.
func DefaultConfigPath() string {
	return filepath.Join(UserDyadSettings.UserConfigsPath, "config.toml")
}

// DefaultAuditLogPath is used when [audit] path is empty.
func DefaultAuditLogPath() string {
	return filepath.Join(UserDyadSettings.UserDataPath, "audit.jsonl")
}
