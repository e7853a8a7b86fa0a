package configs

import (
	"os"
	"path/filepath"

	"github.com/PolarWolf314/coffer/internal/storage"
)

// ConfigEnv overrides the config file location.
const ConfigEnv = "COFFER_CONFIG"

type Settings struct {
	ConfigDir string
	DataDir   string
}

var CofferSettings *Settings

func init() {
	CofferSettings = resolveSettings()
}

func resolveSettings() *Settings {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(homeDir, ".local", "share")
		} else {
			dataDir = os.TempDir()
		}
	}

	return &Settings{
		ConfigDir: filepath.Join(configDir, "coffer"),
		DataDir:   filepath.Join(dataDir, "coffer"),
	}
}

// ConfigPath returns the config file location. An explicit path wins over
// COFFER_CONFIG, which wins over the default.
func (s *Settings) ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(ConfigEnv); env != "" {
		return env
	}
	return filepath.Join(s.ConfigDir, "config.toml")
}

// AuditLogPath returns the audit log location.
func (s *Settings) AuditLogPath() string {
	return filepath.Join(s.DataDir, "audit.jsonl")
}

// DefaultStorePath returns where a backend keeps its data when the config
// leaves store.path empty.
func (s *Settings) DefaultStorePath(backend string) string {
	switch backend {
	case storage.BackendSQLite:
		return filepath.Join(s.DataDir, "store.db")
	case storage.BackendFile:
		return filepath.Join(s.DataDir, "store.json")
	default:
		return ""
	}
}
