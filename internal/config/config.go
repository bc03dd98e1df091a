// Package config provides application configuration loaded from environment variables with sane defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type (
	// Config holds the application configuration.
	Config struct {
		App    App
		Logger Logger
		Store  Store
		Backup Backup
		Watch  Watch
	}

	// App holds application-level configuration.
	App struct {
		Environment string // "development" or "production"
	}

	// Logger holds logging configuration.
	Logger struct {
		Level  string
		Format string // "pretty" or "json"; empty auto-detects from environment
	}

	// Store holds storage configuration.
	Store struct {
		// DataDir is the root directory for the database, book payloads,
		// and the search index. Defaults to ~/.inkwell.
		DataDir string
	}

	// Backup holds backup archive configuration.
	Backup struct {
		Dir string // Directory where backup archives are written
	}

	// Watch holds import-folder watching configuration.
	Watch struct {
		Enabled bool
		Dir     string // Directory watched for dropped .epub files
	}
)

// DefaultDataDir returns the default data directory under the user's home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inkwell"
	}
	return filepath.Join(home, ".inkwell")
}

// New loads configuration from the environment.
// All keys are prefixed INKWELL_ (e.g. INKWELL_DATA_DIR, INKWELL_LOG_LEVEL).
func New() *Config {
	v := viper.New()
	v.SetEnvPrefix("INKWELL")
	v.AutomaticEnv()

	dataDir := DefaultDataDir()

	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "")
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("backup_dir", filepath.Join(dataDir, "backups"))
	v.SetDefault("watch_enabled", false)
	v.SetDefault("watch_dir", filepath.Join(dataDir, "inbox"))

	cfg := &Config{
		App: App{
			Environment: v.GetString("environment"),
		},
		Logger: Logger{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Store: Store{
			DataDir: v.GetString("data_dir"),
		},
		Backup: Backup{
			Dir: v.GetString("backup_dir"),
		},
		Watch: Watch{
			Enabled: v.GetBool("watch_enabled"),
			Dir:     v.GetString("watch_dir"),
		},
	}

	// Backup and watch dirs follow a relocated data dir unless set explicitly.
	// IsSet reports true for registered defaults, so probe the environment.
	if cfg.Store.DataDir != dataDir {
		if _, ok := os.LookupEnv("INKWELL_BACKUP_DIR"); !ok {
			cfg.Backup.Dir = filepath.Join(cfg.Store.DataDir, "backups")
		}
		if _, ok := os.LookupEnv("INKWELL_WATCH_DIR"); !ok {
			cfg.Watch.Dir = filepath.Join(cfg.Store.DataDir, "inbox")
		}
	}

	return cfg
}
