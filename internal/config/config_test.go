package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwellapp/inkwell/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, config.DefaultDataDir(), cfg.Store.DataDir)
	assert.Equal(t, filepath.Join(config.DefaultDataDir(), "backups"), cfg.Backup.Dir)
	assert.Equal(t, filepath.Join(config.DefaultDataDir(), "inbox"), cfg.Watch.Dir)
	assert.False(t, cfg.Watch.Enabled)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("INKWELL_ENVIRONMENT", "production")
	t.Setenv("INKWELL_LOG_LEVEL", "debug")
	t.Setenv("INKWELL_LOG_FORMAT", "json")
	t.Setenv("INKWELL_WATCH_ENABLED", "true")

	cfg := config.New()

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Watch.Enabled)
}

func TestNew_DirsFollowRelocatedDataDir(t *testing.T) {
	t.Setenv("INKWELL_DATA_DIR", "/srv/inkwell")

	cfg := config.New()

	assert.Equal(t, "/srv/inkwell", cfg.Store.DataDir)
	assert.Equal(t, filepath.Join("/srv/inkwell", "backups"), cfg.Backup.Dir)
	assert.Equal(t, filepath.Join("/srv/inkwell", "inbox"), cfg.Watch.Dir)
}

func TestNew_ExplicitDirsWinOverRelocation(t *testing.T) {
	t.Setenv("INKWELL_DATA_DIR", "/srv/inkwell")
	t.Setenv("INKWELL_BACKUP_DIR", "/mnt/backups")

	cfg := config.New()

	assert.Equal(t, "/mnt/backups", cfg.Backup.Dir)
	assert.Equal(t, filepath.Join("/srv/inkwell", "inbox"), cfg.Watch.Dir)
}
