package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/typedfs/pkg/typedfs/config"
	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.Sandbox.Enabled)
	assert.Equal(t, "warn", cfg.Logging.Level)

	policy, err := cfg.IfExists()
	require.NoError(t, err)
	assert.Equal(t, core.IfExistsThrowError, policy)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TYPEDFS_SANDBOX_ENABLED", "true")
	t.Setenv("TYPEDFS_SANDBOX_ROOT", "/srv/data")
	t.Setenv("TYPEDFS_SANDBOX_DENYLIST", ".git,*.key")
	t.Setenv("TYPEDFS_LOG_LEVEL", "debug")
	t.Setenv("TYPEDFS_IF_EXISTS", "replace")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Sandbox.Enabled)
	assert.Equal(t, "/srv/data", cfg.Sandbox.Root)
	assert.Equal(t, []string{".git", "*.key"}, cfg.Sandbox.Denylist)
	assert.Equal(t, "debug", cfg.Logging.Level)

	policy, err := cfg.IfExists()
	require.NoError(t, err)
	assert.Equal(t, core.IfExistsReplace, policy)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *config.Config) {}},
		{name: "sandbox without root", mutate: func(c *config.Config) { c.Sandbox.Enabled = true }, wantErr: true},
		{name: "relative root", mutate: func(c *config.Config) {
			c.Sandbox.Enabled = true
			c.Sandbox.Root = "data"
		}, wantErr: true},
		{name: "absolute root", mutate: func(c *config.Config) {
			c.Sandbox.Enabled = true
			c.Sandbox.Root = "/data"
		}},
		{name: "bad policy", mutate: func(c *config.Config) { c.Create.IfExists = "merge" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
