package mediator

import (
	"context"
	"path/filepath"
	"testing"

	"imageworld/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		Rpc:      config.RpcConfig{Port: "0"},
		Provider: config.ProviderConfig{ApiKey: "hf_test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Dsn: filepath.Join(dir, "app.db")},
		Storage:  config.StorageConfig{Backend: "local", BaseDir: filepath.Join(dir, "blobs")},
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, app.api)
	assert.NotNil(t, app.rpc)
	assert.Nil(t, app.rdb)
	assert.Equal(t, "huggingface", app.Config.Provider.Kind)

	app.Shutdown()
	assert.Error(t, app.ctx.Err())
}

func TestNewApp_Rejects(t *testing.T) {
	tests := map[string]func(*config.Config){
		"provider":   func(c *config.Config) { c.Provider.Kind = "dalle" },
		"gemini key": func(c *config.Config) { c.Provider.Kind = "gemini" },
		"sessions":   func(c *config.Config) { c.Session.Store = "memcached" },
		"storage":    func(c *config.Config) { c.Storage.Backend = "ftp" },
		"database":   func(c *config.Config) { c.Database.Driver = "mysql" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			mutate(&cfg)

			app, err := NewApp(context.Background(), cfg)
			assert.Error(t, err)
			assert.Nil(t, app)
		})
	}
}
