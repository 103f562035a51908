package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()

	assert.Equal(t, "8080", c.Api.Port)
	assert.Equal(t, "*", c.Api.AllowedOrigins)
	assert.Equal(t, "9090", c.Rpc.Port)
	assert.Equal(t, "huggingface", c.Provider.Kind)
	assert.Equal(t, DefaultModel, c.HuggingFace.Model)
	assert.Equal(t, "memory", c.Session.Store)
	assert.Equal(t, "session", c.Session.CookieName)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "local", c.Storage.Backend)
	assert.Equal(t, 64, c.Gallery.QueueSize)
	assert.Equal(t, 4, c.Gallery.MaxConcurrent)
	assert.Equal(t, "info", c.Log.Level)

	assert.Equal(t, "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-3.5-large", c.InferenceUrl())
	assert.Equal(t, "https://huggingface.co/api/models/stabilityai/stable-diffusion-3.5-large", c.ModelInfoUrl())
}

func TestApplyDefaults_KeepsValues(t *testing.T) {
	c := Config{
		Api:      ApiConfig{Port: "3000"},
		Database: DatabaseConfig{Driver: "postgres", Dsn: "postgres://x"},
		Gallery:  GalleryConfig{QueueSize: 8},
	}
	c.ApplyDefaults()

	assert.Equal(t, "3000", c.Api.Port)
	assert.Equal(t, "postgres://x", c.Database.Dsn)
	assert.Equal(t, 8, c.Gallery.QueueSize)
}

func TestDurations(t *testing.T) {
	tests := []struct {
		in      string
		timeout time.Duration
		ttl     time.Duration
	}{
		{"", 0, 720 * time.Hour},
		{"90s", 90 * time.Second, 90 * time.Second},
		{"soon", 0, 720 * time.Hour},
		{"-5m", 0, 720 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := Config{
				Provider: ProviderConfig{Timeout: tt.in},
				Session:  SessionConfig{Ttl: tt.in},
			}
			assert.Equal(t, tt.timeout, c.ProviderTimeout())
			assert.Equal(t, tt.ttl, c.SessionTTL())
		})
	}
}

func TestConfigFile_StoragePublicURLDefault(t *testing.T) {
	raw, err := os.ReadFile("config.yaml")
	require.NoError(t, err)

	var c Config
	require.NoError(t, yaml.Unmarshal(raw, &c))

	// anything but an empty default would pin gcs and s3 urls to /blobs
	assert.Equal(t, "${STORAGE_PUBLIC_BASE_URL:-}", c.Storage.PublicBaseUrl)
}

func TestApplyDefaults_RemoteStorageKeepsEmptyURL(t *testing.T) {
	for _, backend := range []string{"gcs", "s3"} {
		c := Config{Storage: StorageConfig{Backend: backend, Bucket: "gallery"}}
		c.ApplyDefaults()
		assert.Empty(t, c.Storage.PublicBaseUrl, backend)
	}
}
