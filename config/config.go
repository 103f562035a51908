package config

import (
	"strings"
	"time"
)

type Config struct {
	Api         ApiConfig         `yaml:"api"`
	Rpc         RpcConfig         `yaml:"rpc"`
	Provider    ProviderConfig    `yaml:"provider"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Session     SessionConfig     `yaml:"session"`
	Redis       RedisConfig       `yaml:"redis"`
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	Gallery     GalleryConfig     `yaml:"gallery"`
	Log         LogConfig         `yaml:"log"`
}

type ApiConfig struct {
	Port           string `yaml:"port"`
	AllowedOrigins string `yaml:"allowedOrigins"`
	// BodyLimit is in bytes; gallery uploads carry the image as a data URL.
	BodyLimit int `yaml:"bodyLimit"`
}

type RpcConfig struct {
	Port string `yaml:"port"`
}

type ProviderConfig struct {
	// Kind selects the image provider: "huggingface" or "gemini".
	Kind   string `yaml:"kind"`
	Url    string `yaml:"url"`
	ApiKey string `yaml:"apiKey"`
	// Timeout is a duration string; empty means no deadline.
	Timeout string `yaml:"timeout"`
}

type HuggingFaceConfig struct {
	Model        string `yaml:"model"`
	ModelInfoUrl string `yaml:"modelInfoUrl"`
}

type GeminiConfig struct {
	ApiKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type SessionConfig struct {
	// Store is "memory" or "redis".
	Store      string `yaml:"store"`
	Ttl        string `yaml:"ttl"`
	CookieName string `yaml:"cookieName"`
	Secure     bool   `yaml:"secure"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	Dsn    string `yaml:"dsn"`
}

type StorageConfig struct {
	// Backend is "local", "gcs" or "s3".
	Backend         string `yaml:"backend"`
	Bucket          string `yaml:"bucket"`
	BaseDir         string `yaml:"baseDir"`
	// PublicBaseUrl left empty lets each backend pick its own.
	PublicBaseUrl   string `yaml:"publicBaseUrl"`
	CredentialsFile string `yaml:"credentialsFile"`
	Region          string `yaml:"region"`
}

type GalleryConfig struct {
	QueueSize     int `yaml:"queueSize"`
	MaxConcurrent int `yaml:"maxConcurrent"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	DefaultModel        = "stabilityai/stable-diffusion-3.5-large"
	DefaultInferenceUrl = "https://api-inference.huggingface.co/models/{model}"
	DefaultModelInfoUrl = "https://huggingface.co/api/models/{model}"
	DefaultGeminiModel  = "gemini-2.5-flash-image"
)

// ApplyDefaults fills every zero value the yaml file left out.
func (c *Config) ApplyDefaults() {
	if c.Api.Port == "" {
		c.Api.Port = "8080"
	}
	if c.Api.AllowedOrigins == "" {
		c.Api.AllowedOrigins = "*"
	}
	if c.Api.BodyLimit <= 0 {
		c.Api.BodyLimit = 16 << 20
	}
	if c.Rpc.Port == "" {
		c.Rpc.Port = "9090"
	}
	if c.Provider.Kind == "" {
		c.Provider.Kind = "huggingface"
	}
	if c.HuggingFace.Model == "" {
		c.HuggingFace.Model = DefaultModel
	}
	if c.Provider.Url == "" {
		c.Provider.Url = DefaultInferenceUrl
	}
	if c.HuggingFace.ModelInfoUrl == "" {
		c.HuggingFace.ModelInfoUrl = DefaultModelInfoUrl
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Session.Store == "" {
		c.Session.Store = "memory"
	}
	if c.Session.Ttl == "" {
		c.Session.Ttl = "720h"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "session"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Dsn == "" && c.Database.Driver == "sqlite" {
		c.Database.Dsn = "imageworld.db"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "local"
	}
	if c.Storage.BaseDir == "" {
		c.Storage.BaseDir = "data/blobs"
	}
	if c.Gallery.QueueSize <= 0 {
		c.Gallery.QueueSize = 64
	}
	if c.Gallery.MaxConcurrent <= 0 {
		c.Gallery.MaxConcurrent = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// InferenceUrl resolves the {model} placeholder in the provider url.
func (c *Config) InferenceUrl() string {
	return strings.ReplaceAll(c.Provider.Url, "{model}", c.HuggingFace.Model)
}

func (c *Config) ModelInfoUrl() string {
	return strings.ReplaceAll(c.HuggingFace.ModelInfoUrl, "{model}", c.HuggingFace.Model)
}

// ProviderTimeout returns zero when no timeout is configured or it does not parse.
func (c *Config) ProviderTimeout() time.Duration {
	return parseDuration(c.Provider.Timeout, 0)
}

func (c *Config) SessionTTL() time.Duration {
	return parseDuration(c.Session.Ttl, 720*time.Hour)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
