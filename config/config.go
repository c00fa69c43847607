package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/aaraaapps/aaraa.app/model"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Storage   StorageConfig    `yaml:"storage"`
	Database  DatabaseConfig   `yaml:"database"`
	Auth      AuthConfig       `yaml:"auth"`
	Assistant AssistantConfig  `yaml:"assistant"`
	Upload    UploadConfig     `yaml:"upload"`
	Wizard    WizardConfig     `yaml:"wizard"`
	Log       LogConfig        `yaml:"log"`
	Store     StoreConfig      `yaml:"store"`
	Employees []model.Employee `yaml:"employees"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	StaticDir   string `yaml:"static_dir"`
	Environment string `yaml:"environment"`
}

// StorageConfig describes the S3-compatible bucket that receives uploads.
// PublicBaseURL overrides the URL prefix handed back to clients, e.g.
// https://storage.googleapis.com when the endpoint is GCS interop.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"`

	// OrphanGraceMinutes keeps recently written objects out of orphan
	// reconciliation while their submission is still being recorded.
	OrphanGraceMinutes int `yaml:"orphan_grace_minutes"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

// AuthConfig holds token settings and the shared login password.
// The shared password is a placeholder for per-employee credentials.
type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret"`
	TokenExpireHours   int    `yaml:"token_expire_hours"`
	SharedPassword     string `yaml:"shared_password"`
	SharedPasswordHash string `yaml:"shared_password_hash"`
}

type AssistantConfig struct {
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	FallbackInsight string `yaml:"fallback_insight"`
}

type UploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

type WizardConfig struct {
	DraftTTLMinutes int `yaml:"draft_ttl_minutes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StoreConfig struct {
	MaxSubmissions int  `yaml:"max_submissions"`
	SeedApprovals  bool `yaml:"seed_approvals"`
}

// DefaultJWTSecret is only suitable for local development
const DefaultJWTSecret = "default-secret-key-change-in-production"

// Load reads the YAML file at path, applies defaults and then environment
// overrides. A missing file yields a default configuration.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv(os.Getenv)

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "./dist"
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "aaraa-erp-assets"
	}
	if c.Storage.Endpoint == "" {
		c.Storage.Endpoint = "storage.googleapis.com"
		c.Storage.UseSSL = true
	}
	if c.Storage.OrphanGraceMinutes <= 0 {
		c.Storage.OrphanGraceMinutes = 10
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 12
	}
	if c.Auth.SharedPassword == "" && c.Auth.SharedPasswordHash == "" {
		c.Auth.SharedPassword = "123"
	}
	if c.Assistant.Model == "" {
		c.Assistant.Model = "gemini-3-flash-preview"
	}
	if c.Assistant.FallbackInsight == "" {
		c.Assistant.FallbackInsight = "Ready to assist you with your daily operations."
	}
	if c.Upload.MaxSizeMB == 0 {
		c.Upload.MaxSizeMB = 25
	}
	if c.Wizard.DraftTTLMinutes == 0 {
		c.Wizard.DraftTTLMinutes = 120
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = DefaultJWTSecret
	}
	if c.Store.MaxSubmissions < 0 {
		c.Store.MaxSubmissions = 0
	}
	if len(c.Employees) == 0 {
		c.Employees = model.DefaultEmployees()
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := getenv("APP_ENV"); v != "" {
		c.Server.Environment = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.Assistant.APIKey = v
	}
	if v := getenv("STORAGE_ACCESS_KEY"); v != "" {
		c.Storage.AccessKey = v
	}
	if v := getenv("STORAGE_SECRET_KEY"); v != "" {
		c.Storage.SecretKey = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
}
