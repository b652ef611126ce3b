package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"symptom-triage/pkg"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Model   ModelConfig
	Gemini  GeminiConfig
	OpenAI  OpenAIConfig
	Log     LogConfig
	Triage  TriageConfig
	AppEnv  string
	Service string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// ModelConfig selects the generative-text backend
type ModelConfig struct {
	Provider string
	Timeout  time.Duration
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// LogConfig holds the rotating log sink configuration
type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	Level      string
	Console    bool
}

// TriageConfig holds deployment-specific triage settings
type TriageConfig struct {
	ZoneLabelsFile string
}

// Load reads a .env file if present and then builds the configuration from
// environment variables.  It does not check required secrets; call Validate.
func Load() (*Config, error) {
	_ = godotenv.Load()

	modelTimeout, err := getEnvAsDuration("MODEL_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			RequestTimeout: requestTimeout,
		},
		Model: ModelConfig{
			Provider: strings.ToLower(getEnv("MODEL_PROVIDER", ProviderGemini)),
			Timeout:  modelTimeout,
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Log: LogConfig{
			File:       getEnv("LOG_FILE", "app_logs.log"),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 1),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			Level:      getEnv("LOG_LEVEL", "info"),
			Console:    getEnvAsBool("LOG_CONSOLE", true),
		},
		Triage: TriageConfig{
			ZoneLabelsFile: getEnv("ZONE_LABELS_FILE", ""),
		},
		AppEnv:  getEnv("APP_ENV", "production"),
		Service: getEnv("SERVICE_NAME", "symptom-triage"),
	}, nil
}

// Validate checks that the selected model provider is known and that its API
// key is set.  The server must not start when this fails.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return errors.New("GEMINI_API_KEY is not set. Please set it in environment or .env file")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY is not set. Please set it in environment or .env file")
		}
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q (want %s or %s)", c.Model.Provider, ProviderGemini, ProviderOpenAI)
	}
	if c.Model.Timeout <= 0 {
		return errors.New("MODEL_TIMEOUT must be positive")
	}
	return nil
}

// ZoneLabels returns the zone label table for this deployment: the built-in
// labels overlaid with ZONE_LABELS_FILE when one is configured.
func (c *Config) ZoneLabels() (map[pkg.Zone]string, error) {
	if c.Triage.ZoneLabelsFile == "" {
		return pkg.DefaultZoneLabels(), nil
	}
	return LoadZoneLabels(c.Triage.ZoneLabelsFile)
}

// LoadZoneLabels reads a YAML file mapping zone names to display labels, e.g.
//
//	Red: "Zone: 🔴 Red – High risk"
//	Yellow: "Zone: 🟡 Yellow – Low risk"
//
// Zones absent from the file keep their default label.
func LoadZoneLabels(path string) (map[pkg.Zone]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zone labels: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse zone labels %s: %w", path, err)
	}
	labels := pkg.DefaultZoneLabels()
	for name, label := range raw {
		zone, ok := pkg.ParseZone(name)
		if !ok {
			return nil, fmt.Errorf("zone labels %s: unknown zone %q", path, name)
		}
		if strings.TrimSpace(label) == "" {
			continue
		}
		labels[zone] = label
	}
	return labels, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// getEnvAsList splits a comma separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
