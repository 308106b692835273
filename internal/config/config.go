// Package config provides configuration management for the SocialSpark server.
// It handles loading and parsing the YAML configuration file and overlays
// secrets from the environment so keys never have to live on disk.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `yaml:"port" json:"port"`

	// Debug enables verbose logging and gin debug mode.
	Debug bool `yaml:"debug" json:"debug"`

	// AuthDir is the directory used to persist LinkedIn sessions for the CLI
	// login flow. Supports "~" expansion.
	AuthDir string `yaml:"auth-dir" json:"auth-dir"`

	// LoggingToFile writes logs to rotating files instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// Gemini holds the generation service credentials.
	Gemini GeminiConfig `yaml:"gemini" json:"gemini"`

	// LinkedIn holds the OAuth application credentials.
	LinkedIn LinkedInConfig `yaml:"linkedin" json:"linkedin"`
}

// GeminiConfig holds credentials for the Google Generative Language API.
type GeminiConfig struct {
	// APIKey authenticates generateContent requests. Overridden by GEMINI_API_KEY.
	APIKey string `yaml:"api-key" json:"api-key"`
}

// LinkedInConfig holds the OAuth client registration for LinkedIn.
type LinkedInConfig struct {
	// ClientID is the OAuth application client id. Overridden by LINKEDIN_CLIENT_ID.
	ClientID string `yaml:"client-id" json:"client-id"`

	// ClientSecret is the OAuth application secret. Overridden by LINKEDIN_CLIENT_SECRET.
	ClientSecret string `yaml:"client-secret" json:"client-secret"`

	// RedirectURI must match the redirect registered with LinkedIn,
	// e.g. http://localhost:8317/auth/callback. Overridden by LINKEDIN_REDIRECT_URI.
	RedirectURI string `yaml:"redirect-uri" json:"redirect-uri"`
}

// DefaultPort is used when the config file does not specify one.
const DefaultPort = 8317

// LoadConfig reads the YAML file at configFile, applies environment overrides
// and fills in defaults. A missing file is not an error; the environment alone
// can carry a full configuration.
func LoadConfig(configFile string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
			return nil, fmt.Errorf("config: parse %s failed: %w", configFile, errUnmarshal)
		}
	case os.IsNotExist(err):
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("config: read %s failed: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		c.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("LINKEDIN_CLIENT_ID")); v != "" {
		c.LinkedIn.ClientID = v
	}
	if v := strings.TrimSpace(os.Getenv("LINKEDIN_CLIENT_SECRET")); v != "" {
		c.LinkedIn.ClientSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("LINKEDIN_REDIRECT_URI")); v != "" {
		c.LinkedIn.RedirectURI = v
	}
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.AuthDir == "" {
		c.AuthDir = "~/.socialspark"
	}
	if c.LinkedIn.RedirectURI == "" {
		c.LinkedIn.RedirectURI = fmt.Sprintf("http://localhost:%d/auth/callback", c.Port)
	}
}

// ResolveAuthDir expands a leading "~" in dir against the user home directory.
func ResolveAuthDir(dir string) (string, error) {
	if dir == "" || !strings.HasPrefix(dir, "~") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory failed: %w", err)
	}
	rest := strings.TrimPrefix(dir, "~")
	rest = strings.TrimPrefix(rest, string(os.PathSeparator))
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return home, nil
	}
	return home + string(os.PathSeparator) + rest, nil
}
