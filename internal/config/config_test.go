package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
port: 9000
debug: true
logging-to-file: true
auth-dir: /var/lib/socialspark
gemini:
  api-key: file-key
linkedin:
  client-id: app-id
  client-secret: app-secret
  redirect-uri: http://example.com/auth/callback
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 9000 || !cfg.Debug || !cfg.LoggingToFile {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.AuthDir != "/var/lib/socialspark" {
		t.Fatalf("auth dir = %q", cfg.AuthDir)
	}
	if cfg.Gemini.APIKey != "file-key" {
		t.Fatalf("gemini key = %q", cfg.Gemini.APIKey)
	}
	if cfg.LinkedIn.ClientID != "app-id" || cfg.LinkedIn.ClientSecret != "app-secret" {
		t.Fatalf("linkedin = %+v", cfg.LinkedIn)
	}
	if cfg.LinkedIn.RedirectURI != "http://example.com/auth/callback" {
		t.Fatalf("redirect = %q", cfg.LinkedIn.RedirectURI)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("LINKEDIN_REDIRECT_URI", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Fatalf("port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.AuthDir != "~/.socialspark" {
		t.Fatalf("auth dir = %q", cfg.AuthDir)
	}
	want := "http://localhost:8317/auth/callback"
	if cfg.LinkedIn.RedirectURI != want {
		t.Fatalf("redirect = %q, want %q", cfg.LinkedIn.RedirectURI, want)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
gemini:
  api-key: file-key
linkedin:
  client-id: file-id
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("LINKEDIN_CLIENT_ID", "env-id")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "env-secret")
	t.Setenv("LINKEDIN_REDIRECT_URI", "http://env/cb")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Fatalf("gemini key = %q", cfg.Gemini.APIKey)
	}
	if cfg.LinkedIn.ClientID != "env-id" || cfg.LinkedIn.ClientSecret != "env-secret" {
		t.Fatalf("linkedin = %+v", cfg.LinkedIn)
	}
	if cfg.LinkedIn.RedirectURI != "http://env/cb" {
		t.Fatalf("redirect = %q", cfg.LinkedIn.RedirectURI)
	}
}

func TestLoadConfigRedirectDefaultFollowsPort(t *testing.T) {
	t.Setenv("LINKEDIN_REDIRECT_URI", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9100\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LinkedIn.RedirectURI != "http://localhost:9100/auth/callback" {
		t.Fatalf("redirect = %q", cfg.LinkedIn.RedirectURI)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not a port"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolveAuthDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ResolveAuthDir("~/.socialspark")
	if err != nil {
		t.Fatalf("ResolveAuthDir: %v", err)
	}
	if !strings.HasPrefix(got, home) || !strings.HasSuffix(got, ".socialspark") {
		t.Fatalf("resolved = %q", got)
	}

	got, err = ResolveAuthDir("/absolute/path")
	if err != nil || got != "/absolute/path" {
		t.Fatalf("absolute path = %q, %v", got, err)
	}

	got, err = ResolveAuthDir("~")
	if err != nil || got != home {
		t.Fatalf("bare tilde = %q, %v", got, err)
	}
}
