package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and KAGGLE_CONFIG_DIR at empty temp directories so
// tests never pick up the developer's real credentials.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KAGGLE_CONFIG_DIR", t.TempDir())
	t.Setenv("KAGGLE_USERNAME", "")
	t.Setenv("KAGGLE_KEY", "")
	t.Setenv("KAGGLE_API_KEY", "")
	os.Unsetenv("KAGGLE_USERNAME")
	os.Unsetenv("KAGGLE_KEY")
	os.Unsetenv("KAGGLE_API_KEY")
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("KAGGLE_USERNAME", "alice")
	t.Setenv("KAGGLE_KEY", "secret-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Username != "alice" || cfg.Key != "secret-key" {
		t.Errorf("credentials = %q/%q", cfg.Username, cfg.Key)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want default info", cfg.LogLevel)
	}
}

func TestLoadAcceptsAPIKeyAlias(t *testing.T) {
	isolate(t)
	t.Setenv("KAGGLE_USERNAME", "alice")
	t.Setenv("KAGGLE_API_KEY", "alias-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Key != "alias-key" {
		t.Errorf("key = %q, want alias-key", cfg.Key)
	}
}

func TestLoadFromCredentialsFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("KAGGLE_CONFIG_DIR", dir)
	path := filepath.Join(dir, CredentialsFileName)
	if err := os.WriteFile(path, []byte(`{"username":"bob","key":"file-key"}`), 0o600); err != nil {
		t.Fatalf("writing kaggle.json: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Username != "bob" || cfg.Key != "file-key" {
		t.Errorf("credentials = %q/%q", cfg.Username, cfg.Key)
	}
}

func TestLoadEnvironmentBeatsCredentialsFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("KAGGLE_CONFIG_DIR", dir)
	path := filepath.Join(dir, CredentialsFileName)
	if err := os.WriteFile(path, []byte(`{"username":"bob","key":"file-key"}`), 0o600); err != nil {
		t.Fatalf("writing kaggle.json: %v", err)
	}
	t.Setenv("KAGGLE_USERNAME", "alice")
	t.Setenv("KAGGLE_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Username != "alice" || cfg.Key != "env-key" {
		t.Errorf("credentials = %q/%q, want environment values", cfg.Username, cfg.Key)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	isolate(t)

	_, err := Load()
	if !errors.Is(err, ErrMissingUsername) {
		t.Errorf("Load() error = %v, want ErrMissingUsername", err)
	}

	t.Setenv("KAGGLE_USERNAME", "alice")
	_, err = Load()
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("Load() error = %v, want ErrMissingKey", err)
	}
}

func TestLoadMalformedCredentialsFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("KAGGLE_CONFIG_DIR", dir)
	path := filepath.Join(dir, CredentialsFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("writing kaggle.json: %v", err)
	}

	_, err := Load()
	if !errors.Is(err, ErrInvalidCredentialsFile) {
		t.Errorf("Load() error = %v, want ErrInvalidCredentialsFile", err)
	}
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := &Config{Username: "alice", Key: "k", LogLevel: "loud"}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("Validate() error = %v, want ErrInvalidLogLevel", err)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		ok    bool
	}{
		{"", true},
		{"info", true},
		{"debug", true},
		{"warn", true},
		{"warning", true},
		{"ERROR", true},
		{"trace", false},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		if _, err := cfg.SlogLevel(); (err == nil) != tt.ok {
			t.Errorf("SlogLevel(%q) error = %v, ok = %v", tt.level, err, tt.ok)
		}
	}
}

func TestMarshalJSONMasksKey(t *testing.T) {
	cfg := &Config{Username: "alice", Key: "super-secret"}

	raw, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(raw), "super-secret") {
		t.Errorf("marshaled config leaks the key: %s", raw)
	}
	if !strings.Contains(string(raw), "********") {
		t.Errorf("marshaled config missing mask: %s", raw)
	}
}
