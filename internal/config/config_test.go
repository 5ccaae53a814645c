package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "data/domus.db" {
		t.Errorf("DBPath = %q, want data/domus.db", cfg.DBPath)
	}
	if cfg.TemplateDir != "web/templates" {
		t.Errorf("TemplateDir = %q, want web/templates", cfg.TemplateDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("port: 9090\ndb_path: /tmp/test.db\nsession_secret: file-secret-0123456789\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want /tmp/test.db", cfg.DBPath)
	}
	if cfg.SessionSecret != "file-secret-0123456789" {
		t.Errorf("SessionSecret = %q", cfg.SessionSecret)
	}
	// Fields the file omits keep their defaults.
	if cfg.TemplateDir != "web/templates" {
		t.Errorf("TemplateDir = %q, want default", cfg.TemplateDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() with missing explicit file should fail")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "3000")
	t.Setenv("DB_PATH", "/var/lib/domus.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want env override 3000", cfg.Port)
	}
	if cfg.DBPath != "/var/lib/domus.db" {
		t.Errorf("DBPath = %q, want env override", cfg.DBPath)
	}
}

func TestInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Fatal("Load() with bad PORT should fail")
	}

	t.Setenv("PORT", "70000")
	if _, err := Load(""); err == nil {
		t.Fatal("Load() with out-of-range PORT should fail")
	}
}
