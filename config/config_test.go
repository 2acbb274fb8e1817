package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/warp/reporting-engine/config"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "reporting.db" {
		t.Errorf("db path = %q, want reporting.db", cfg.Database.Path)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 3000

[database]
path = ":memory:"

[demo]
reference_date = "2025-06-15"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("db path = %q, want :memory:", cfg.Database.Path)
	}

	ref, err := cfg.ReferenceDate()
	if err != nil {
		t.Fatalf("ReferenceDate: %v", err)
	}
	if ref == nil || ref.Format("2006-01-02") != "2025-06-15" {
		t.Errorf("reference date = %v, want 2025-06-15", ref)
	}
}

func TestReferenceDateRejectsGarbage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Demo.ReferenceDate = "June 15th"
	if _, err := cfg.ReferenceDate(); err == nil {
		t.Error("expected error for malformed reference date")
	}
}
