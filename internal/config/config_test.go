package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  env: development
  data_dir: /tmp/agrilens-test
store:
  backend: memory
sync:
  upload_timeout_seconds: 5
  startup_sync: true
  interval_minutes: 1
analysis:
  endpoint: https://api.example.com/diagnose
aws:
  region: ap-south-1
  bucket: agrilens-captures
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.DataDir != "/tmp/agrilens-test" {
		t.Errorf("DataDir = %q", cfg.App.DataDir)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.UploadTimeout != 5*time.Second {
		t.Errorf("UploadTimeout = %v, want 5s", cfg.UploadTimeout)
	}
	if cfg.SyncInterval != time.Minute {
		t.Errorf("SyncInterval = %v, want 1m", cfg.SyncInterval)
	}
	if !cfg.Sync.StartupSync {
		t.Error("StartupSync should be true")
	}
	if cfg.Analysis.Endpoint != "https://api.example.com/diagnose" {
		t.Errorf("Endpoint = %q", cfg.Analysis.Endpoint)
	}
	if cfg.AWS.Bucket != "agrilens-captures" {
		t.Errorf("Bucket = %q", cfg.AWS.Bucket)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Store.Backend != "sqlite" {
		t.Errorf("default Backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.UploadTimeout != 30*time.Second {
		t.Errorf("default UploadTimeout = %v, want 30s", cfg.UploadTimeout)
	}
	if cfg.SyncInterval != 15*time.Minute {
		t.Errorf("default SyncInterval = %v, want 15m", cfg.SyncInterval)
	}
	if cfg.App.DataDir == "" {
		t.Error("default DataDir should not be empty")
	}
}
