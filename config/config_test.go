package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendMemory {
		t.Fatalf("expected default backend memory, got %q", cfg.Backend)
	}
	if cfg.ChainName != "root" {
		t.Fatalf("expected default chain name root, got %q", cfg.ChainName)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Backend != cfg.Backend || reloaded.ChainName != cfg.ChainName {
		t.Fatalf("expected reloaded config to match persisted default")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.toml")
	writeConfigFile(t, path, `Backend = "rocksdb"`+"\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadRequiresDataDirForLevelDB(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.toml")
	writeConfigFile(t, path, `Backend = "leveldb"`+"\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error when leveldb backend has no DataDir")
	}
}

func writeConfigFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
