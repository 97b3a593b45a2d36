package svcconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaultsAndEnvSubstitution(t *testing.T) {
	t.Setenv("RGB_LISTEN_ADDR", ":9999")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte("environment: staging\nlisten:\n  addr: ${RGB_LISTEN_ADDR}\nchain:\n  network: signet\n")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen.Addr != ":9999" {
		t.Fatalf("expected env-substituted addr, got %q", cfg.Listen.Addr)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default logging level, got %q", cfg.Logging.Level)
	}
	if cfg.Chain.RPCTimeout.Duration() == 0 {
		t.Fatalf("expected default RPC timeout to be applied")
	}
}

func TestLoadRejectsUnknownLoggingLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: verbose\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown logging level")
	}
}
