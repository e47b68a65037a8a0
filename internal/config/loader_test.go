package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("VITANA_TEST_TOKEN", "s3cret")

	path := writeConfig(t, `
version: "1"
modules:
  gateway.http:
    auth_token: ${VITANA_TEST_TOKEN}
    listen: ${VITANA_TEST_LISTEN:-127.0.0.1:8420}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != "1" {
		t.Errorf("Version = %q, want 1", cfg.Version)
	}

	node, ok := cfg.Modules["gateway.http"]
	if !ok {
		t.Fatal("gateway.http module config missing")
	}
	var gw struct {
		AuthToken string `yaml:"auth_token"`
		Listen    string `yaml:"listen"`
	}
	if err := node.Decode(&gw); err != nil {
		t.Fatalf("decoding module config: %v", err)
	}
	if gw.AuthToken != "s3cret" {
		t.Errorf("auth_token = %q, want env value", gw.AuthToken)
	}
	if gw.Listen != "127.0.0.1:8420" {
		t.Errorf("listen = %q, want the fallback default", gw.Listen)
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `
version: "1"
modules:
  engine.selection:
    key: ${VITANA_DEFINITELY_UNSET_VAR}
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unresolved variable")
	}
	if !strings.Contains(err.Error(), "VITANA_DEFINITELY_UNSET_VAR") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
