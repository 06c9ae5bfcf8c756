package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "")
	nested := filepath.Join(root, "grammars", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(root, ManifestName) {
		t.Errorf("path = %q", path)
	}
	dir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || dir != root {
		t.Errorf("FindProjectRoot = %q, %v, %v", dir, ok, err)
	}
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)
	writeFile(t, path, `
[generate]
jobs = 4
strict_references = true

[output]
format = "json"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Generate.Jobs != 4 || !m.Generate.StrictReferences {
		t.Errorf("generate = %+v", m.Generate)
	}
	if !m.Generate.Cache || m.Generate.CacheDir != filepath.Join(root, DefaultCacheDir) {
		t.Errorf("cache defaults = %v %q", m.Generate.Cache, m.Generate.CacheDir)
	}
	if m.Output.Format != "json" {
		t.Errorf("format = %q", m.Output.Format)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		is      error
	}{
		{"unknown key", "[generate]\nthreads = 2\n", "unknown keys: generate.threads", nil},
		{"bad format", "[output]\nformat = \"xml\"\n", "xml", ErrBadFormat},
		{"negative jobs", "[generate]\njobs = -1\n", "jobs", ErrBadJobs},
		{"syntax", "[generate\n", "failed to parse TOML", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadManifest(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
		})
	}
}

func TestResolveWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	m, err := Resolve(filepath.Join(dir, "model.toml"))
	if err != nil {
		t.Fatal(err)
	}
	// t.TempDir lives outside any project; defaults apply unless the host has
	// an lrgen.toml somewhere above it.
	if m.Path == "" && (m.Generate.Cache || m.Output.Format != "pretty") {
		t.Errorf("defaults = %+v", m)
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := StringDigest("a"), StringDigest("b")
	base := StringDigest("model")
	if Combine(base, a, b) == Combine(base, b, a) {
		t.Error("Combine must depend on part order")
	}
	if got := len(base.Hex()); got != 64 {
		t.Errorf("hex length = %d", got)
	}
}
