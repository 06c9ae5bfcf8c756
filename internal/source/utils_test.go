package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")
	for _, dir := range []string{baseDir, otherDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	target := filepath.Join(otherDir, "parse.y")
	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("RelativePath = %q, want %q", got, want)
	}

	inside := filepath.Join(baseDir, "grammar", "parse.y")
	got, err = RelativePath(inside, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if got != "grammar/parse.y" {
		t.Fatalf("RelativePath = %q", got)
	}
}
