package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandArgsGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.log", "b.log", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	paths, err := expandArgs([]string{filepath.Join(dir, "*.log")})
	if err != nil {
		t.Fatalf("expandArgs failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 matches, got %v", paths)
	}
	for _, p := range paths {
		if filepath.Ext(p) != ".log" {
			t.Errorf("glob leaked %q", p)
		}
	}
}

func TestExpandArgsLiteralPassesThrough(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.log")

	paths, err := expandArgs([]string{missing})
	if err != nil {
		t.Fatalf("expandArgs failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != missing {
		t.Errorf("expected literal path untouched, got %v", paths)
	}
}

func TestExpandArgsUnmatchedPattern(t *testing.T) {
	if _, err := expandArgs([]string{filepath.Join(t.TempDir(), "*.gone")}); err == nil {
		t.Error("expected error for pattern with no matches")
	}
}
