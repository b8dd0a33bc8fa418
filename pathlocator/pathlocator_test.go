package pathlocator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocateEmptyPath(t *testing.T) {
	got, err := Default{}.Locate("", nil)
	if err != nil || got != "" {
		t.Fatalf("Locate(\"\") = (%q, %v), want (\"\", nil)", got, err)
	}
}

func TestLocateExistingPathAsIs(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "config.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := Default{}.Locate(f, nil)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want, _ := filepath.Abs(f)
	if got != filepath.Clean(want) {
		t.Fatalf("Locate = %q, want %q", got, want)
	}
}

func TestLocateFallsBackToSearchDirs(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "config.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := Default{}.Locate("config.txt", []string{dir})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want, _ := filepath.Abs(f)
	if got != filepath.Clean(want) {
		t.Fatalf("Locate = %q, want %q", got, want)
	}
}

func TestLocateReturnsInputUnchangedWhenNotFound(t *testing.T) {
	got, err := Default{}.Locate("does-not-exist.txt", []string{t.TempDir()})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != "does-not-exist.txt" {
		t.Fatalf("Locate = %q, want input unchanged", got)
	}
}
