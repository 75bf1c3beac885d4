package files

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// makeTree creates files (relative paths) under a temp dir and returns it.
func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(p, []byte("x"), 0600); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	return root
}

func abs(root string, rel ...string) []string {
	out := make([]string, len(rel))
	for i, r := range rel {
		out[i] = filepath.Join(root, r)
	}
	return out
}

func TestResolveFilesLiteral(t *testing.T) {
	root := makeTree(t, "notes.txt", "notes.txt.dyad")

	got, err := ResolveFiles([]string{"notes.txt.dyad"}, root, ".dyad", true)
	if err != nil {
		t.Fatalf("ResolveFiles failed: %v", err)
	}
	// Literal paths are taken as given even when they look like envelopes.
	if want := abs(root, "notes.txt.dyad"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveFilesDirectory(t *testing.T) {
	root := makeTree(t, "a.txt", "a.txt.dyad", "sub/b.pdf", "sub/b.pdf.dyad", "sub/deep/c.md")

	tests := []struct {
		name          string
		forEncryption bool
		want          []string
	}{
		{"encrypt skips envelopes", true, abs(root, "a.txt", "sub/b.pdf", "sub/deep/c.md")},
		{"decrypt picks envelopes", false, abs(root, "a.txt.dyad", "sub/b.pdf.dyad")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFiles([]string{"."}, root, ".dyad", tt.forEncryption)
			if err != nil {
				t.Fatalf("ResolveFiles failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveFilesDoublestarGlob(t *testing.T) {
	root := makeTree(t, "x.pdf", "docs/a.pdf", "docs/2024/b.pdf", "docs/2024/b.txt", "docs/2024/b.pdf.dyad")

	got, err := ResolveFiles([]string{"docs/**/*.pdf"}, root, ".dyad", true)
	if err != nil {
		t.Fatalf("ResolveFiles failed: %v", err)
	}
	if want := abs(root, "docs/2024/b.pdf", "docs/a.pdf"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveFilesDeduplicatesAndSorts(t *testing.T) {
	root := makeTree(t, "b.txt", "a.txt")

	got, err := ResolveFiles([]string{"b.txt", "*.txt", "a.txt"}, root, ".dyad", true)
	if err != nil {
		t.Fatalf("ResolveFiles failed: %v", err)
	}
	if want := abs(root, "a.txt", "b.txt"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveFilesRemotePassThrough(t *testing.T) {
	got, err := ResolveFiles([]string{"s3://bucket/k.dyad"}, t.TempDir(), ".dyad", false)
	if err != nil {
		t.Fatalf("ResolveFiles failed: %v", err)
	}
	if len(got) != 1 || got[0] != "s3://bucket/k.dyad" {
		t.Errorf("Expected remote location untouched, got %v", got)
	}
}

func TestResolveFilesErrors(t *testing.T) {
	root := makeTree(t, "a.txt")

	if _, err := ResolveFiles(nil, root, ".dyad", true); !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Errorf("Expected ErrNoFilesFound for no patterns, got %v", err)
	}
	if _, err := ResolveFiles([]string{"missing.txt"}, root, ".dyad", true); !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
	if _, err := ResolveFiles([]string{"*.pdf"}, root, ".dyad", true); !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Errorf("Expected ErrNoFilesFound for empty glob, got %v", err)
	}
}
