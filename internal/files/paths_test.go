package files

import (
	"path/filepath"
	"testing"
)

func TestEnvelopePath(t *testing.T) {
	tests := []struct {
		src, suffix, outDir, want string
	}{
		{"/home/u/notes.txt", ".dyad", "", "/home/u/notes.txt.dyad"},
		{"/home/u/notes.txt", ".sealed", "/out", filepath.Join("/out", "notes.txt.sealed")},
		{"s3://bucket/a/notes.txt", ".dyad", "", "s3://bucket/a/notes.txt.dyad"},
		{"/home/u/notes.txt", ".dyad", "s3://bucket/sealed", "s3://bucket/sealed/notes.txt.dyad"},
	}
	for _, tt := range tests {
		if got := EnvelopePath(tt.src, tt.suffix, tt.outDir); got != tt.want {
			t.Errorf("EnvelopePath(%q, %q, %q) = %q, want %q", tt.src, tt.suffix, tt.outDir, got, tt.want)
		}
	}
}

func TestPlaintextPath(t *testing.T) {
	tests := []struct {
		name                                 string
		envelope, headerName, outDir, want string
	}{
		{"header name next to envelope", "/in/x.dyad", "report.pdf", "", filepath.Join("/in", "report.pdf")},
		{"header name in output dir", "/in/x.dyad", "report.pdf", "/out", filepath.Join("/out", "report.pdf")},
		{"traversal is stripped", "/in/x.dyad", "../../etc/passwd", "/out", filepath.Join("/out", "passwd")},
		{"windows separators", "/in/x.dyad", `C:\Users\a\doc.txt`, "/out", filepath.Join("/out", "doc.txt")},
		{"empty header falls back to suffix strip", "/in/notes.txt.dyad", "", "", filepath.Join("/in", "notes.txt")},
		{"dot-dot header falls back", "/in/notes.txt.dyad", "..", "", filepath.Join("/in", "notes.txt")},
		{"no suffix to strip", "/in/blob", "", "", filepath.Join("/in", "blob.decrypted")},
		{"remote envelope", "s3://bucket/a/x.dyad", "report.pdf", "", "s3://bucket/a/report.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlaintextPath(tt.envelope, tt.headerName, ".dyad", tt.outDir); got != tt.want {
				t.Errorf("PlaintextPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeFileName(t *testing.T) {
	tests := map[string]string{
		"report.pdf":      "report.pdf",
		"dir/report.pdf":  "report.pdf",
		"/abs/report.pdf": "report.pdf",
		"a/b/":            "b",
		"":                "",
		".":               "",
		"..":              "",
		"/":               "",
		"bad\x00name":     "",
		"ümlaut.txt":      "ümlaut.txt",
	}
	for in, want := range tests {
		if got := SafeFileName(in); got != want {
			t.Errorf("SafeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
