package workflows

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/dyad/internal/audit"
	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// setupWorkspace creates a temp dir with the given files and routes the
// audit log into it.
func setupWorkspace(t *testing.T, contents map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range contents {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	original := audit.LogPath()
	audit.SetLogPath(filepath.Join(dir, "audit", "audit.jsonl"))
	t.Cleanup(func() { audit.SetLogPath(original) })
	return dir
}

func newSecrets(password, email string) *Secrets {
	return &Secrets{Password: []byte(password), Email: []byte(email)}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := setupWorkspace(t, map[string]string{"notes.txt": "hello"})
	ctx := context.Background()

	secrets := newSecrets("correcthorse", "a@b.com")
	enc, err := Encrypt(ctx, EncryptOptions{
		FilePatterns: []string{"notes.txt"},
		BaseDir:      dir,
		Secrets:      secrets,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if !bytes.Equal(secrets.Password, make([]byte, len("correcthorse"))) {
		t.Error("Expected password to be wiped after Encrypt")
	}

	envelopePath := filepath.Join(dir, "notes.txt.dyad")
	if len(enc.EncryptedFiles) != 1 || enc.EncryptedFiles[0] != envelopePath {
		t.Fatalf("Unexpected encrypted files: %v", enc.EncryptedFiles)
	}
	if enc.Bytes != 5 {
		t.Errorf("Expected 5 plaintext bytes, got %d", enc.Bytes)
	}

	outDir := filepath.Join(dir, "restored")
	dec, err := Decrypt(ctx, DecryptOptions{
		FilePatterns: []string{"notes.txt.dyad"},
		BaseDir:      dir,
		OutputDir:    outDir,
		Secrets:      newSecrets("correcthorse", "a@b.com"),
	})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}

	restored := filepath.Join(outDir, "notes.txt")
	if len(dec.DecryptedFiles) != 1 || dec.DecryptedFiles[0] != restored {
		t.Fatalf("Unexpected decrypted files: %v", dec.DecryptedFiles)
	}
	data, err := os.ReadFile(restored)
	if err != nil {
		t.Fatalf("Failed to read restored file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Expected %q, got %q", "hello", data)
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 || !entries[0].Success || !entries[1].Success {
		t.Fatalf("Expected two successful audit entries, got %+v", entries)
	}
	if entries[0].Operation != audit.OpEncrypt || entries[1].Output != restored {
		t.Errorf("Unexpected audit entries: %+v", entries)
	}

	// Wrong email: nothing written, failure audited as authentication.
	_, err = Decrypt(ctx, DecryptOptions{
		FilePatterns: []string{envelopePath},
		OutputDir:    filepath.Join(dir, "wrong"),
		Secrets:      newSecrets("correcthorse", "a@b.org"),
	})
	if !errors.Is(err, kerrors.ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "wrong")); !os.IsNotExist(err) {
		t.Error("Expected no output for a failed decryption")
	}
	entries, _ = audit.ReadEntries()
	if last := entries[len(entries)-1]; last.Success || last.ErrorKind != audit.KindAuthentication {
		t.Errorf("Expected authentication failure entry, got %+v", last)
	}
}

func TestEncryptDryRun(t *testing.T) {
	dir := setupWorkspace(t, map[string]string{"a.txt": "a", "sub/b.txt": "b"})

	result, err := Encrypt(context.Background(), EncryptOptions{
		FilePatterns: []string{"."},
		BaseDir:      dir,
		OutputDir:    "/sealed",
		DryRun:       true,
	})
	if err != nil {
		t.Fatalf("Encrypt dry run failed: %v", err)
	}
	if !result.DryRun || len(result.EncryptedFiles) != 2 {
		t.Fatalf("Unexpected dry run result: %+v", result)
	}
	if result.EncryptedFiles[0] != filepath.Join("/sealed", "a.txt.dyad") {
		t.Errorf("Unexpected envelope path %q", result.EncryptedFiles[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt.dyad")); !os.IsNotExist(err) {
		t.Error("Dry run must not write envelopes")
	}
}

func TestEncryptRefusesOverwrite(t *testing.T) {
	dir := setupWorkspace(t, map[string]string{"a.txt": "a", "a.txt.dyad": "existing"})

	_, err := Encrypt(context.Background(), EncryptOptions{
		FilePatterns: []string{"a.txt"},
		BaseDir:      dir,
		Secrets:      newSecrets("correcthorse", "a@b.com"),
	})
	if !errors.Is(err, kerrors.ErrFileExists) {
		t.Fatalf("Expected ErrFileExists, got %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "a.txt.dyad"))
	if string(data) != "existing" {
		t.Error("Existing envelope was modified")
	}
}

func TestEncryptRequiresSecrets(t *testing.T) {
	dir := setupWorkspace(t, map[string]string{"a.txt": "a"})

	_, err := Encrypt(context.Background(), EncryptOptions{
		FilePatterns: []string{"a.txt"},
		BaseDir:      dir,
		Secrets:      newSecrets("correcthorse", ""),
	})
	if !errors.Is(err, kerrors.ErrEmptySecret) {
		t.Fatalf("Expected ErrEmptySecret, got %v", err)
	}
}

func TestDecryptRejectsForeignFile(t *testing.T) {
	dir := setupWorkspace(t, map[string]string{"notes.txt.dyad": "not an envelope at all"})

	_, err := Decrypt(context.Background(), DecryptOptions{
		FilePatterns: []string{"notes.txt.dyad"},
		BaseDir:      dir,
		Secrets:      newSecrets("correcthorse", "a@b.com"),
	})
	if !errors.Is(err, kerrors.ErrFormat) {
		t.Fatalf("Expected ErrFormat, got %v", err)
	}

	entries, _ := audit.ReadEntries()
	if len(entries) != 1 || entries[0].ErrorKind != audit.KindFormat {
		t.Errorf("Expected one format failure entry, got %+v", entries)
	}
}

func TestDecryptRefusesOverwriteBeforeDerivingKeys(t *testing.T) {
	dir := setupWorkspace(t, map[string]string{"report.pdf": "keep me"})
	writeFakeEnvelope(t, filepath.Join(dir, "x.dyad"), "report.pdf", 10)

	_, err := Decrypt(context.Background(), DecryptOptions{
		FilePatterns: []string{"x.dyad"},
		BaseDir:      dir,
		Secrets:      newSecrets("correcthorse", "a@b.com"),
	})
	if !errors.Is(err, kerrors.ErrFileExists) {
		t.Fatalf("Expected ErrFileExists, got %v", err)
	}
}

func TestDecryptMultipleOutputs(t *testing.T) {
	dir := setupWorkspace(t, nil)
	writeFakeEnvelope(t, filepath.Join(dir, "a.dyad"), "a", 1)
	writeFakeEnvelope(t, filepath.Join(dir, "b.dyad"), "b", 1)

	_, err := Decrypt(context.Background(), DecryptOptions{
		FilePatterns: []string{"*.dyad"},
		BaseDir:      dir,
		Output:       filepath.Join(dir, "out.txt"),
		Secrets:      newSecrets("correcthorse", "a@b.com"),
	})
	if !errors.Is(err, kerrors.ErrMultipleOutputs) {
		t.Fatalf("Expected ErrMultipleOutputs, got %v", err)
	}
}

func TestDecryptCancelled(t *testing.T) {
	dir := setupWorkspace(t, nil)
	writeFakeEnvelope(t, filepath.Join(dir, "a.dyad"), "a", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Decrypt(ctx, DecryptOptions{
		FilePatterns: []string{"a.dyad"},
		BaseDir:      dir,
		Secrets:      newSecrets("correcthorse", "a@b.com"),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(result.DecryptedFiles) != 0 {
		t.Errorf("Expected nothing decrypted, got %v", result.DecryptedFiles)
	}
}
