package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// useTempLog points the package at a fresh log file for the test.
func useTempLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "audit.jsonl")
	original := LogPath()
	SetLogPath(path)
	t.Cleanup(func() { SetLogPath(original) })
	return path
}

func TestLog_CreatesFile(t *testing.T) {
	logPath := useTempLog(t)

	Log(Entry{Operation: OpEncrypt, File: "notes.txt", Success: true})

	info, err := os.Stat(logPath)
	if os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	useTempLog(t)

	Log(Entry{Operation: OpEncrypt, File: "a.txt"})
	Log(Entry{Operation: OpDecrypt, File: "a.txt.dyad"})
	Log(Entry{Operation: OpDecrypt, File: "b.txt.dyad"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Operation != OpEncrypt || entries[2].File != "b.txt.dyad" {
		t.Errorf("Entries out of order: %+v", entries)
	}
}

func TestLog_FillsIDAndTimestamp(t *testing.T) {
	logPath := useTempLog(t)

	before := time.Now().UTC().Add(-time.Second)
	Log(Entry{Operation: OpEncrypt, File: "a.txt"})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	var entry Entry
	if err := json.Unmarshal(data[:len(data)-1], &entry); err != nil {
		t.Fatalf("Log line is not valid JSON: %v", err)
	}

	if _, err := uuid.Parse(entry.ID); err != nil {
		t.Errorf("Expected a UUID id, got %q", entry.ID)
	}
	ts, err := time.Parse(TimestampFormat, entry.Timestamp)
	if err != nil {
		t.Fatalf("Timestamp %q does not match format: %v", entry.Timestamp, err)
	}
	if ts.Before(before) {
		t.Errorf("Timestamp %v is older than %v", ts, before)
	}
	if !strings.HasSuffix(entry.Timestamp, "Z") {
		t.Errorf("Expected UTC timestamp, got %q", entry.Timestamp)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	logPath := useTempLog(t)

	Log(Entry{Operation: OpDecrypt, File: "a.txt.dyad"})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	line := string(data)
	for _, field := range []string{`"output"`, `"bytes"`, `"error"`} {
		if strings.Contains(line, field) {
			t.Errorf("Expected %s to be omitted, got %s", field, line)
		}
	}
	if !strings.Contains(line, `"success":false`) {
		t.Errorf("Expected success to always be present, got %s", line)
	}
}

func TestLog_Disabled(t *testing.T) {
	original := LogPath()
	SetLogPath("")
	defer SetLogPath(original)

	// Should not panic and should not write anywhere.
	Log(Entry{Operation: OpEncrypt})

	entries, err := ReadEntries()
	if err != nil || entries != nil {
		t.Errorf("Expected no entries and no error, got %v, %v", entries, err)
	}
}

func TestRecord(t *testing.T) {
	useTempLog(t)

	Record(OpEncrypt, "a.txt", "a.txt.dyad", 42, nil)
	Record(OpDecrypt, "a.txt.dyad", "a.txt", 0, fmt.Errorf("opening: %w", kerrors.ErrAuthentication))

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	ok, failed := entries[0], entries[1]
	if !ok.Success || ok.Output != "a.txt.dyad" || ok.Bytes != 42 || ok.ErrorKind != "" {
		t.Errorf("Unexpected success entry: %+v", ok)
	}
	if failed.Success || failed.Output != "" || failed.ErrorKind != KindAuthentication {
		t.Errorf("Unexpected failure entry: %+v", failed)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{kerrors.ErrFormat, KindFormat},
		{fmt.Errorf("x: %w", kerrors.ErrIntegrity), KindIntegrity},
		{kerrors.ErrAuthentication, KindAuthentication},
		{errors.New("disk full"), KindOther},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestParseEntries_ValidData(t *testing.T) {
	data := []byte(`{"id":"1","ts":"2024-01-15T10:30:00.000000Z","op":"encrypt","file":"a.txt","success":true}
{"id":"2","ts":"2024-01-15T10:31:00.000000Z","op":"decrypt","file":"a.txt.dyad","success":false,"error":"authentication"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].ErrorKind != KindAuthentication {
		t.Errorf("Expected authentication error kind, got %q", entries[1].ErrorKind)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"id":"1","op":"encrypt"}
not json
{"id":"2","op":"decr`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries(nil)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries, got %v", entries)
	}
}
