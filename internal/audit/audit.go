package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// TimestampFormat is RFC3339 with microseconds, always UTC.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Operations recorded in the log.
const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
)

// Error kinds recorded for failed operations.
const (
	KindFormat         = "format"
	KindIntegrity      = "integrity"
	KindAuthentication = "authentication"
	KindOther          = "other"
)

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`
	Operation string `json:"op"`
	File      string `json:"file"`

	Output    string `json:"output,omitempty"`
	Bytes     int64  `json:"bytes,omitempty"` // Plaintext size.
	Success   bool   `json:"success"`
	ErrorKind string `json:"error,omitempty"`
}

var (
	mu      sync.Mutex
	logPath string
)

// SetLogPath enables logging to path. An empty path disables it.
func SetLogPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	logPath = path
}

// LogPath returns the current log path, or "" when logging is disabled.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Log appends an entry to the audit log.
// Operations should not fail just because audit logging failed.
func Log(entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	mu.Lock()
	defer mu.Unlock()

	if logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// Record builds and logs an entry for the outcome of one file operation.
func Record(op, file, output string, size int64, opErr error) {
	entry := Entry{
		Operation: op,
		File:      file,
		Success:   opErr == nil,
	}
	if opErr == nil {
		entry.Output = output
		entry.Bytes = size
	} else {
		entry.ErrorKind = ErrorKind(opErr)
	}
	Log(entry)
}

// ErrorKind classifies err for the log.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrFormat):
		return KindFormat
	case errors.Is(err, kerrors.ErrIntegrity):
		return KindIntegrity
	case errors.Is(err, kerrors.ErrAuthentication):
		return KindAuthentication
	default:
		return KindOther
	}
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	path := LogPath()
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
