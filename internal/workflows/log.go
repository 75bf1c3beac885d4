package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/dyad/internal/audit"
	kerrors "github.com/PolarWolf314/dyad/internal/errors"
	"github.com/PolarWolf314/dyad/internal/ui"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// File keeps entries whose input or output contains this substring.
	File string

	// FailedOnly keeps only unsuccessful operations.
	FailedOnly bool

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int

	// LogPath is where the entries were read from.
	LogPath string
}

// Log reads and filters the audit log.
//
// Returns ErrNoFilesFound if auditing is disabled or no log exists yet.
// Returns ErrInvalidDateFormat if the date format is invalid.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	var sinceTime, untilTime time.Time
	var err error
	if opts.Since != "" {
		sinceTime, err = time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
	}
	if opts.Until != "" {
		untilTime, err = time.Parse("2006-01-02", opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Include the entire day by setting to end of day.
		untilTime = untilTime.Add(24*time.Hour - time.Nanosecond)
	}

	logPath := audit.LogPath()
	if logPath == "" {
		return nil, fmt.Errorf("%w: audit logging is disabled", kerrors.ErrNoFilesFound)
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoFilesFound, logPath)
	}

	result := &LogResult{
		TotalEntriesBeforeFilter: len(entries),
		LogPath:                  logPath,
	}

	filtered := entries

	if opts.Operations != "" {
		ops := strings.Split(opts.Operations, ",")
		for i := range ops {
			ops[i] = strings.TrimSpace(ops[i])
		}
		filtered = filterByOperations(filtered, ops)
	}

	if opts.File != "" {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			return strings.Contains(e.File, opts.File) || strings.Contains(e.Output, opts.File)
		})
	}

	if opts.FailedOnly {
		filtered = filterEntries(filtered, func(e audit.Entry) bool { return !e.Success })
	}

	if !sinceTime.IsZero() {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			t, ok := parseTimestamp(e.Timestamp)
			return ok && !t.Before(sinceTime)
		})
	}

	if !untilTime.IsZero() {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			t, ok := parseTimestamp(e.Timestamp)
			return ok && !t.After(untilTime)
		})
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			// When reversed, limit takes first N (most recent).
			filtered = filtered[:opts.Limit]
		} else {
			// When not reversed, limit takes last N (most recent).
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func filterEntries(entries []audit.Entry, keep func(audit.Entry) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}

// filterByOperations filters entries by operation types.
func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool)
	for _, op := range ops {
		opSet[strings.ToLower(op)] = true
	}
	return filterEntries(entries, func(e audit.Entry) bool {
		return opSet[strings.ToLower(e.Operation)]
	})
}

func parseTimestamp(ts string) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails summarizes the outcome of an entry for the log table.
func FormatDetails(e audit.Entry) string {
	if !e.Success {
		kind := e.ErrorKind
		if kind == "" {
			kind = audit.KindOther
		}
		return "failed: " + kind
	}
	if e.Output == "" {
		return ui.Size(e.Bytes)
	}
	return fmt.Sprintf("-> %s (%s)", e.Output, ui.Size(e.Bytes))
}
