package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/dyad/internal/audit"
	kerrors "github.com/PolarWolf314/dyad/internal/errors"
	"github.com/PolarWolf314/dyad/internal/ui"
	"github.com/PolarWolf314/dyad/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logFile      string
	logFailed    bool
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "op", "", "filter by operation (encrypt, decrypt; comma-separated)")
	logCmd.Flags().StringVar(&logFile, "file", "", "filter by input or output path substring")
	logCmd.Flags().BoolVar(&logFailed, "failed", false, "show only failed operations")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")

	RootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the local audit log",
	Long: `Displays the local audit log of encrypt and decrypt operations.

Entries record which file was processed, where the result went and
whether it worked. Secrets are never logged.

Examples:
  dyad log                          # View full log
  dyad log -n 10                    # Last 10 entries
  dyad log --reverse                # Most recent first
  dyad log --op decrypt --failed    # Failed decryptions
  dyad log --file report.pdf        # Entries touching a file
  dyad log --since 2024-01-01       # Filter by date
  dyad log --json                   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	opts := workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Operations: logOperation,
		File:       logFile,
		FailedOnly: logFailed,
		Since:      logSince,
		Until:      logUntil,
	}

	result, err := workflows.Log(cmd.Context(), opts)
	if err != nil {
		fmt.Println(formatLogError(err))
		if isLogUnexpectedError(err) {
			return reported(err)
		}
		return nil
	}

	Logger.Debugf("Parsed %d entries from %s", result.TotalEntriesBeforeFilter, result.LogPath)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if logJSON {
			fmt.Println("[]")
			return nil
		}
		fmt.Println("No audit log entries found matching the filters.")
		return nil
	}

	if logJSON {
		return outputLogJSON(result.Entries)
	}
	outputLogDefault(result.Entries)
	return nil
}

// formatLogError formats a log error for display to the user.
func formatLogError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrNoFilesFound):
		return ui.Info.Sprint("ℹ") + " No audit log found. Operations are logged after running encrypt or decrypt."

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to read audit log: " + err.Error()
	}
}

// isLogUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isLogUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrNoFilesFound),
		errors.Is(err, kerrors.ErrInvalidDateFormat):
		return false
	default:
		return true
	}
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		details := workflows.FormatDetails(e)
		if !e.Success {
			details = ui.Error.Sprint(details)
		}
		fmt.Printf("%-19s  %-8s  %-40s  %s\n", datetime, e.Operation, e.File, details)
	}
}
