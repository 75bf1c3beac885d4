package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/awnumar/memguard"
	"github.com/briandowns/spinner"
	"github.com/spf13/viper"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
	"github.com/PolarWolf314/dyad/internal/ui"
	"github.com/PolarWolf314/dyad/internal/utils"
	"github.com/PolarWolf314/dyad/internal/workflows"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// updateSpinner replaces the message of a running spinner.
func updateSpinner(s *spinner.Spinner, message string) {
	s.Lock()
	s.Suffix = " " + message
	s.Unlock()
}

// secretPrompt describes how a command collects the two secrets.
type secretPrompt struct {
	// email given with --email, if any.
	email string

	// passwordStdin reads the password from piped stdin.
	passwordStdin bool

	// confirm asks for an interactively typed password twice.
	confirm bool

	// minLength rejects shorter passwords. Zero disables the check.
	minLength int

	// checkEmail rejects addresses that do not look like one.
	checkEmail bool
}

// readSecrets collects the password and the email. Sources are tried in
// order: flags and stdin, then DYAD_PASSWORD and DYAD_EMAIL, then a hidden
// prompt on the terminal. Secrets are used exactly as given.
func readSecrets(p secretPrompt) (*workflows.Secrets, error) {
	password, err := readPassword(p)
	if err != nil {
		return nil, err
	}
	if p.minLength > 0 && len(password) < p.minLength {
		memguard.WipeBytes(password)
		return nil, fmt.Errorf("%w: need at least %d characters", kerrors.ErrPasswordTooShort, p.minLength)
	}

	email, err := readEmail(p)
	if err != nil {
		memguard.WipeBytes(password)
		return nil, err
	}
	if p.checkEmail && !utils.IsValidEmail(string(email)) {
		memguard.WipeBytes(password)
		memguard.WipeBytes(email)
		return nil, kerrors.ErrInvalidEmail
	}

	return &workflows.Secrets{Password: password, Email: email}, nil
}

func readPassword(p secretPrompt) ([]byte, error) {
	if p.passwordStdin {
		Logger.Debugf("Reading password from stdin")
		return utils.ReadSecretStdin()
	}
	if env := viper.GetString("password"); env != "" {
		Logger.Debugf("Using password from DYAD_PASSWORD")
		return []byte(env), nil
	}

	password, err := utils.ReadSecret("Password: ")
	if err != nil {
		return nil, err
	}
	if !p.confirm {
		return password, nil
	}

	again, err := utils.ReadSecret("Confirm password: ")
	if err != nil {
		memguard.WipeBytes(password)
		return nil, err
	}
	defer memguard.WipeBytes(again)
	if !bytes.Equal(password, again) {
		memguard.WipeBytes(password)
		return nil, kerrors.ErrPasswordMismatch
	}
	return password, nil
}

func readEmail(p secretPrompt) ([]byte, error) {
	if p.email != "" {
		return []byte(p.email), nil
	}
	if env := viper.GetString("email"); env != "" {
		Logger.Debugf("Using email from DYAD_EMAIL")
		return []byte(env), nil
	}
	return utils.ReadSecret("Recipient email: ")
}

// reportedError marks an error whose message has already been shown.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// IsReported reports whether the user has already seen err.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// formatError formats an error for display to the user.
func formatError(err error) string {
	cross := ui.Error.Sprint("✗") + " "
	arrow := ui.Info.Sprint("→") + " "

	switch {
	case errors.Is(err, kerrors.ErrAuthentication):
		return cross + "Wrong password or email\n" +
			arrow + "Both must match exactly what was used to encrypt the file"

	case errors.Is(err, kerrors.ErrIntegrity):
		return cross + "The envelope is corrupted or has been tampered with\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrFormat):
		return cross + "Not a dyad envelope\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrEmptySecret):
		return cross + "Both a password and an email are required"

	case errors.Is(err, kerrors.ErrPasswordTooShort):
		return cross + "Password is too short\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrPasswordMismatch):
		return cross + "Passwords do not match"

	case errors.Is(err, kerrors.ErrInvalidEmail):
		return cross + "That does not look like an email address"

	case errors.Is(err, kerrors.ErrNoTerminal):
		return cross + "No terminal available to ask for secrets\n" +
			arrow + "Use " + ui.Flag.Sprint("--password-stdin") + " and " + ui.Flag.Sprint("--email") +
			", or set " + ui.Code.Sprint("DYAD_PASSWORD") + " and " + ui.Code.Sprint("DYAD_EMAIL")

	case errors.Is(err, kerrors.ErrNoFilesFound):
		return cross + "No matching files found\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrFileNotFound):
		return cross + "File not found\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrFileExists):
		return cross + "Output already exists\n" +
			ui.Error.Sprint("Error: ") + err.Error() + "\n" +
			arrow + "Use " + ui.Flag.Sprint("--force") + " to overwrite it"

	case errors.Is(err, kerrors.ErrMultipleOutputs):
		return cross + ui.Flag.Sprint("--output") + " can only be used with a single envelope\n" +
			arrow + "Use " + ui.Flag.Sprint("--output-dir") + " instead"

	case errors.Is(err, kerrors.ErrInvalidConfig):
		return cross + "Configuration is invalid\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrConfigExists):
		return cross + "A configuration file already exists\n" +
			arrow + "Use " + ui.Flag.Sprint("--force") + " to replace it"

	case errors.Is(err, kerrors.ErrStorageUnavailable):
		return cross + "Storage backend unavailable\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return cross + err.Error()

	default:
		return cross + "Operation failed\n" +
			ui.Error.Sprint("Error: ") + err.Error()
	}
}
