package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PolarWolf314/dyad/internal/ui"
	"github.com/PolarWolf314/dyad/internal/workflows"
)

var (
	encryptEmail         string
	encryptOutputDir     string
	encryptSuffix        string
	encryptForce         bool
	encryptDryRun        bool
	encryptPasswordStdin bool
)

func init() {
	encryptCmd.Flags().StringVarP(&encryptEmail, "email", "e", "", "recipient email address (or DYAD_EMAIL)")
	encryptCmd.Flags().StringVar(&encryptOutputDir, "output-dir", "", "write envelopes to this directory or s3:// prefix")
	encryptCmd.Flags().StringVar(&encryptSuffix, "suffix", "", "envelope file suffix (default \".dyad\")")
	encryptCmd.Flags().BoolVarP(&encryptForce, "force", "f", false, "overwrite existing envelopes")
	encryptCmd.Flags().BoolVar(&encryptDryRun, "dry-run", false, "preview which files would be encrypted")
	encryptCmd.Flags().BoolVar(&encryptPasswordStdin, "password-stdin", false, "read the password from stdin")

	RootCmd.AddCommand(encryptCmd)
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <file|dir|glob|s3://bucket/key>...",
	Short: "Seal files into envelopes that need a password and an email to open",
	Long: `Encrypts each matching file into an envelope written next to it with the
".dyad" suffix. Opening the envelope requires both the password and the
recipient email address used here.

Directories are walked recursively and globs support "**". Files that
already carry the envelope suffix are skipped.

Examples:
  # Encrypt one file, prompting for the password and email
  dyad encrypt report.pdf

  # Encrypt every PDF below docs/ for bob
  dyad encrypt 'docs/**/*.pdf' --email bob@example.com

  # Non-interactive use
  echo "$PASSWORD" | dyad encrypt data.csv --email bob@example.com --password-stdin

  # Write the envelope to object storage
  dyad encrypt data.csv --output-dir s3://shared/outgoing

  # See what would be encrypted
  dyad encrypt ./exports --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting encrypt command")

	suffix := stringSetting(cmd, "suffix", "defaults.suffix")
	outputDir := stringSetting(cmd, "output-dir", "defaults.output_dir")
	force := boolSetting(cmd, "force", "defaults.overwrite")
	Logger.Debugf("Flags: suffix=%s, output-dir=%s, force=%t, dry-run=%t", suffix, outputDir, force, encryptDryRun)

	var secrets *workflows.Secrets
	if !encryptDryRun {
		var err error
		secrets, err = readSecrets(secretPrompt{
			email:         encryptEmail,
			passwordStdin: encryptPasswordStdin,
			confirm:       true,
			minLength:     viper.GetInt("defaults.min_password_length"),
			checkEmail:    true,
		})
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}
	}

	spinner, cleanup := startSpinner("Encrypting files...")
	defer cleanup()

	opts := workflows.EncryptOptions{
		FilePatterns: args,
		Suffix:       suffix,
		OutputDir:    outputDir,
		Force:        force,
		DryRun:       encryptDryRun,
		Secrets:      secrets,
		Stores:       stores,
		Progress: func(index, total int, location string) {
			Logger.Infof("Encrypting %s (%d/%d)", location, index+1, total)
			updateSpinner(spinner, fmt.Sprintf("Encrypting %s (%d/%d)...", location, index+1, total))
		},
	}

	result, err := workflows.Encrypt(cmd.Context(), opts)
	if err != nil {
		Logger.Errorf("Encrypt failed: %v", err)
		msg := formatError(err)
		if result != nil && len(result.EncryptedFiles) > 0 {
			msg = "Encrypted before the failure: " + formatFilePairs(result.SourceFiles, result.EncryptedFiles) + msg
		}
		spinner.FinalMSG = msg
		return reported(err)
	}

	if result.DryRun {
		spinner.FinalMSG = formatEncryptDryRun(result)
		return nil
	}

	Logger.Infof("Encrypt command completed successfully. Created %d envelopes", len(result.EncryptedFiles))
	spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Encrypted %d %s ", len(result.EncryptedFiles), plural(len(result.EncryptedFiles), "file", "files")) +
		ui.Muted.Sprint(ui.Size(result.Bytes)) + "\n" +
		"The following envelopes were created: " + formatFilePairs(result.SourceFiles, result.EncryptedFiles) +
		ui.Info.Sprint("→") + " Share the password and the email through different channels"
	return nil
}

func formatEncryptDryRun(result *workflows.EncryptResult) string {
	var b strings.Builder
	b.WriteString(ui.Warning.Sprint("[dry-run]") + fmt.Sprintf(" Would encrypt %d %s\n\n", len(result.SourceFiles), plural(len(result.SourceFiles), "file", "files")))
	for i, src := range result.SourceFiles {
		b.WriteString("  " + ui.Path.Sprint(src) + " → " + ui.Path.Sprint(result.EncryptedFiles[i]) + "\n")
	}
	b.WriteString("\nNo changes made. Run without " + ui.Flag.Sprint("--dry-run") + " to encrypt.")
	return b.String()
}

// formatFilePairs lists each source next to the file written for it.
func formatFilePairs(from, to []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for i := range to {
		b.WriteString("    - " + ui.Path.Sprint(from[i]) + " → " + ui.Path.Sprint(to[i]) + "\n")
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
