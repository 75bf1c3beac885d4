package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/dyad/internal/ui"
	"github.com/PolarWolf314/dyad/internal/utils"
	"github.com/PolarWolf314/dyad/internal/workflows"
)

var (
	decryptEmail         string
	decryptOutput        string
	decryptOutputDir     string
	decryptSuffix        string
	decryptForce         bool
	decryptPasswordStdin bool
)

func init() {
	decryptCmd.Flags().StringVarP(&decryptEmail, "email", "e", "", "recipient email address (or DYAD_EMAIL)")
	decryptCmd.Flags().StringVarP(&decryptOutput, "output", "o", "", "write the plaintext to this path (single envelope only)")
	decryptCmd.Flags().StringVar(&decryptOutputDir, "output-dir", "", "write plaintext files to this directory or s3:// prefix")
	decryptCmd.Flags().StringVar(&decryptSuffix, "suffix", "", "envelope file suffix (default \".dyad\")")
	decryptCmd.Flags().BoolVarP(&decryptForce, "force", "f", false, "overwrite existing files")
	decryptCmd.Flags().BoolVar(&decryptPasswordStdin, "password-stdin", false, "read the password from stdin")

	RootCmd.AddCommand(decryptCmd)
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <envelope|dir|glob|s3://bucket/key>...",
	Short: "Open envelopes with the password and the recipient email",
	Long: `Decrypts each matching envelope. The plaintext is written under the file
name recorded when the envelope was created, next to the envelope unless
--output or --output-dir says otherwise. Existing files are never replaced
without --force.

A wrong password and a wrong email fail the same way: dyad cannot tell
which of the two is wrong.

Examples:
  # Decrypt one envelope, prompting for the secrets
  dyad decrypt report.pdf.dyad

  # Decrypt to a specific path
  dyad decrypt report.pdf.dyad -o ~/Downloads/report.pdf

  # Decrypt everything in a directory
  dyad decrypt ./inbox --email bob@example.com --output-dir ./opened

  # Fetch and decrypt from object storage
  dyad decrypt s3://shared/outgoing/data.csv.dyad --output-dir .`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecrypt,
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting decrypt command")

	suffix := stringSetting(cmd, "suffix", "defaults.suffix")
	outputDir := stringSetting(cmd, "output-dir", "defaults.output_dir")
	force := boolSetting(cmd, "force", "defaults.overwrite")
	Logger.Debugf("Flags: suffix=%s, output=%s, output-dir=%s, force=%t", suffix, decryptOutput, outputDir, force)

	secrets, err := readSecrets(secretPrompt{
		email:         decryptEmail,
		passwordStdin: decryptPasswordStdin,
	})
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}

	spinner, cleanup := startSpinner("Decrypting files...")
	defer cleanup()

	opts := workflows.DecryptOptions{
		FilePatterns: args,
		Suffix:       suffix,
		Output:       decryptOutput,
		OutputDir:    outputDir,
		Force:        force,
		Secrets:      secrets,
		Stores:       stores,
		Progress: func(index, total int, location string) {
			Logger.Infof("Decrypting %s (%d/%d)", location, index+1, total)
			updateSpinner(spinner, fmt.Sprintf("Decrypting %s (%d/%d)...", location, index+1, total))
		},
	}

	result, err := workflows.Decrypt(cmd.Context(), opts)
	if err != nil {
		Logger.Errorf("Decrypt failed: %v", err)
		msg := formatError(err)
		if result != nil && len(result.DecryptedFiles) > 0 {
			msg = "Decrypted before the failure: " + formatFilePairs(result.EnvelopeFiles, result.DecryptedFiles) + msg
		}
		spinner.FinalMSG = msg
		return reported(err)
	}

	Logger.Infof("Decrypt command completed successfully. Wrote %d files", len(result.DecryptedFiles))
	spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Decrypted %d %s ", len(result.DecryptedFiles), plural(len(result.DecryptedFiles), "envelope", "envelopes")) +
		ui.Muted.Sprint(ui.Size(result.Bytes)) + "\n" +
		"The following files were created: " + utils.FormatPaths(result.DecryptedFiles) +
		ui.Warning.Sprint("⚠") + " These files are plaintext. Keep them out of version control"
	return nil
}
