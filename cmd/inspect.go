package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/PolarWolf314/dyad/internal/ui"
	"github.com/PolarWolf314/dyad/internal/workflows"
)

var inspectFormat string

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "table", "output format: table, json or yaml")

	RootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <envelope|s3://bucket/key>",
	Short: "Show an envelope header without decrypting it",
	Long: `Reads the header of an envelope and prints what it reveals: the original
file name, the header and payload lengths and the sizes of the salts, the
wrap IV and the wrapped data key. No secrets are needed and the payload is
never read.

Examples:
  dyad inspect report.pdf.dyad
  dyad inspect s3://shared/outgoing/data.csv.dyad --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting inspect command")
	Logger.Debugf("Flags: format=%s", inspectFormat)

	switch inspectFormat {
	case "table", "json", "yaml":
	default:
		err := fmt.Errorf("unknown format %q, use table, json or yaml", inspectFormat)
		fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
		return reported(err)
	}

	result, err := workflows.Inspect(cmd.Context(), workflows.InspectOptions{
		Location: args[0],
		Stores:   stores,
	})
	if err != nil {
		Logger.Errorf("Inspect failed: %v", err)
		fmt.Println(formatError(err))
		return reported(err)
	}

	switch inspectFormat {
	case "json":
		return outputInspectJSON(result)
	case "yaml":
		return outputInspectYAML(result)
	default:
		outputInspectTable(result)
		return nil
	}
}

func outputInspectJSON(result *workflows.InspectResult) error {
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to marshal header to JSON: %v", err)
	}
	fmt.Println(string(output))
	return nil
}

func outputInspectYAML(result *workflows.InspectResult) error {
	output, err := yaml.Marshal(result)
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to marshal header to YAML: %v", err)
	}
	fmt.Print(string(output))
	return nil
}

func outputInspectTable(result *workflows.InspectResult) {
	fmt.Println(ui.Info.Sprint("Envelope") + " " + ui.Path.Sprint(result.Location))
	fmt.Println()
	fmt.Printf("  %-16s %s\n", "File name:", ui.Highlight.Sprint(result.FileName))
	fmt.Printf("  %-16s %d bytes\n", "Envelope size:", result.EnvelopeSize)
	fmt.Printf("  %-16s %d bytes\n", "Header:", result.HeaderLength)
	fmt.Printf("  %-16s %d bytes\n", "Payload:", result.PayloadLength)
	fmt.Printf("  %-16s %d bytes\n", "Plaintext:", result.PlaintextLength)
	fmt.Printf("  %-16s %d bytes\n", "Password salt:", result.PasswordSaltSize)
	fmt.Printf("  %-16s %d bytes\n", "Email salt:", result.EmailSaltSize)
	fmt.Printf("  %-16s %d bytes\n", "Wrap IV:", result.WrapIVSize)
	fmt.Printf("  %-16s %d bytes\n", "Wrapped key:", result.WrappedKeySize)

	for _, w := range result.Warnings {
		fmt.Println(ui.Warning.Sprint("⚠") + " " + w)
	}
}
