package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/PolarWolf314/dyad/internal/configs"
	"github.com/PolarWolf314/dyad/internal/ui"
)

var (
	configInitForce  bool
	configShowFormat string
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "replace an existing configuration file")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "toml", "output format: toml, yaml or json")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	RootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dyad configuration",
	Long: `Provides commands for managing the user configuration file.

The file lives at ~/.config/dyad/config.toml unless --config is given.
Every setting can be overridden with a DYAD_* environment variable named
after its section and key, e.g. DYAD_DEFAULTS_SUFFIX or DYAD_S3_ENDPOINT.

Examples:
  # Write a default configuration
  dyad config init

  # Show the configuration as YAML
  dyad config show --format yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	Long: `Displays the configuration loaded from the config file, with defaults
filled in. The S3 secret access key is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting config init command")
	path := configPath()
	Logger.Debugf("Writing default config to %s (force=%t)", path, configInitForce)

	if _, err := configs.InitUserConfig(path, configInitForce); err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}

	fmt.Println(ui.Success.Sprint("✓") + " Configuration written to " + ui.Path.Sprint(path))
	fmt.Println(ui.Info.Sprint("→") + " Edit it to set an S3 endpoint, a default output directory or the audit log path")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting config show command")
	Logger.Debugf("Flags: format=%s", configShowFormat)

	config := userConfig
	if config == nil {
		config = configs.DefaultUserConfig()
	}
	redacted := config.Redacted()

	switch configShowFormat {
	case "toml":
		fmt.Println("# " + configPath())
		if err := toml.NewEncoder(os.Stdout).Encode(redacted); err != nil {
			return Logger.ErrorfAndReturn("Failed to encode config as TOML: %v", err)
		}
	case "yaml":
		output, err := yaml.Marshal(redacted)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to marshal config to YAML: %v", err)
		}
		fmt.Print(string(output))
	case "json":
		output, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
		}
		fmt.Println(string(output))
	default:
		err := fmt.Errorf("unknown format %q, use toml, yaml or json", configShowFormat)
		fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
		return reported(err)
	}
	return nil
}
