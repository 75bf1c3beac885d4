package cmd

import (
	"fmt"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/PolarWolf314/dyad/internal/audit"
	"github.com/PolarWolf314/dyad/internal/configs"
	logger "github.com/PolarWolf314/dyad/internal/logging"
	"github.com/PolarWolf314/dyad/internal/storage"
	"github.com/PolarWolf314/dyad/internal/ui"
)

var (
	verbose bool
	debug   bool
	cfgFile string
	Logger  logger.Logger

	userConfig *configs.UserConfig
	stores     *storage.Router

	RootCmd = &cobra.Command{
		Use:   "dyad",
		Short: "Encrypt files so they open only with a password and an email address",
		Long: `dyad seals files into envelopes that can only be opened by someone who
knows both the password and the recipient's email address.

Neither secret alone is enough: both are stretched independently and combined
into the key that protects each file's data key.

Examples:
  # Encrypt a file for alice@example.com
  dyad encrypt report.pdf --email alice@example.com

  # Decrypt it again
  dyad decrypt report.pdf.dyad --email alice@example.com

  # Look at an envelope header without any secrets
  dyad inspect report.pdf.dyad

Secrets can also come from the DYAD_PASSWORD and DYAD_EMAIL environment
variables. Settings are read from ~/.config/dyad/config.toml and can be
overridden with DYAD_* variables such as DYAD_S3_ENDPOINT.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initialize,
		Run: func(cmd *cobra.Command, args []string) {
			figure.NewColorFigure("dyad", "", "cyan", true).Print()
			fmt.Println()
			fmt.Println("Run " + ui.Code.Sprint("dyad --help") + " to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/dyad/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func initialize(cmd *cobra.Command, args []string) error {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}
	Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)

	// config init must work even when the existing file is broken.
	if cmd == configInitCmd {
		return nil
	}

	path := configPath()
	Logger.Debugf("Loading user config from %s", path)
	cfg, err := configs.LoadUserConfig(path)
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}
	userConfig = cfg

	initViper(cfg)

	if viper.GetBool("audit.enabled") {
		effective := *cfg
		effective.Audit.Path = viper.GetString("audit.path")
		audit.SetLogPath(effective.AuditLogPath())
		Logger.Debugf("Audit log at %s", audit.LogPath())
	} else {
		audit.SetLogPath("")
		Logger.Debugf("Audit log disabled")
	}

	stores = storage.NewRouter(storage.S3Config{
		Endpoint:        viper.GetString("s3.endpoint"),
		Region:          viper.GetString("s3.region"),
		AccessKeyID:     viper.GetString("s3.access_key_id"),
		SecretAccessKey: viper.GetString("s3.secret_access_key"),
		UseSSL:          viper.GetBool("s3.use_ssl"),
	})
	return nil
}

// initViper layers DYAD_* environment variables over the loaded config file.
// Keys follow the file layout, so DYAD_S3_ENDPOINT overrides [s3] endpoint.
func initViper(cfg *configs.UserConfig) {
	viper.Reset()

	viper.SetDefault("defaults.suffix", cfg.Defaults.Suffix)
	viper.SetDefault("defaults.output_dir", cfg.Defaults.OutputDir)
	viper.SetDefault("defaults.min_password_length", cfg.Defaults.MinPasswordLength)
	viper.SetDefault("defaults.overwrite", cfg.Defaults.Overwrite)

	viper.SetDefault("audit.enabled", cfg.Audit.Enabled)
	viper.SetDefault("audit.path", cfg.Audit.Path)

	viper.SetDefault("s3.endpoint", cfg.S3.Endpoint)
	viper.SetDefault("s3.region", cfg.S3.Region)
	viper.SetDefault("s3.access_key_id", cfg.S3.AccessKeyID)
	viper.SetDefault("s3.secret_access_key", cfg.S3.SecretAccessKey)
	viper.SetDefault("s3.use_ssl", cfg.S3.UseSSL)

	viper.SetDefault("password", "")
	viper.SetDefault("email", "")

	viper.SetEnvPrefix("DYAD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return configs.DefaultConfigPath()
}

// stringSetting returns the flag value when it was set on the command line,
// otherwise the layered setting for key.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetString(flag)
		return value
	}
	return viper.GetString(key)
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetBool(flag)
		return value
	}
	return viper.GetBool(key)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables and flags to their defaults for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	cfgFile = ""
	userConfig = nil
	stores = nil
	audit.SetLogPath("")
	viper.Reset()
	resetFlags(RootCmd)
}

func resetFlags(c *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		if sv, ok := flag.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = flag.Value.Set(flag.DefValue)
		}
		flag.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
