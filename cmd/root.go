// Package cmd implements the command-line interface for webmirror.
// It provides the root command and subcommands for running the mirror
// daemon and inspecting its cache.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cachecmd "github.com/jonesrussell/webmirror/cmd/cache"
	"github.com/jonesrussell/webmirror/cmd/run"
	snapshotcmd "github.com/jonesrussell/webmirror/cmd/snapshot"
	"github.com/jonesrussell/webmirror/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the webmirror CLI.
	rootCmd = &cobra.Command{
		Use:   "webmirror",
		Short: "Mirror a web page for offline browsing",
		Long: `Mirror a remote web page and its assets into a local cache,
serve the cache over HTTP, and keep it fresh on a refresh interval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to Viper.
	_ = godotenv.Load()

	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.json or ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("webmirror version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(run.Command())
	rootCmd.AddCommand(snapshotcmd.Command())
	rootCmd.AddCommand(cachecmd.Command())
}

// initConfig reads the config file and environment variables into Viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("WEBMIRROR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// The config file is optional: everything can come from environment
	// variables and defaults.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment variables)\n", err)
	}

	if debug {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
	}

	return nil
}
