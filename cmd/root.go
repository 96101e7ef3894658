package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configDir string

// rootCmd is the base command; subcommands register themselves in init.
var rootCmd = &cobra.Command{
	Use:   "mod-resolver",
	Short: "Resolves which mods load for a host and in what order",
	Long: `Reads the mod.json manifest of every mod under MODS_DIR, orders them by
their dependencies and decides which ones load for HOST_VERSION.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing the .env file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
