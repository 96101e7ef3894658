package cmd

import (
	"github.com/spf13/cobra"
)

// defaultCmd represents the command that runs when no subcommand is specified
var defaultCmd = &cobra.Command{
	Use:    "default",
	Short:  "Default command when no subcommand is provided",
	Long:   `Runs a plain resolve pass with text output.`,
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolveCmd.SetContext(cmd.Context())
		return resolveCmd.RunE(resolveCmd, []string{})
	},
}

func init() {
	rootCmd.AddCommand(defaultCmd)
	// Running the binary without a subcommand resolves
	rootCmd.RunE = defaultCmd.RunE
}
