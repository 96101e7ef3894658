package cmd

import (
	"fmt"
	"os"

	"mod-manifest-resolver/logger"
	"mod-manifest-resolver/moddef"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <manifest>",
	Short: "Validates one mod manifest and prints its parsed form",
	Long: `Parses a single mod.json, applies the defaults a load pass would apply and
prints the result. Exits non-zero when the manifest is malformed or holds an
invalid value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, err := parseOutputFormat(output)
		if err != nil {
			return err
		}
		if format == formatText {
			format = formatJSON
		}

		mod, err := checkManifest(args[0])
		if err != nil {
			return err
		}
		return writeManifest(os.Stdout, mod, format)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("output", "o", formatJSON, "Output format: json or yaml")
}

func checkManifest(path string) (*moddef.ModDef, error) {
	mod, err := moddef.ParseFile(path)
	if err != nil {
		logger.Log.Warnw("Manifest failed validation", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	if err := mod.Validate(); err != nil {
		logger.Log.Warnw("Manifest failed validation", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	logger.Log.Infow("Manifest is valid", zap.String("path", path), zap.String("mod", mod.Name))
	return mod, nil
}
