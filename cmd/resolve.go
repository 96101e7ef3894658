package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mod-manifest-resolver/config"
	"mod-manifest-resolver/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Runs a load pass over every mod in MODS_DIR",
	Long: `Discovers every manifest under MODS_DIR, computes a load order and decides
which mods load for HOST_VERSION. With --apply the resulting content records
are written to the registry database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apply, _ := cmd.Flags().GetBool("apply")
		watch, _ := cmd.Flags().GetBool("watch")
		output, _ := cmd.Flags().GetString("output")

		format, err := parseOutputFormat(output)
		if err != nil {
			return err
		}

		cfg := bootstrap(configDir)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch {
			return watchMods(ctx, cfg, func() error { return resolveOnce(ctx, cfg, format, apply) })
		}
		return resolveOnce(ctx, cfg, format, apply)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().Bool("apply", false, "Write the resolved content records to the registry database")
	resolveCmd.Flags().BoolP("watch", "w", false, "Re-run the pass whenever a manifest changes")
	resolveCmd.Flags().StringP("output", "o", formatText, "Output format: text, json or yaml")
}

func resolveOnce(ctx context.Context, cfg config.Config, format string, apply bool) error {
	plan, err := runPass(cfg)
	if err != nil {
		logger.Log.Errorw("Load pass failed", zap.Error(err))
		return err
	}

	if err := writePlan(os.Stdout, plan, format); err != nil {
		return err
	}

	if apply {
		if err := applyPlan(ctx, cfg, plan); err != nil {
			logger.Log.Errorw("Failed to apply plan", zap.String("pass_id", plan.PassID), zap.Error(err))
			return err
		}
	}
	return nil
}
