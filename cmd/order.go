package cmd

import (
	"errors"
	"fmt"
	"os"

	"mod-manifest-resolver/discovery"
	"mod-manifest-resolver/loadorder"
	"mod-manifest-resolver/logger"
	"mod-manifest-resolver/moddef"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// orderCmd represents the order command
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Prints the dependency load order of every mod in MODS_DIR",
	Long: `Prints every parseable mod in the order a load pass would consider them.
Mods caught in a dependency cycle, and mods that depend on them, are listed
last and marked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := bootstrap(configDir)

		sources, err := discovery.Find(cfg.ModsDir, cfg.ManifestName)
		if err != nil {
			return err
		}
		var mods []*moddef.ModDef
		for _, s := range sources {
			if s.Err != nil {
				logger.Log.Warnw("Skipping unreadable manifest", zap.String("path", s.Path), zap.Error(s.Err))
				continue
			}
			mods = append(mods, s.Mod)
		}

		ordered, err := loadorder.Compute(mods)
		var cycle *loadorder.CycleError
		if err != nil && !errors.As(err, &cycle) {
			return err
		}
		for _, line := range orderLines(ordered, cycle) {
			fmt.Fprintln(os.Stdout, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
}

// orderLines numbers mods from 1 and marks the ones on or behind a cycle.
func orderLines(ordered []*moddef.ModDef, cycle *loadorder.CycleError) []string {
	inCycle, blocked := moddef.NewNameSet(), moddef.NewNameSet()
	if cycle != nil {
		inCycle = moddef.NewNameSet(cycle.Names...)
		blocked = moddef.NewNameSet(cycle.Blocked...)
	}
	lines := make([]string, len(ordered))
	for i, m := range ordered {
		lines[i] = fmt.Sprintf("%3d. %s", i+1, m.Name)
		switch {
		case inCycle.Has(m.Name):
			lines[i] += " (dependency cycle)"
		case blocked.Has(m.Name):
			lines[i] += " (blocked by a dependency cycle)"
		}
	}
	return lines
}
