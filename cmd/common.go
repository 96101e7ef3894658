package cmd

import (
	"context"
	"fmt"

	"mod-manifest-resolver/config"
	"mod-manifest-resolver/db"
	"mod-manifest-resolver/discovery"
	"mod-manifest-resolver/logger"
	"mod-manifest-resolver/moddef"
	"mod-manifest-resolver/resolver"

	"go.uber.org/zap"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}
	logger.Log.Infow("Configuration loaded",
		zap.String("mods_dir", cfg.ModsDir),
		zap.String("host_version", cfg.HostVersion),
	)
	return cfg
}

func hostFor(cfg config.Config) moddef.Host {
	return moddef.Host{Version: cfg.HostVersion, ModsDir: cfg.ModsDir}
}

// runPass discovers every manifest under the mods directory and resolves them.
func runPass(cfg config.Config) (*resolver.Plan, error) {
	sources, err := discovery.Find(cfg.ModsDir, cfg.ManifestName)
	if err != nil {
		return nil, fmt.Errorf("discover manifests: %w", err)
	}
	logger.Log.Infow("Discovered manifests", zap.Int("count", len(sources)))

	r := resolver.New(hostFor(cfg), logger.Log, resolver.WithExpander(discovery.ExpandEntry))
	return r.ResolveSources(sources), nil
}

// applyPlan writes the plan's removals and records to the content registry.
func applyPlan(ctx context.Context, cfg config.Config, plan *resolver.Plan) error {
	reg, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer reg.Close()
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	if err := plan.Apply(ctx, reg); err != nil {
		return err
	}
	logger.Log.Infow("Applied plan to registry",
		zap.String("pass_id", plan.PassID),
		zap.Int("records", len(plan.Records)),
		zap.Int("removals", len(plan.Removals)),
	)
	return nil
}
