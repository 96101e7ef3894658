package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mod-manifest-resolver/config"
	"mod-manifest-resolver/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce collapses the burst of events an editor's save produces.
const watchDebounce = 250 * time.Millisecond

// watchMods runs pass once, then again whenever a manifest under the mods
// directory is written, created or removed, until ctx is done.
func watchMods(ctx context.Context, cfg config.Config, pass func() error) error {
	if err := pass(); err != nil {
		logger.Log.Warnw("Load pass failed, still watching", zap.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.ModsDir); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	entries, err := os.ReadDir(cfg.ModsDir)
	if err != nil {
		return fmt.Errorf("read mods directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && !skippedDir(e.Name()) {
			addWatch(watcher, filepath.Join(cfg.ModsDir, e.Name()))
		}
	}
	logger.Log.Infow("Watching mods directory for changes", zap.String("path", cfg.ModsDir))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isModDirCreate(cfg.ModsDir, event) {
				addWatch(watcher, event.Name)
			}
			if relevantEvent(cfg.ModsDir, cfg.ManifestName, event) {
				logger.Log.Infow("Manifest changed",
					zap.String("event", event.Op.String()),
					zap.String("file", event.Name),
				)
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Errorw("File watcher error", zap.Error(err))

		case <-timer.C:
			if err := pass(); err != nil {
				logger.Log.Warnw("Load pass failed, still watching", zap.Error(err))
			}

		case <-ctx.Done():
			logger.Log.Info("Stopped watching mods directory")
			return nil
		}
	}
}

func addWatch(watcher *fsnotify.Watcher, dir string) {
	if err := watcher.Add(dir); err != nil {
		logger.Log.Warnw("Failed to watch mod directory", zap.String("dir", dir), zap.Error(err))
	}
}

func skippedDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// isModDirCreate reports whether event created a new mod directory.
func isModDirCreate(modsDir string, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) || filepath.Dir(event.Name) != filepath.Clean(modsDir) {
		return false
	}
	if skippedDir(filepath.Base(event.Name)) {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

// relevantEvent reports whether event can change the outcome of a pass: a
// manifest inside a mod directory changed, or a mod directory came or went.
func relevantEvent(modsDir, manifestName string, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	modsDir = filepath.Clean(modsDir)
	parent := filepath.Dir(event.Name)

	if parent == modsDir {
		// a mod directory itself
		return !skippedDir(filepath.Base(event.Name)) && event.Has(fsnotify.Create|fsnotify.Remove|fsnotify.Rename)
	}
	return filepath.Base(event.Name) == manifestName &&
		filepath.Dir(parent) == modsDir &&
		!skippedDir(filepath.Base(parent))
}
