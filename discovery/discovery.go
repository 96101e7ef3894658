// Package discovery finds mod manifests on disk and expands directory
// entries into the files they contain.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mod-manifest-resolver/moddef"
	"mod-manifest-resolver/resolver"
)

// DefaultManifestName is the manifest file looked for in each mod directory.
const DefaultManifestName = "mod.json"

// Find looks for manifestName in every direct subdirectory of modsDir and
// parses it. Directories starting with "." or "_" are skipped, as are
// directories without a manifest. A manifest that fails to parse is still
// returned, with Err set, so the pass can report it.
//
// Sources are returned sorted by path.
func Find(modsDir, manifestName string) ([]resolver.Source, error) {
	if manifestName == "" {
		manifestName = DefaultManifestName
	}
	if _, err := os.Stat(modsDir); err != nil {
		return nil, fmt.Errorf("mods directory: %w", err)
	}

	var sources []resolver.Source
	err := filepath.WalkDir(modsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == modsDir {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipped(d.Name()) {
			return filepath.SkipDir
		}

		manifest := filepath.Join(path, manifestName)
		if _, statErr := os.Stat(manifest); statErr == nil {
			mod, parseErr := moddef.ParseFile(manifest)
			sources = append(sources, resolver.Source{Path: manifest, Mod: mod, Err: parseErr})
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			sources = append(sources, resolver.Source{Path: manifest, Err: statErr})
		}
		// mods are never nested
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", modsDir, err)
	}
	return sources, nil
}

func skipped(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
