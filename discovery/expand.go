package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mod-manifest-resolver/moddef"
)

// ErrOutsideMod is returned for an entry whose path leaves its mod directory.
var ErrOutsideMod = errors.New("path is outside the mod directory")

// ExpandEntry resolves entry against mod's directory on disk. A directory
// entry becomes one entry per file beneath it, each inheriting the
// directory entry's settings. A file entry without an id gets one from its
// file name. Expanded paths stay relative to the mod directory.
//
// ExpandEntry satisfies resolver.Expander.
func ExpandEntry(mod *moddef.ModDef, entry moddef.ModEntry) ([]moddef.ModEntry, error) {
	full := filepath.Join(mod.Directory, filepath.FromSlash(entry.Path))
	if rel, err := filepath.Rel(mod.Directory, full); err != nil || escapes(rel) || filepath.IsAbs(entry.Path) {
		return nil, fmt.Errorf("%s: %w", entry.Path, ErrOutsideMod)
	}
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if entry.ID == "" {
			entry.ID = idFromFile(entry.Path)
		}
		return []moddef.ModEntry{entry}, nil
	}

	var entries []moddef.ModEntry
	err = filepath.WalkDir(full, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != full && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(mod.Directory, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		entries = append(entries, moddef.Expand(entry, rel, idFromFile(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", entry.Path, err)
	}
	return entries, nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// idFromFile returns the file name without its extension.
func idFromFile(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
