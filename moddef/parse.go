package moddef

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (*ModDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes manifest text read from path. The directory containing path
// is recorded on the result. Errors are *ParseError or *ConfigError.
func Parse(data []byte, path string) (*ModDef, error) {
	var m ModDef
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, withPath(asManifestError(err), path)
	}
	m.Directory = filepath.Dir(path)
	return &m, nil
}
