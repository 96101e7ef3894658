package moddef

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Host describes the application mods are loaded into.
type Host struct {
	// Version is the host's reported product version, e.g. "1.9.1.626".
	Version string
	// ModsDir is used to shorten directories in diagnostics. Optional.
	ModsDir string
}

// DependenciesResolved reports whether every name in DependsOn is in loaded.
func (m *ModDef) DependenciesResolved(loaded []string) bool {
	if len(m.DependsOn) == 0 {
		return true
	}
	have := NewNameSet(loaded...)
	for dep := range m.DependsOn {
		if !have.Has(dep) {
			return false
		}
	}
	return true
}

// MissingDependencies returns the DependsOn names absent from loaded, sorted.
func (m *ModDef) MissingDependencies(loaded []string) []string {
	have := NewNameSet(loaded...)
	var missing []string
	for _, dep := range m.DependsOn.Sorted() {
		if !have.Has(dep) {
			missing = append(missing, dep)
		}
	}
	return missing
}

// HasConflicts reports whether any of others is listed in ConflictsWith.
func (m *ModDef) HasConflicts(others []string) bool {
	return len(m.Conflicts(others)) > 0
}

// Conflicts returns the names in others that this mod conflicts with, in
// the order they appear in others.
func (m *ModDef) Conflicts(others []string) []string {
	var hits []string
	for _, o := range others {
		if m.ConflictsWith.Has(o) && !slices.Contains(hits, o) {
			hits = append(hits, o)
		}
	}
	return hits
}

// ShouldTryLoad decides whether the mod is eligible to load given the names
// already accepted in this pass and the host it targets. When it returns
// false the reason explains why. A disabled mod also has IgnoreLoadFailure
// forced on.
//
// Dependencies and conflicts are not checked here: they depend on load
// order and are evaluated separately by the caller.
//
// The error is a *ConfigError when the host version or a min/max constraint
// is not a dotted numeric version.
func (m *ModDef) ShouldTryLoad(accepted []string, host Host) (bool, string, error) {
	if !m.Enabled {
		m.IgnoreLoadFailure = true
		return false, "it is disabled", nil
	}

	if slices.Contains(accepted, m.Name) {
		return false, fmt.Sprintf("a mod named %q is already loaded. Skipping load from %s.",
			m.Name, m.displayDir(host.ModsDir)), nil
	}

	// exact is a prefix match, so "1.2" accepts host "1.2.3"
	if m.VersionExact != "" && !strings.HasPrefix(host.Version, m.VersionExact) {
		return false, fmt.Sprintf("it specifies a host version and this isn't it (%s vs. host %s)",
			m.VersionExact, host.Version), nil
	}

	if m.VersionMin == "" && m.VersionMax == "" {
		return true, "", nil
	}

	hostVersion, err := ParseVersion(host.Version)
	if err != nil {
		return false, "", &ConfigError{Field: "host version", Value: host.Version, Err: err}
	}

	if m.VersionMin != "" {
		minVersion, err := ParseVersion(m.VersionMin)
		if err != nil {
			return false, "", &ConfigError{Path: m.Directory, Field: "VersionMin", Value: m.VersionMin, Err: err}
		}
		if hostVersion.Compare(minVersion) < 0 {
			return false, fmt.Sprintf("it doesn't match the min version set in the manifest (%s vs. host %s)",
				m.VersionMin, host.Version), nil
		}
	}

	if m.VersionMax != "" {
		maxVersion, err := ParseVersion(m.VersionMax)
		if err != nil {
			return false, "", &ConfigError{Path: m.Directory, Field: "VersionMax", Value: m.VersionMax, Err: err}
		}
		if hostVersion.Compare(maxVersion) > 0 {
			return false, fmt.Sprintf("it doesn't match the max version set in the manifest (%s vs. host %s)",
				m.VersionMax, host.Version), nil
		}
	}

	return true, "", nil
}

func (m *ModDef) displayDir(modsDir string) string {
	if modsDir == "" || m.Directory == "" {
		return m.Directory
	}
	rel, err := filepath.Rel(modsDir, m.Directory)
	if err != nil {
		return m.Directory
	}
	return rel
}
