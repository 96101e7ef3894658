// Package moddef models a mod's manifest (mod.json) and holds the pure
// decision logic that decides whether a mod may be loaded in a pass.
package moddef

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ModDef is the parsed representation of one mod manifest.
type ModDef struct {
	// Directory is the folder containing the manifest. It is assigned after
	// parsing and never serialized.
	Directory string `json:"-"`

	Name string `json:"Name"`

	// informational
	Description string `json:"Description,omitempty"`
	Author      string `json:"Author,omitempty"`
	Website     string `json:"Website,omitempty"`
	Contact     string `json:"Contact,omitempty"`

	// versioning
	Version      string     `json:"Version,omitempty"`
	PackagedOn   *Timestamp `json:"PackagedOn,omitempty"`
	VersionExact string     `json:"VersionExact,omitempty"`
	VersionMin   string     `json:"VersionMin,omitempty"`
	VersionMax   string     `json:"VersionMax,omitempty"`

	Enabled           bool `json:"Enabled"`
	IgnoreLoadFailure bool `json:"IgnoreLoadFailure"`

	// load order and requirements
	DependsOn           NameSet `json:"DependsOn"`
	ConflictsWith       NameSet `json:"ConflictsWith"`
	OptionallyDependsOn NameSet `json:"OptionallyDependsOn"`

	// Native module reference. Captured only; nothing here loads it.
	DLL                        string `json:"DLL,omitempty"`
	DLLEntryPoint              string `json:"DLLEntryPoint,omitempty"`
	EnableAssemblyVersionCheck bool   `json:"EnableAssemblyVersionCheck"`
	LoadImplicitManifest       bool   `json:"LoadImplicitManifest"`

	CustomResourceTypes NameSet `json:"CustomResourceTypes"`

	Manifest              []ModEntry   `json:"Manifest"`
	Extracts              []ModExtract `json:"Extracts"`
	RemoveManifestEntries []string     `json:"RemoveManifestEntries"`

	// Settings is the mod's own settings object, passed through untouched.
	Settings json.RawMessage `json:"Settings"`
}

// New returns a ModDef named name with every default applied.
func New(name string) *ModDef {
	m := &ModDef{Name: name}
	m.applyDefaults()
	return m
}

func (m *ModDef) applyDefaults() {
	m.Enabled = true
	m.LoadImplicitManifest = true
	m.normalize()
}

// normalize replaces nil collections so that a parsed ModDef and one built
// in code compare and serialize the same way.
func (m *ModDef) normalize() {
	if m.DependsOn == nil {
		m.DependsOn = NameSet{}
	}
	if m.ConflictsWith == nil {
		m.ConflictsWith = NameSet{}
	}
	if m.OptionallyDependsOn == nil {
		m.OptionallyDependsOn = NameSet{}
	}
	if m.CustomResourceTypes == nil {
		m.CustomResourceTypes = NameSet{}
	}
	if m.Manifest == nil {
		m.Manifest = []ModEntry{}
	}
	if m.Extracts == nil {
		m.Extracts = []ModExtract{}
	}
	if m.RemoveManifestEntries == nil {
		m.RemoveManifestEntries = []string{}
	}
	if len(m.Settings) == 0 || string(m.Settings) == "null" {
		m.Settings = json.RawMessage("{}")
	}
}

// UnmarshalJSON decodes a manifest. Key matching is case-insensitive and
// unknown keys are ignored. The BattleTechVersion* keys written by older
// manifests fill the version constraints when the current keys are absent.
func (m *ModDef) UnmarshalJSON(data []byte) error {
	type plain ModDef
	aux := struct {
		plain
		Name     *string           `json:"Name"`
		Manifest []json.RawMessage `json:"Manifest"`
		Extracts []json.RawMessage `json:"Extracts"`

		BattleTechVersion    string `json:"BattleTechVersion"`
		BattleTechVersionMin string `json:"BattleTechVersionMin"`
		BattleTechVersionMax string `json:"BattleTechVersionMax"`
	}{plain: plain{Enabled: true, LoadImplicitManifest: true}}

	if err := json.Unmarshal(data, &aux); err != nil {
		return &ParseError{Err: err}
	}
	if aux.Name == nil {
		return &ParseError{Field: "Name"}
	}
	if *aux.Name == "" {
		return &ParseError{Field: "Name", Err: errEmpty}
	}

	out := ModDef(aux.plain)
	out.Name = *aux.Name
	if out.VersionExact == "" {
		out.VersionExact = aux.BattleTechVersion
	}
	if out.VersionMin == "" {
		out.VersionMin = aux.BattleTechVersionMin
	}
	if out.VersionMax == "" {
		out.VersionMax = aux.BattleTechVersionMax
	}

	out.Manifest = make([]ModEntry, len(aux.Manifest))
	for i, raw := range aux.Manifest {
		if err := json.Unmarshal(raw, &out.Manifest[i]); err != nil {
			return prefixField(asManifestError(err), fmt.Sprintf("Manifest[%d]", i))
		}
	}
	out.Extracts = make([]ModExtract, len(aux.Extracts))
	for i, raw := range aux.Extracts {
		if err := json.Unmarshal(raw, &out.Extracts[i]); err != nil {
			return prefixField(asManifestError(err), fmt.Sprintf("Extracts[%d]", i))
		}
	}

	if err := out.validateVersions(); err != nil {
		return err
	}

	out.normalize()
	*m = out
	return nil
}

// Validate re-checks the invariants Parse enforces. It is useful for a
// ModDef assembled in code.
func (m *ModDef) Validate() error {
	if m.Name == "" {
		return &ParseError{Field: "Name", Err: errEmpty}
	}
	for i, e := range m.Manifest {
		if e.Path == "" {
			return &ConfigError{Field: fmt.Sprintf("Manifest[%d].Path", i), Err: errEmpty}
		}
	}
	for i, x := range m.Extracts {
		if err := x.Validate(); err != nil {
			return prefixField(err, fmt.Sprintf("Extracts[%d]", i))
		}
	}
	return m.validateVersions()
}

func (m *ModDef) validateVersions() error {
	for _, c := range []struct{ field, value string }{
		{"VersionMin", m.VersionMin},
		{"VersionMax", m.VersionMax},
	} {
		if c.value == "" {
			continue
		}
		if _, err := ParseVersion(c.value); err != nil {
			return &ConfigError{Field: c.field, Value: c.value, Err: err}
		}
	}
	return nil
}

// asManifestError keeps our typed errors and wraps anything else as a
// ParseError.
func asManifestError(err error) error {
	var pe *ParseError
	var ce *ConfigError
	if errors.As(err, &pe) || errors.As(err, &ce) {
		return err
	}
	return &ParseError{Err: err}
}
