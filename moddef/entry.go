package moddef

import (
	"encoding/json"
	"time"
)

// SchemaVersion is the fixed version tag stamped on every content record.
const SchemaVersion = "1"

// now is swapped out in tests.
var now = time.Now

// ModEntry is one content item declared in a mod's manifest.
type ModEntry struct {
	Path                  string `json:"Path"`
	Type                  string `json:"Type,omitempty"`
	ID                    string `json:"Id,omitempty"`
	AddToAddendum         string `json:"AddToAddendum,omitempty"`
	AssetBundleName       string `json:"AssetBundleName,omitempty"`
	AssetBundlePersistent *bool  `json:"AssetBundlePersistent,omitempty"`
	AssetBundleManifest   bool   `json:"AssetBundleManifest,omitempty"`
	ShouldMergeJSON       bool   `json:"ShouldMergeJSON,omitempty"`
	ShouldAppendText      bool   `json:"ShouldAppendText,omitempty"`
	AddToDB               bool   `json:"AddToDB"`

	record *ContentRecord
}

// ContentRecord is the flattened unit handed to the host content registry.
type ContentRecord struct {
	ID                    string    `json:"id" yaml:"id"`
	Path                  string    `json:"path" yaml:"path"`
	Type                  string    `json:"type" yaml:"type"`
	UpdatedOn             time.Time `json:"updated_on" yaml:"updated_on"`
	SchemaVersion         string    `json:"schema_version" yaml:"schema_version"`
	AssetBundleName       string    `json:"asset_bundle_name,omitempty" yaml:"asset_bundle_name,omitempty"`
	AssetBundlePersistent *bool     `json:"asset_bundle_persistent,omitempty" yaml:"asset_bundle_persistent,omitempty"`
}

// NewModEntry returns an entry for path with the declaration defaults applied.
func NewModEntry(path string) ModEntry {
	return ModEntry{Path: path, AddToDB: true}
}

// Expand derives a new entry from parent for a concrete path and id. The
// result inherits parent's type, asset bundle settings and merge behaviour
// but shares nothing with it.
func Expand(parent ModEntry, path, id string) ModEntry {
	e := ModEntry{
		Path:             path,
		ID:               id,
		Type:             parent.Type,
		AssetBundleName:  parent.AssetBundleName,
		ShouldMergeJSON:  parent.ShouldMergeJSON,
		ShouldAppendText: parent.ShouldAppendText,
		AddToAddendum:    parent.AddToAddendum,
		AddToDB:          parent.AddToDB,
	}
	if parent.AssetBundlePersistent != nil {
		p := *parent.AssetBundlePersistent
		e.AssetBundlePersistent = &p
	}
	return e
}

// ContentRecord materializes the entry for the host registry. The record is
// built on first call and the same value is returned afterwards.
func (e *ModEntry) ContentRecord() ContentRecord {
	if e.record == nil {
		r := ContentRecord{
			ID:              e.ID,
			Path:            e.Path,
			Type:            e.Type,
			UpdatedOn:       now(),
			SchemaVersion:   SchemaVersion,
			AssetBundleName: e.AssetBundleName,
		}
		if e.AssetBundlePersistent != nil {
			p := *e.AssetBundlePersistent
			r.AssetBundlePersistent = &p
		}
		e.record = &r
	}
	return *e.record
}

// UnmarshalJSON decodes an entry, applying AddToDB=true when absent.
// A missing Path is a ParseError; an empty one is a ConfigError.
func (e *ModEntry) UnmarshalJSON(data []byte) error {
	type plain ModEntry
	aux := struct {
		plain
		Path *string `json:"Path"`
	}{plain: plain{AddToDB: true}}

	if err := json.Unmarshal(data, &aux); err != nil {
		return &ParseError{Err: err}
	}
	if aux.Path == nil {
		return &ParseError{Field: "Path"}
	}
	if *aux.Path == "" {
		return &ConfigError{Field: "Path", Err: errEmpty}
	}

	*e = ModEntry(aux.plain)
	e.Path = *aux.Path
	e.record = nil
	return nil
}
