package db

import (
	"time"

	"mod-manifest-resolver/moddef"

	"gorm.io/gorm"
)

// Record is a content record stored in the host registry. RecordID is the
// ContentRecord id and Path is relative to the owning mod's directory.
type Record struct {
	gorm.Model
	RecordID              string `gorm:"uniqueIndex"`
	Path                  string
	Type                  string
	UpdatedOn             time.Time
	SchemaVersion         string
	AssetBundleName       string
	AssetBundlePersistent *bool
}

func recordFrom(r moddef.ContentRecord) Record {
	return Record{
		RecordID:              r.ID,
		Path:                  r.Path,
		Type:                  r.Type,
		UpdatedOn:             r.UpdatedOn,
		SchemaVersion:         r.SchemaVersion,
		AssetBundleName:       r.AssetBundleName,
		AssetBundlePersistent: r.AssetBundlePersistent,
	}
}

// ContentRecord converts the row back to the resolver's record type.
func (r Record) ContentRecord() moddef.ContentRecord {
	return moddef.ContentRecord{
		ID:                    r.RecordID,
		Path:                  r.Path,
		Type:                  r.Type,
		UpdatedOn:             r.UpdatedOn,
		SchemaVersion:         r.SchemaVersion,
		AssetBundleName:       r.AssetBundleName,
		AssetBundlePersistent: r.AssetBundlePersistent,
	}
}
