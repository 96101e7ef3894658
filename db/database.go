package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"mod-manifest-resolver/moddef"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Registry is the SQLite-backed content registry a resolved plan is
// applied to. It satisfies resolver.Registry.
type Registry struct {
	DB *gorm.DB
}

// Open connects to the SQLite database at dbPath and migrates the schema.
func Open(dbPath string) (*Registry, error) {
	// Configure GORM logger; stdout is reserved for command output
	newLogger := gormlogger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  true,
		},
	)

	conn, err := gorm.Open(gormlite.Open(dbPath), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := conn.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return &Registry{DB: conn}, nil
}

// Add inserts records, replacing any stored record with the same id.
func (r *Registry) Add(ctx context.Context, records []moddef.ContentRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]Record, len(records))
	for i, rec := range records {
		rows[i] = recordFrom(rec)
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"path", "type", "updated_on", "schema_version",
			"asset_bundle_name", "asset_bundle_persistent", "updated_at",
		}),
	}).Create(&rows).Error
}

// Remove deletes the records with the given ids. Unknown ids are ignored.
func (r *Registry) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	// Unscoped: removed ids must not linger as soft-deleted rows
	return r.DB.WithContext(ctx).Unscoped().Where("record_id IN ?", ids).Delete(&Record{}).Error
}

// List returns every stored record ordered by id.
func (r *Registry) List(ctx context.Context) ([]moddef.ContentRecord, error) {
	var rows []Record
	if err := r.DB.WithContext(ctx).Order("record_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]moddef.ContentRecord, len(rows))
	for i, row := range rows {
		out[i] = row.ContentRecord()
	}
	return out, nil
}

// Close releases the underlying connection.
func (r *Registry) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
