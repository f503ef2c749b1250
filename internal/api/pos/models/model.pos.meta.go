// Package posmodels holds the local mirror of the Loyverse POS entities.
package posmodels

import "time"

// Sources of a document.
const (
	SourceLoyverse = "loyverse"
	SourceManual   = "manual"
)

// SchemaVersion is stamped on every document written by this version.
const SchemaVersion = 1

// MetaData records where a document came from and when it last changed upstream.
type MetaData struct {
	Source         string     `json:"source" bson:"source"`
	SyncedAt       time.Time  `json:"synced_at" bson:"synced_at"`
	LastModifiedAt *time.Time `json:"last_modified_at,omitempty" bson:"last_modified_at,omitempty"`
	SchemaVersion  int        `json:"schema_version" bson:"schema_version"`
}

// NewMetaData stamps now as sync time. lastModified falls back to now when nil.
func NewMetaData(source string, lastModified *time.Time, now time.Time) MetaData {
	now = now.UTC()
	lm := now
	if lastModified != nil {
		lm = lastModified.UTC()
	}
	return MetaData{Source: source, SyncedAt: now, LastModifiedAt: &lm, SchemaVersion: SchemaVersion}
}
