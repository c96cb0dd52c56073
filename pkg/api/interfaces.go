package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/storage"
)

// TableSource provides the decoded tables served by the API.
type TableSource interface {
	Names() []string
	File(name string) (*dbc.File, bool)
}

// SnapshotSource provides exported snapshots. It is optional.
type SnapshotSource interface {
	Snapshots() ([]storage.Snapshot, error)
	Snapshot(id ksuid.KSUID) (storage.Snapshot, error)
	Rows(id ksuid.KSUID, table string) ([]map[string]any, error)
}
