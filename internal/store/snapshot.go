package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// snapshotVersion guards against importing files written by an
// incompatible build.
const snapshotVersion = 1

// snapshot is the portable JSON shape of one project, used for backup
// and sharing between installations.
type snapshot struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exportedAt"`
	Name       string             `json:"name"`
	Site       sitemodel.SiteData `json:"site"`
}

// ExportJSON serializes a project as a portable snapshot.
func ExportJSON(p *Project) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("nil project")
	}
	snap := snapshot{
		Version:    snapshotVersion,
		ExportedAt: time.Now().UTC(),
		Name:       p.Name,
		Site:       p.Site,
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ImportJSON parses a snapshot produced by ExportJSON and returns a new
// project with a fresh ID, ready to Put.
func ImportJSON(data []byte, owner string) (*Project, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse project snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	if snap.Name == "" {
		return nil, fmt.Errorf("project snapshot has no name")
	}
	return &Project{
		ID:    uuid.NewString(),
		Name:  snap.Name,
		Owner: owner,
		Site:  snap.Site,
	}, nil
}
