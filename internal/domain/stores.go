package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SnapshotInfo identifies one saved snapshot without loading its full
// document.
type SnapshotInfo struct {
	Name      string    `json:"name"`
	RunID     string    `json:"run_id,omitempty"`
	Epoch     int       `json:"epoch"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotStore persists run snapshots. Save must fail rather than
// overwrite an existing snapshot.
type SnapshotStore interface {
	Save(ctx context.Context, snap *RunSnapshot) (string, error)
}

// SnapshotReader lists and loads saved snapshots for analysis.
type SnapshotReader interface {
	List(ctx context.Context) ([]SnapshotInfo, error)
	Get(ctx context.Context, name string) (*RunSnapshot, error)
}

// SimilarAgentSearcher finds agents inside a saved snapshot whose
// expertise vectors are close to a given agent's. Only vector-backed
// stores implement it.
type SimilarAgentSearcher interface {
	SimilarAgents(ctx context.Context, snapshotID uuid.UUID, agentIndex, limit int) ([]int, error)
}
