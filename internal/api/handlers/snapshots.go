package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultSimilarLimit = 5
	maxSimilarLimit     = 100
)

// SnapshotHandler serves saved run snapshots for offline analysis. It
// is read-only: simulations are launched from the command line, never
// over HTTP. The searcher is nil when the backing store has no
// expertise vectors to query.
type SnapshotHandler struct {
	reader   domain.SnapshotReader
	searcher domain.SimilarAgentSearcher
}

func NewSnapshotHandler(reader domain.SnapshotReader, searcher domain.SimilarAgentSearcher) *SnapshotHandler {
	return &SnapshotHandler{reader: reader, searcher: searcher}
}

func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.reader.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if infos == nil {
		infos = []domain.SnapshotInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, err := h.reader.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type snapshotSummary struct {
	RunID   string         `json:"run_id"`
	Epoch   int            `json:"epoch"`
	Seed    int64          `json:"random_seed"`
	Params  domain.Params  `json:"parameters"`
	Stats   domain.Stats   `json:"stats"`
	Metrics domain.Metrics `json:"metrics"`
	Agents  int            `json:"agents"`
}

// Summary returns the counters and derived metrics without the full
// agent and question payload.
func (h *SnapshotHandler) Summary(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, err := h.reader.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	writeJSON(w, http.StatusOK, snapshotSummary{
		RunID:   snap.RunID.String(),
		Epoch:   snap.Epoch,
		Seed:    snap.Seed,
		Params:  snap.Params,
		Stats:   snap.Stats,
		Metrics: snap.Stats.Metrics(),
		Agents:  len(snap.Agents),
	})
}

type similarAgentsResponse struct {
	SnapshotID string `json:"snapshot_id"`
	AgentIndex int    `json:"agent_index"`
	Similar    []int  `json:"similar_agents"`
}

// SimilarAgents returns the indexes of the agents whose expertise
// vectors are nearest to the given agent's within one snapshot.
// Requires the Postgres-backed store; file-backed deployments get 501.
func (h *SnapshotHandler) SimilarAgents(w http.ResponseWriter, r *http.Request) {
	if h.searcher == nil {
		writeError(w, http.StatusNotImplemented, "similarity search requires the postgres snapshot store")
		return
	}

	name := chi.URLParam(r, "name")
	id, err := uuid.Parse(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid agent index")
		return
	}
	limit := defaultSimilarLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxSimilarLimit {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	indexes, err := h.searcher.SimilarAgents(r.Context(), id, index, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search similar agents")
		return
	}
	if indexes == nil {
		indexes = []int{}
	}
	writeJSON(w, http.StatusOK, similarAgentsResponse{
		SnapshotID: id.String(),
		AgentIndex: index,
		Similar:    indexes,
	})
}
