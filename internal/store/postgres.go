package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PostgresSnapshotStore persists snapshots into Postgres alongside
// per-agent expertise vectors, so saved populations can be queried for
// agents with similar domain histories.
type PostgresSnapshotStore struct {
	db *pgxpool.Pool
}

func NewPostgresSnapshotStore(db *pgxpool.Pool) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db}
}

// Save inserts the snapshot row and its agent expertise vectors in one
// transaction. A duplicate (run_id, epoch) pair means an overwrite
// attempt and returns ErrSnapshotExists.
func (s *PostgresSnapshotStore) Save(ctx context.Context, snap *domain.RunSnapshot) (string, error) {
	document, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	paramsJSON, err := json.Marshal(snap.Params)
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}
	statsJSON, err := json.Marshal(snap.Stats)
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO snapshots (run_id, epoch, seed, parameters, stats, document, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		snap.RunID, snap.Epoch, snap.Seed, paramsJSON, statsJSON, document, snap.CreatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%w: run %s epoch %d", ErrSnapshotExists, snap.RunID, snap.Epoch)
		}
		return "", err
	}

	for i, agent := range snap.Agents {
		restored := domain.AgentFromRecord(agent)
		vec := pgvector.NewVector(restored.ExpertiseVector(snap.Domains))
		if _, err := tx.Exec(ctx,
			`INSERT INTO snapshot_agents (snapshot_id, agent_index, participation_count, expertise)
			 VALUES ($1, $2, $3, $4)`,
			id, i, agent.ParticipationCount, vec,
		); err != nil {
			return "", fmt.Errorf("insert agent %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id.String(), nil
}

// List returns saved snapshots, newest first.
func (s *PostgresSnapshotStore) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, run_id, epoch, created_at FROM snapshots ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []domain.SnapshotInfo
	for rows.Next() {
		var id, runID uuid.UUID
		var info domain.SnapshotInfo
		if err := rows.Scan(&id, &runID, &info.Epoch, &info.CreatedAt); err != nil {
			return nil, err
		}
		info.Name = id.String()
		info.RunID = runID.String()
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Get loads one snapshot document by its row ID.
func (s *PostgresSnapshotStore) Get(ctx context.Context, name string) (*domain.RunSnapshot, error) {
	id, err := uuid.Parse(name)
	if err != nil {
		return nil, ErrNotFound
	}

	var document []byte
	err = s.db.QueryRow(ctx,
		`SELECT document FROM snapshots WHERE id = $1`, id,
	).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var snap domain.RunSnapshot
	if err := json.Unmarshal(document, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// SimilarAgents returns the indexes of the agents in a snapshot whose
// expertise vectors are nearest to the given agent's, by L2 distance.
func (s *PostgresSnapshotStore) SimilarAgents(ctx context.Context, snapshotID uuid.UUID, agentIndex int, limit int) ([]int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT b.agent_index
		 FROM snapshot_agents a
		 JOIN snapshot_agents b
		   ON b.snapshot_id = a.snapshot_id AND b.agent_index <> a.agent_index
		 WHERE a.snapshot_id = $1 AND a.agent_index = $2
		 ORDER BY b.expertise <-> a.expertise
		 LIMIT $3`,
		snapshotID, agentIndex, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, err
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}
