package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner owns one simulation run: the agent population, the question
// pool, and the per-run pseudo-random stream. Everything downstream of
// the seed is deterministic; re-running with the same seed and
// parameters reproduces identical aggregate counters.
type Runner struct {
	params   domain.Params
	taxonomy *domain.Taxonomy
	seed     int64
	runID    uuid.UUID
	rng      *rand.Rand
	logger   *zap.Logger

	reputation *ReputationService
	pool       *QuestionPool
	quorum     *QuorumService
	resolution *ResolutionService

	stores     []domain.SnapshotStore
	population []*domain.Agent
	stats      domain.Stats
}

// NewRunner validates the configuration and initializes the population
// with knowledge domains sampled from the taxonomy.
func NewRunner(taxonomy *domain.Taxonomy, params domain.Params, seed int64, stores []domain.SnapshotStore, logger *zap.Logger) (*Runner, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if taxonomy == nil || taxonomy.Len() == 0 {
		return nil, domain.ErrEmptyTaxonomy
	}

	rng := rand.New(rand.NewSource(seed))
	reputation := NewReputationService(params, logger)

	r := &Runner{
		params:     params,
		taxonomy:   taxonomy,
		seed:       seed,
		runID:      uuid.New(),
		rng:        rng,
		logger:     logger,
		reputation: reputation,
		pool:       NewQuestionPool(taxonomy, params, rng, logger),
		quorum:     NewQuorumService(params, reputation, logger),
		resolution: NewResolutionService(params, reputation, logger),
		stores:     stores,
	}

	r.population = make([]*domain.Agent, params.Population)
	for i := range r.population {
		r.population[i] = domain.NewAgent(r.sampleKnowledgeDomains())
	}
	return r, nil
}

// sampleKnowledgeDomains draws the agent's fixed experience set
// without replacement from the top-level taxonomy domains.
func (r *Runner) sampleKnowledgeDomains() []string {
	domains := r.taxonomy.Domains()
	k := r.params.ExperienceDomainCount
	if k > len(domains) {
		k = len(domains)
	}
	picked := make([]string, k)
	for i, idx := range r.rng.Perm(len(domains))[:k] {
		picked[i] = domains[idx]
	}
	return picked
}

// Run executes the configured epochs sequentially: one question is
// fully generated, quorum-selected, voted, resolved and
// reputation-updated before the next begins. Snapshots are written at
// every epochs-per-save boundary, and the final snapshot is returned.
func (r *Runner) Run(ctx context.Context) (*domain.RunSnapshot, error) {
	r.logger.Info("starting run",
		zap.String("run_id", r.runID.String()),
		zap.Int64("seed", r.seed),
		zap.Int("population", r.params.Population),
		zap.Bool("use_reputation", r.params.UseReputation))

	for epoch := 0; epoch < r.params.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.runEpoch(epoch)

		if epoch%r.params.EpochsPerSave == 0 {
			if err := r.save(ctx, epoch); err != nil {
				return nil, err
			}
		}
	}

	snap := r.Snapshot(r.params.Epochs - 1)
	metrics := snap.Metrics
	r.logger.Info("run complete",
		zap.String("run_id", r.runID.String()),
		zap.Int("total_questions", r.stats.TotalQuestions),
		zap.Int("aborted", r.stats.Aborted),
		zap.Int("indeterminate", r.stats.Indeterminate),
		zap.Float64("accuracy", metrics.Accuracy))
	return snap, nil
}

func (r *Runner) runEpoch(epoch int) {
	r.logger.Info("running epoch", zap.Int("epoch", epoch))
	for i := 0; i < r.params.QuestionsPerEpoch; i++ {
		r.runQuestion()
	}
}

func (r *Runner) runQuestion() {
	q := r.pool.Generate()

	participants, aborted := r.quorum.Select(r.rng, r.population, q)
	if aborted {
		// Quorum starvation is a designed terminal state, not an
		// error; the question is recorded and the run moves on.
		q.Aborted = true
		q.Indeterminate = true
		r.stats.RecordAbort()
		r.logger.Warn("question aborted: population exhausted before quorum",
			zap.Float64("threshold", q.ReqConfidenceThreshold))
		return
	}
	used := len(participants)
	q.PartiesUsed = &used

	votes := r.resolution.CollectVotes(r.rng, q, participants)
	outcome, indeterminate := r.resolution.Resolve(q, participants, votes)
	if indeterminate {
		r.stats.RecordIndeterminate()
		return
	}
	r.stats.RecordResolution(outcome, q.TrueOutcome)
}

// Snapshot captures the full serializable run state as of the given
// epoch.
func (r *Runner) Snapshot(epoch int) *domain.RunSnapshot {
	agents := make([]domain.AgentRecord, len(r.population))
	for i, a := range r.population {
		agents[i] = a.Record()
	}
	history := r.pool.History()
	questions := make([]domain.QuestionRecord, len(history))
	for i, q := range history {
		questions[i] = q.Record()
	}

	return &domain.RunSnapshot{
		RunID:     r.runID,
		Epoch:     epoch,
		CreatedAt: time.Now().UTC(),
		Seed:      r.seed,
		Params:    r.params,
		Stats:     r.stats,
		Metrics:   r.stats.Metrics(),
		Domains:   append([]string(nil), r.taxonomy.Domains()...),
		Agents:    agents,
		Questions: questions,
	}
}

func (r *Runner) save(ctx context.Context, epoch int) error {
	snap := r.Snapshot(epoch)
	for _, store := range r.stores {
		name, err := store.Save(ctx, snap)
		if err != nil {
			return fmt.Errorf("save snapshot at epoch %d: %w", epoch, err)
		}
		r.logger.Info("saved snapshot", zap.Int("epoch", epoch), zap.String("name", name))
	}
	return nil
}

// Stats returns the aggregate counters accumulated so far.
func (r *Runner) Stats() domain.Stats {
	return r.stats
}

// Population exposes the agent population for inspection in tests and
// analysis tooling.
func (r *Runner) Population() []*domain.Agent {
	return r.population
}
