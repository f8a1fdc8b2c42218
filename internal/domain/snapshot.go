package domain

import (
	"time"

	"github.com/google/uuid"
)

// AgentRecord is the serialized form of an Agent.
type AgentRecord struct {
	ReputationLedger   map[string]ReputationRecord `json:"reputation_ledger"`
	KnowledgeDomains   []string                    `json:"knowledge_domains"`
	ParticipationCount int                         `json:"participation_count"`
}

// Record converts the agent to its serialized form. The ledger is
// copied so later mutation cannot leak into a saved snapshot.
func (a *Agent) Record() AgentRecord {
	ledger := make(map[string]ReputationRecord, len(a.Ledger))
	for k, v := range a.Ledger {
		ledger[k] = v
	}
	return AgentRecord{
		ReputationLedger:   ledger,
		KnowledgeDomains:   append([]string(nil), a.KnowledgeDomains...),
		ParticipationCount: a.ParticipationCount,
	}
}

// AgentFromRecord restores an agent from its serialized form.
func AgentFromRecord(r AgentRecord) *Agent {
	a := NewAgent(append([]string(nil), r.KnowledgeDomains...))
	for k, v := range r.ReputationLedger {
		a.Ledger[k] = v
	}
	a.ParticipationCount = r.ParticipationCount
	return a
}

// ExpertiseVector projects the agent's ledger onto a fixed domain
// axis, clamping negative correctness to zero. The dense form is what
// the Postgres store indexes for similar-expertise queries.
func (a *Agent) ExpertiseVector(axis []string) []float32 {
	vec := make([]float32, len(axis))
	for i, d := range axis {
		if rec, ok := a.Ledger[d]; ok && rec.Correct > 0 {
			vec[i] = float32(rec.Correct)
		}
	}
	return vec
}

// QuestionRecord is the serialized form of a Question.
type QuestionRecord struct {
	PrimaryContext         string   `json:"primary_context"`
	SecondaryContext       []string `json:"secondary_context"`
	Contention             float64  `json:"contention"`
	TrueOutcome            bool     `json:"true_outcome"`
	ReqConfidenceThreshold float64  `json:"req_confidence_threshold"`
	Aborted                bool     `json:"aborted"`
	Indeterminate          bool     `json:"indeterminate_resolution"`
	PartiesUsed            *int     `json:"parties_used"`
	ResolvedOutcome        *bool    `json:"resolved_outcome"`
	ResolvedCorrectly      *bool    `json:"resolved_correctly"`
}

// Record converts the question to its serialized form.
func (q *Question) Record() QuestionRecord {
	return QuestionRecord{
		PrimaryContext:         q.PrimaryContext,
		SecondaryContext:       append([]string(nil), q.SecondaryContext...),
		Contention:             q.Contention,
		TrueOutcome:            q.TrueOutcome,
		ReqConfidenceThreshold: q.ReqConfidenceThreshold,
		Aborted:                q.Aborted,
		Indeterminate:          q.Indeterminate,
		PartiesUsed:            q.PartiesUsed,
		ResolvedOutcome:        q.ResolvedOutcome,
		ResolvedCorrectly:      q.ResolvedCorrectly,
	}
}

// QuestionFromRecord restores a question from its serialized form.
func QuestionFromRecord(r QuestionRecord) *Question {
	return &Question{
		PrimaryContext:         r.PrimaryContext,
		SecondaryContext:       append([]string(nil), r.SecondaryContext...),
		Contention:             r.Contention,
		TrueOutcome:            r.TrueOutcome,
		ReqConfidenceThreshold: r.ReqConfidenceThreshold,
		Aborted:                r.Aborted,
		Indeterminate:          r.Indeterminate,
		PartiesUsed:            r.PartiesUsed,
		ResolvedOutcome:        r.ResolvedOutcome,
		ResolvedCorrectly:      r.ResolvedCorrectly,
	}
}

// RunSnapshot is one save point: the full state of a run at an epoch
// boundary, self-describing enough to be reloaded for analysis.
type RunSnapshot struct {
	RunID     uuid.UUID `json:"run_id"`
	Epoch     int       `json:"epoch"`
	CreatedAt time.Time `json:"created_at"`
	Seed      int64     `json:"random_seed"`

	Params  Params  `json:"parameters"`
	Stats   Stats   `json:"stats"`
	Metrics Metrics `json:"metrics"`

	// Domains is the top-level taxonomy axis used for this run, in the
	// order expertise vectors are projected onto.
	Domains []string `json:"domains"`

	Agents    []AgentRecord    `json:"answering_entities"`
	Questions []QuestionRecord `json:"question_history"`
}
