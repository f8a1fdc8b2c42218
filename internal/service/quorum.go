package service

import (
	"math"
	"math/rand"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"go.uber.org/zap"
)

// Participant is one agent seated on a question's quorum, carrying the
// confidence value precomputed during selection so voting never has to
// evaluate the ledger projection a second time. Confidence is nil when
// reputation weighting is disabled.
type Participant struct {
	Agent      *domain.Agent
	Confidence *float64
}

// QuorumService seats voters on questions by sampling the population
// without replacement until the quorum target is met.
type QuorumService struct {
	params     domain.Params
	reputation *ReputationService
	logger     *zap.Logger
}

func NewQuorumService(params domain.Params, reputation *ReputationService, logger *zap.Logger) *QuorumService {
	return &QuorumService{
		params:     params,
		reputation: reputation,
		logger:     logger,
	}
}

type candidate struct {
	agent      *domain.Agent
	confidence float64
	weight     int
}

// Select draws participants for the question until the quorum target
// is reached, always seating at least one voter when any candidate
// exists. It returns aborted=true when the population is exhausted
// first; an aborted question has no participants.
//
// In reputation mode each candidate's confidence is computed once and
// converted to an integer affinity weight, floor(confidence*affinity),
// which acts as a sampling multiplicity: higher-reputation agents are
// proportionally more likely to be drawn each round. With reputation
// disabled every agent has uniform weight 1.
//
// Progress toward the target accrues the drawn agent's confidence in
// reputation mode with a variable threshold, and a flat 1 in
// fixed-threshold mode or when reputation is off.
func (s *QuorumService) Select(rng *rand.Rand, population []*domain.Agent, q *domain.Question) ([]Participant, bool) {
	context := q.AllContext()

	candidates := make([]candidate, len(population))
	totalWeight := 0
	for i, a := range population {
		c := candidate{agent: a, weight: 1}
		if s.params.UseReputation {
			c.confidence = s.reputation.Confidence(a, context)
			c.weight = int(math.Floor(c.confidence * s.params.ReputationAffinity))
			if c.weight < 1 {
				c.weight = 1
			}
		}
		candidates[i] = c
		totalWeight += c.weight
	}

	var participants []Participant
	progress := 0.0
	for {
		if len(participants) > 0 && progress >= q.ReqConfidenceThreshold {
			return participants, false
		}
		if len(candidates) == 0 {
			s.logger.Debug("population exhausted before quorum",
				zap.Float64("progress", progress),
				zap.Float64("threshold", q.ReqConfidenceThreshold))
			return nil, true
		}

		idx := s.draw(rng, candidates, totalWeight)
		picked := candidates[idx]
		totalWeight -= picked.weight
		candidates[idx] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		p := Participant{Agent: picked.agent}
		if s.params.UseReputation {
			conf := picked.confidence
			p.Confidence = &conf
		}
		participants = append(participants, p)

		if s.params.UseReputation && !s.params.FixedThreshold {
			progress += picked.confidence
		} else {
			progress += 1
		}
	}
}

// draw picks one candidate index from the affinity-weighted
// distribution.
func (s *QuorumService) draw(rng *rand.Rand, candidates []candidate, totalWeight int) int {
	r := rng.Intn(totalWeight)
	for i := range candidates {
		r -= candidates[i].weight
		if r < 0 {
			return i
		}
	}
	// Unreachable while totalWeight matches the candidate weights.
	return len(candidates) - 1
}
