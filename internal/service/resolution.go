package service

import (
	"math/rand"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"go.uber.org/zap"
)

// uniformStake is every agent's stake per vote. The aggregation
// multiplies stake in, so non-uniform stake is an extension point, but
// the mechanism does not currently vary it.
const uniformStake = 1.0

// ResolutionService collects votes from a seated quorum, aggregates
// them into a resolved outcome, and feeds the result back into the
// participants' reputation ledgers.
type ResolutionService struct {
	params     domain.Params
	reputation *ReputationService
	logger     *zap.Logger
}

func NewResolutionService(params domain.Params, reputation *ReputationService, logger *zap.Logger) *ResolutionService {
	return &ResolutionService{
		params:     params,
		reputation: reputation,
		logger:     logger,
	}
}

// CollectVotes has each participant cast its vote, in seating order.
//
// An agent's alignment probability is the question's contention, plus
// the experience boost (capped at 1.0) when one of its knowledge
// domains intersects the question context. One uniform draw decides
// whether the agent votes with or against the hidden true outcome.
// The vote reuses the confidence computed during selection and carries
// nil confidence when reputation is disabled.
func (s *ResolutionService) CollectVotes(rng *rand.Rand, q *domain.Question, participants []Participant) []domain.Vote {
	context := q.AllContext()
	votes := make([]domain.Vote, len(participants))
	for i, p := range participants {
		alignment := q.Contention
		if p.Agent.HasExperience(context) {
			alignment += s.params.ExperienceBoost
			if alignment > 1 {
				alignment = 1
			}
		}

		value := q.TrueOutcome
		if rng.Float64() >= alignment {
			value = !q.TrueOutcome
		}

		p.Agent.ParticipationCount++
		votes[i] = domain.Vote{
			Value:      value,
			Confidence: p.Confidence,
			Stake:      uniformStake,
		}
	}
	return votes
}

// Resolve aggregates the collected votes and settles the question.
//
// Weighted sums are compared strictly: an exact tie marks the question
// indeterminate and no reputation is touched, so ties can never
// corrupt agent history. A definite outcome updates every
// participant's ledger against the resolved outcome (not the ground
// truth, which is unobservable in a real deployment) and classifies
// the question for the offline accuracy counters.
func (s *ResolutionService) Resolve(q *domain.Question, participants []Participant, votes []domain.Vote) (bool, bool) {
	var cumulativeTrue, cumulativeFalse float64
	for _, v := range votes {
		if v.Value {
			cumulativeTrue += v.Weight()
		} else {
			cumulativeFalse += v.Weight()
		}
	}

	if cumulativeTrue == cumulativeFalse {
		q.Indeterminate = true
		s.logger.Debug("indeterminate resolution",
			zap.Float64("cumulative_weight", cumulativeTrue),
			zap.Int("participants", len(participants)))
		return false, true
	}

	outcome := cumulativeTrue > cumulativeFalse
	context := q.AllContext()
	for i, p := range participants {
		s.reputation.Update(p.Agent, votes[i].Value == outcome, context)
	}

	correct := outcome == q.TrueOutcome
	q.ResolvedOutcome = &outcome
	q.ResolvedCorrectly = &correct

	s.logger.Debug("question resolved",
		zap.Bool("outcome", outcome),
		zap.Bool("matches_truth", correct),
		zap.Float64("true_weight", cumulativeTrue),
		zap.Float64("false_weight", cumulativeFalse))
	return outcome, false
}
