package service

import (
	"math"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"go.uber.org/zap"
)

// Sigmoid is the standard logistic function.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// ReputationService maps per-domain correctness ledgers to scalar
// confidence values and applies post-resolution feedback.
//
// Confidence is 1 + c1*(sigmoid(m*c2) - 0.5), where m is the L1 norm
// of the ledger's correct-contribution counts projected onto the
// queried domains. An agent with no history in any queried domain gets
// the floor value of exactly 1; no agent ever exceeds 1 + c1/2.
type ReputationService struct {
	// GrowthLimit (c1) bounds the maximum bonus above the floor.
	GrowthLimit float64
	// GrowthRate (c2) scales how fast history moves confidence toward
	// the bound.
	GrowthRate float64
	// FloorNegativeContribution clamps negative correctness counts to
	// zero during projection, so accumulated disagreement can never
	// drag weight below the floor. Tunable mechanism policy, on by
	// default.
	FloorNegativeContribution bool

	logger *zap.Logger
}

func NewReputationService(params domain.Params, logger *zap.Logger) *ReputationService {
	return &ReputationService{
		GrowthLimit:               params.ReputationGrowthLimit,
		GrowthRate:                params.ReputationGrowthRate,
		FloorNegativeContribution: params.FloorNegativeContribution,
		logger:                    logger,
	}
}

// Confidence projects the agent's ledger onto the question context and
// returns the bounded confidence value. This is the hottest call in a
// reputation-weighted run; the quorum selector computes it once per
// candidate and reuses the value for vote weighting.
func (s *ReputationService) Confidence(a *domain.Agent, context []string) float64 {
	var magnitude float64
	for _, d := range context {
		rec, ok := a.Ledger[d]
		if !ok {
			continue
		}
		correct := rec.Correct
		if correct < 0 && s.FloorNegativeContribution {
			correct = 0
		}
		magnitude += float64(correct)
	}
	return 1 + s.GrowthLimit*(Sigmoid(magnitude*s.GrowthRate)-0.5)
}

// MaxConfidence is the upper bound of the confidence range.
func (s *ReputationService) MaxConfidence() float64 {
	return 1 + s.GrowthLimit/2
}

// Update applies the feedback rule for one resolved question: every
// context domain's total count goes up by one, and its correct count
// moves +1 or -1 depending on whether the agent's vote matched the
// resolved outcome. Reputation tracks agreement with the resolution,
// not with the hidden ground truth.
func (s *ReputationService) Update(a *domain.Agent, votedWithResolution bool, context []string) {
	increment := -1
	if votedWithResolution {
		increment = +1
	}
	for _, d := range context {
		rec := a.Ledger[d]
		rec.Total++
		rec.Correct += increment
		a.Ledger[d] = rec
	}
}
