package domain

import (
	"errors"
	"fmt"
)

// Default mechanism parameters, matching the reference sweep ranges.
const (
	DefaultExperienceDomainCount = 3
	DefaultContentionCenter      = 0.7
	DefaultConfidenceThreshold   = 31.0
	DefaultExperienceBoost       = 0.1
	DefaultSecondaryContextCount = 2
	DefaultReputationAffinity    = 10.0
	DefaultQuestionsPerEpoch     = 10000
	DefaultEpochs                = 1
	DefaultEpochsPerSave         = 1
)

var ErrZeroPopulation = errors.New("population must be positive")

// Params is the full mechanism configuration for one simulation run.
type Params struct {
	// Population is the number of answering agents.
	Population int `json:"population"`

	// ReputationGrowthLimit (c1) bounds the maximum reputation bonus:
	// confidence never exceeds 1 + c1/2.
	ReputationGrowthLimit float64 `json:"reputation_growth_limit"`

	// ReputationGrowthRate (c2) controls how quickly confidence
	// approaches the bound as correct contributions accumulate.
	ReputationGrowthRate float64 `json:"reputation_growth_rate"`

	// UseReputation enables reputation-weighted selection and vote
	// aggregation. When false the run is an unweighted majority
	// control: uniform selection, head-count quorum, stake-only sums.
	UseReputation bool `json:"use_reputation"`

	// FixedThreshold switches the quorum target from a confidence sum
	// to a literal participant head count.
	FixedThreshold bool `json:"fixed_threshold"`

	// FloorNegativeContribution clamps negative per-domain correctness
	// to zero when projecting the ledger into a confidence value, so
	// reputation can boost but never penalize voting weight.
	FloorNegativeContribution bool `json:"floor_negative_contribution"`

	ExperienceDomainCount int     `json:"experience_domain_count"`
	ContentionCenter      float64 `json:"contention_center"`
	ConfidenceThreshold   float64 `json:"confidence_threshold"`
	ExperienceBoost       float64 `json:"experience_boost"`
	SecondaryContextCount int     `json:"secondary_context_count"`
	ReputationAffinity    float64 `json:"reputation_affinity"`

	QuestionsPerEpoch int `json:"questions_per_epoch"`
	Epochs            int `json:"epochs"`
	EpochsPerSave     int `json:"epochs_per_save"`
}

// DefaultParams returns a runnable baseline configuration. Population,
// c1 and c2 are left zero and must be set by the caller.
func DefaultParams() Params {
	return Params{
		FloorNegativeContribution: true,
		ExperienceDomainCount:     DefaultExperienceDomainCount,
		ContentionCenter:          DefaultContentionCenter,
		ConfidenceThreshold:       DefaultConfidenceThreshold,
		ExperienceBoost:           DefaultExperienceBoost,
		SecondaryContextCount:     DefaultSecondaryContextCount,
		ReputationAffinity:        DefaultReputationAffinity,
		QuestionsPerEpoch:         DefaultQuestionsPerEpoch,
		Epochs:                    DefaultEpochs,
		EpochsPerSave:             DefaultEpochsPerSave,
	}
}

// Validate rejects configurations that cannot produce a meaningful
// run. These are fatal before the run starts; per-question anomalies
// (aborts, ties) are handled by the engine instead.
func (p Params) Validate() error {
	if p.Population <= 0 {
		return ErrZeroPopulation
	}
	if p.ReputationGrowthLimit < 0 {
		return fmt.Errorf("reputation growth limit must be non-negative, got %g", p.ReputationGrowthLimit)
	}
	if p.ReputationGrowthRate < 0 {
		return fmt.Errorf("reputation growth rate must be non-negative, got %g", p.ReputationGrowthRate)
	}
	if p.ContentionCenter <= 0.5 || p.ContentionCenter > 1 {
		return fmt.Errorf("contention center must be in (0.5, 1], got %g", p.ContentionCenter)
	}
	if p.ExperienceBoost <= 0 || p.ExperienceBoost > 0.5 {
		return fmt.Errorf("experience boost must be in (0, 0.5], got %g", p.ExperienceBoost)
	}
	if p.ConfidenceThreshold < 0 {
		return fmt.Errorf("confidence threshold must be non-negative, got %g", p.ConfidenceThreshold)
	}
	if p.ExperienceDomainCount < 0 {
		return fmt.Errorf("experience domain count must be non-negative, got %d", p.ExperienceDomainCount)
	}
	if p.SecondaryContextCount < 0 {
		return fmt.Errorf("secondary context count must be non-negative, got %d", p.SecondaryContextCount)
	}
	if p.UseReputation && p.ReputationAffinity <= 0 {
		return fmt.Errorf("reputation affinity must be positive, got %g", p.ReputationAffinity)
	}
	if p.QuestionsPerEpoch <= 0 {
		return fmt.Errorf("questions per epoch must be positive, got %d", p.QuestionsPerEpoch)
	}
	if p.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", p.Epochs)
	}
	if p.EpochsPerSave <= 0 {
		return fmt.Errorf("epochs per save must be positive, got %d", p.EpochsPerSave)
	}
	return nil
}
