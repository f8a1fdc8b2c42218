package service

import "github.com/Harshitk-cp/arbiter/internal/domain"

// SweepSpec lists the parameter values to sweep over. Empty lists keep
// the base configuration's value for that axis.
type SweepSpec struct {
	Populations   []int
	GrowthLimits  []float64
	GrowthRates   []float64
	UseReputation []bool
}

// Expand returns the cartesian product of the sweep axes applied to
// the base parameters, in deterministic order (populations outermost,
// reputation toggle innermost).
func (s SweepSpec) Expand(base domain.Params) []domain.Params {
	populations := s.Populations
	if len(populations) == 0 {
		populations = []int{base.Population}
	}
	limits := s.GrowthLimits
	if len(limits) == 0 {
		limits = []float64{base.ReputationGrowthLimit}
	}
	rates := s.GrowthRates
	if len(rates) == 0 {
		rates = []float64{base.ReputationGrowthRate}
	}
	useRep := s.UseReputation
	if len(useRep) == 0 {
		useRep = []bool{base.UseReputation}
	}

	combos := make([]domain.Params, 0, len(populations)*len(limits)*len(rates)*len(useRep))
	for _, pop := range populations {
		for _, c1 := range limits {
			for _, c2 := range rates {
				for _, rep := range useRep {
					p := base
					p.Population = pop
					p.ReputationGrowthLimit = c1
					p.ReputationGrowthRate = c2
					p.UseReputation = rep
					combos = append(combos, p)
				}
			}
		}
	}
	return combos
}
