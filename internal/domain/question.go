package domain

// Question is one synthetic binary question. The true outcome is
// hidden from agents; it exists only so resolutions can be scored
// offline.
type Question struct {
	PrimaryContext   string
	SecondaryContext []string

	// Contention is the probability mass favoring the hidden true
	// outcome, in [0.51, 1.0] by construction.
	Contention float64

	TrueOutcome bool

	// ReqConfidenceThreshold is the quorum target: a confidence sum in
	// reputation mode, a head count in fixed-threshold mode.
	ReqConfidenceThreshold float64

	// Result fields, set exactly once during resolution.
	Aborted           bool
	Indeterminate     bool
	PartiesUsed       *int
	ResolvedOutcome   *bool
	ResolvedCorrectly *bool
}

// AllContext returns the primary domain followed by the secondary
// domains, in generation order.
func (q *Question) AllContext() []string {
	all := make([]string, 0, 1+len(q.SecondaryContext))
	all = append(all, q.PrimaryContext)
	return append(all, q.SecondaryContext...)
}

// Vote is the ephemeral triple one agent casts on one question.
// Confidence is nil whenever reputation weighting is disabled; that is
// a hard contract so a control run can never accidentally weight
// votes.
type Vote struct {
	Value      bool
	Confidence *float64
	Stake      float64
}

// Weight is the vote's contribution to its side of the aggregation:
// confidence*stake when reputation is enabled, stake alone otherwise.
func (v Vote) Weight() float64 {
	if v.Confidence != nil {
		return *v.Confidence * v.Stake
	}
	return v.Stake
}
