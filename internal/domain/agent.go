package domain

// ReputationRecord tracks one agent's history inside a single domain.
//
// Correct carries the +1/-1 feedback from resolved questions, so it
// can go negative or exceed Total. That asymmetry is intentional: the
// confidence projection clamps negatives (see the
// FloorNegativeContribution parameter) rather than the ledger.
type ReputationRecord struct {
	Total   int `json:"total_contributions"`
	Correct int `json:"correct_contributions"`
}

// Agent is one answering entity. Its ledger is sparse: a missing
// domain means no history there.
type Agent struct {
	Ledger             map[string]ReputationRecord
	KnowledgeDomains   []string
	ParticipationCount int
}

// NewAgent creates an agent with an empty ledger and a fixed set of
// knowledge domains sampled at population initialization.
func NewAgent(knowledgeDomains []string) *Agent {
	return &Agent{
		Ledger:           make(map[string]ReputationRecord),
		KnowledgeDomains: knowledgeDomains,
	}
}

// HasExperience reports whether any of the agent's knowledge domains
// appears in the given question context.
func (a *Agent) HasExperience(context []string) bool {
	for _, known := range a.KnowledgeDomains {
		for _, d := range context {
			if known == d {
				return true
			}
		}
	}
	return false
}
