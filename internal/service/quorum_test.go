package service

import (
	"math/rand"
	"testing"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"go.uber.org/zap"
)

func newPopulation(n int) []*domain.Agent {
	agents := make([]*domain.Agent, n)
	for i := range agents {
		agents[i] = domain.NewAgent(nil)
	}
	return agents
}

func newQuorum(params domain.Params) *QuorumService {
	rep := NewReputationService(params, zap.NewNop())
	return NewQuorumService(params, rep, zap.NewNop())
}

func TestSelectSinglePartyZeroThreshold(t *testing.T) {
	params := testParams()
	params.UseReputation = false
	svc := newQuorum(params)

	population := newPopulation(1)
	q := &domain.Question{PrimaryContext: "Science", ReqConfidenceThreshold: 0}

	for i := 0; i < 50; i++ {
		participants, aborted := svc.Select(rand.New(rand.NewSource(int64(i))), population, q)
		if aborted {
			t.Fatal("question aborted with an available agent")
		}
		if len(participants) != 1 {
			t.Fatalf("participants = %d, want exactly 1", len(participants))
		}
	}
}

func TestSelectEmptyPopulationAborts(t *testing.T) {
	svc := newQuorum(testParams())
	q := &domain.Question{PrimaryContext: "Science", ReqConfidenceThreshold: 0}

	participants, aborted := svc.Select(rand.New(rand.NewSource(1)), nil, q)
	if !aborted {
		t.Fatal("expected abort with no candidates")
	}
	if participants != nil {
		t.Fatalf("expected no participants, got %d", len(participants))
	}
}

func TestSelectExhaustionAborts(t *testing.T) {
	params := testParams()
	params.UseReputation = false
	svc := newQuorum(params)

	q := &domain.Question{PrimaryContext: "Science", ReqConfidenceThreshold: 5}
	_, aborted := svc.Select(rand.New(rand.NewSource(1)), newPopulation(2), q)
	if !aborted {
		t.Fatal("expected abort: 2 agents cannot reach a head count of 5")
	}
}

func TestSelectNeverRepeatsAgents(t *testing.T) {
	params := testParams()
	params.FixedThreshold = true
	svc := newQuorum(params)

	population := newPopulation(10)
	q := &domain.Question{PrimaryContext: "Science", ReqConfidenceThreshold: 10}

	participants, aborted := svc.Select(rand.New(rand.NewSource(7)), population, q)
	if aborted {
		t.Fatal("unexpected abort")
	}
	if len(participants) > len(population) {
		t.Fatalf("selected %d agents from a population of %d", len(participants), len(population))
	}
	seen := make(map[*domain.Agent]bool)
	for _, p := range participants {
		if seen[p.Agent] {
			t.Fatal("agent selected twice for one question")
		}
		seen[p.Agent] = true
	}
}

func TestSelectFixedThresholdCountsHeads(t *testing.T) {
	params := testParams()
	params.FixedThreshold = true
	svc := newQuorum(params)

	q := &domain.Question{PrimaryContext: "Science", ReqConfidenceThreshold: 3}
	participants, aborted := svc.Select(rand.New(rand.NewSource(3)), newPopulation(10), q)
	if aborted {
		t.Fatal("unexpected abort")
	}
	if len(participants) != 3 {
		t.Fatalf("participants = %d, want 3 in fixed-threshold mode", len(participants))
	}
}

func TestSelectConfidenceSumThreshold(t *testing.T) {
	// Empty ledgers give every agent the floor confidence of exactly
	// 1, so a threshold of 3.5 needs four voters.
	svc := newQuorum(testParams())

	q := &domain.Question{PrimaryContext: "Science", ReqConfidenceThreshold: 3.5}
	participants, aborted := svc.Select(rand.New(rand.NewSource(5)), newPopulation(10), q)
	if aborted {
		t.Fatal("unexpected abort")
	}
	if len(participants) != 4 {
		t.Fatalf("participants = %d, want 4 when summing confidence", len(participants))
	}
}

func TestSelectConfidenceContract(t *testing.T) {
	population := newPopulation(5)
	q := &domain.Question{PrimaryContext: "Science", ReqConfidenceThreshold: 2}

	withRep := newQuorum(testParams())
	participants, _ := withRep.Select(rand.New(rand.NewSource(9)), population, q)
	for _, p := range participants {
		if p.Confidence == nil {
			t.Fatal("confidence missing in reputation mode")
		}
		if *p.Confidence < 1 {
			t.Fatalf("confidence %g below floor", *p.Confidence)
		}
	}

	params := testParams()
	params.UseReputation = false
	withoutRep := newQuorum(params)
	participants, _ = withoutRep.Select(rand.New(rand.NewSource(9)), population, q)
	for _, p := range participants {
		if p.Confidence != nil {
			t.Fatal("confidence must be nil when reputation is disabled")
		}
	}
}

func TestSelectFavorsHighReputation(t *testing.T) {
	params := testParams()
	svc := newQuorum(params)

	// One veteran with deep history against nine blank agents.
	population := newPopulation(10)
	population[0].Ledger["Science"] = domain.ReputationRecord{Total: 40, Correct: 40}

	q := &domain.Question{PrimaryContext: "Science", ReqConfidenceThreshold: 1}

	rng := rand.New(rand.NewSource(11))
	picked := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		participants, aborted := svc.Select(rng, population, q)
		if aborted {
			t.Fatal("unexpected abort")
		}
		if participants[0].Agent == population[0] {
			picked++
		}
	}

	// Affinity weights: floor(2.5*10)=25 for the veteran vs 10 for
	// each blank agent, so the veteran should be drawn first in about
	// 25/115 of trials. Uniform selection would give 1/10.
	if picked < trials/8 {
		t.Fatalf("veteran drawn first only %d/%d times; weighting looks uniform", picked, trials)
	}
}
