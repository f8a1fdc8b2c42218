package service

import (
	"math/rand"
	"testing"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"go.uber.org/zap"
)

func newResolution(params domain.Params) *ResolutionService {
	rep := NewReputationService(params, zap.NewNop())
	return NewResolutionService(params, rep, zap.NewNop())
}

func TestResolveMajorityWithoutReputation(t *testing.T) {
	params := testParams()
	params.UseReputation = false
	svc := newResolution(params)

	q := &domain.Question{PrimaryContext: "Science", TrueOutcome: true}
	participants := []Participant{
		{Agent: domain.NewAgent(nil)},
		{Agent: domain.NewAgent(nil)},
		{Agent: domain.NewAgent(nil)},
	}
	votes := []domain.Vote{
		{Value: true, Stake: 1},
		{Value: true, Stake: 1},
		{Value: false, Stake: 1},
	}

	outcome, indeterminate := svc.Resolve(q, participants, votes)
	if indeterminate {
		t.Fatal("2 vs 1 must not tie")
	}
	if !outcome {
		t.Fatal("outcome = false, want true")
	}
	if q.ResolvedOutcome == nil || !*q.ResolvedOutcome {
		t.Fatal("resolved outcome not recorded on the question")
	}
	if q.ResolvedCorrectly == nil || !*q.ResolvedCorrectly {
		t.Fatal("resolution matches ground truth but was not marked correct")
	}
}

func TestResolveTieIsIndeterminate(t *testing.T) {
	svc := newResolution(testParams())

	conf := 1.2
	a, b := domain.NewAgent(nil), domain.NewAgent(nil)
	q := &domain.Question{PrimaryContext: "Science", TrueOutcome: true}
	participants := []Participant{
		{Agent: a, Confidence: &conf},
		{Agent: b, Confidence: &conf},
	}
	votes := []domain.Vote{
		{Value: true, Confidence: &conf, Stake: 1},
		{Value: false, Confidence: &conf, Stake: 1},
	}

	_, indeterminate := svc.Resolve(q, participants, votes)
	if !indeterminate {
		t.Fatal("equal weighted sums must tie")
	}
	if !q.Indeterminate {
		t.Fatal("question not marked indeterminate")
	}
	if q.ResolvedOutcome != nil {
		t.Fatal("resolved outcome must be withheld on a tie")
	}
	// Ties must never corrupt agent history.
	if len(a.Ledger) != 0 || len(b.Ledger) != 0 {
		t.Fatal("reputation updated on an indeterminate resolution")
	}
}

func TestResolveUpdatesReputationAgainstResolution(t *testing.T) {
	params := testParams()
	params.UseReputation = false
	svc := newResolution(params)

	agree, dissent := domain.NewAgent(nil), domain.NewAgent(nil)
	third := domain.NewAgent(nil)
	// The resolution is wrong (truth is false), but reputation tracks
	// the resolved outcome regardless.
	q := &domain.Question{
		PrimaryContext:   "Science",
		SecondaryContext: []string{"Law"},
		TrueOutcome:      false,
	}
	participants := []Participant{{Agent: agree}, {Agent: third}, {Agent: dissent}}
	votes := []domain.Vote{
		{Value: true, Stake: 1},
		{Value: true, Stake: 1},
		{Value: false, Stake: 1},
	}

	outcome, indeterminate := svc.Resolve(q, participants, votes)
	if indeterminate || !outcome {
		t.Fatalf("outcome = %v, indeterminate = %v", outcome, indeterminate)
	}
	if q.ResolvedCorrectly == nil || *q.ResolvedCorrectly {
		t.Fatal("incorrect resolution not flagged")
	}

	for _, d := range []string{"Science", "Law"} {
		if rec := agree.Ledger[d]; rec.Total != 1 || rec.Correct != 1 {
			t.Fatalf("agreeing voter %s = %+v, want {1 1}", d, rec)
		}
		if rec := dissent.Ledger[d]; rec.Total != 1 || rec.Correct != -1 {
			t.Fatalf("dissenting voter %s = %+v, want {1 -1}", d, rec)
		}
	}
}

func TestResolveReputationWeightsOutvoteHeadCount(t *testing.T) {
	svc := newResolution(testParams())

	heavy := 2.4
	light := 1.0
	q := &domain.Question{PrimaryContext: "Science", TrueOutcome: true}
	participants := []Participant{
		{Agent: domain.NewAgent(nil), Confidence: &heavy},
		{Agent: domain.NewAgent(nil), Confidence: &light},
		{Agent: domain.NewAgent(nil), Confidence: &light},
	}
	votes := []domain.Vote{
		{Value: true, Confidence: &heavy, Stake: 1},
		{Value: false, Confidence: &light, Stake: 1},
		{Value: false, Confidence: &light, Stake: 1},
	}

	outcome, indeterminate := svc.Resolve(q, participants, votes)
	if indeterminate {
		t.Fatal("unexpected tie")
	}
	if !outcome {
		t.Fatal("one heavy voter (2.4) should outweigh two light voters (2.0)")
	}
}

func TestCollectVotesAlignsAtFullContention(t *testing.T) {
	params := testParams()
	params.UseReputation = false
	svc := newResolution(params)

	q := &domain.Question{PrimaryContext: "Science", Contention: 1.0, TrueOutcome: true}
	participants := []Participant{
		{Agent: domain.NewAgent(nil)},
		{Agent: domain.NewAgent(nil)},
	}

	votes := svc.CollectVotes(rand.New(rand.NewSource(1)), q, participants)
	for i, v := range votes {
		if v.Value != q.TrueOutcome {
			t.Fatalf("vote %d against the truth at contention 1.0", i)
		}
		if v.Confidence != nil {
			t.Fatal("confidence must be nil when reputation is disabled")
		}
		if v.Stake != 1 {
			t.Fatalf("stake = %g, want uniform 1", v.Stake)
		}
	}
	for i, p := range participants {
		if p.Agent.ParticipationCount != 1 {
			t.Fatalf("participant %d count = %d, want 1", i, p.Agent.ParticipationCount)
		}
	}
}

func TestCollectVotesExperienceBoostCapped(t *testing.T) {
	params := testParams()
	params.UseReputation = false
	params.ExperienceBoost = 0.1
	svc := newResolution(params)

	// 0.95 + 0.1 caps at 1.0, so an experienced agent always aligns.
	q := &domain.Question{PrimaryContext: "Science", Contention: 0.95, TrueOutcome: false}
	expert := domain.NewAgent([]string{"Science"})

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		votes := svc.CollectVotes(rng, q, []Participant{{Agent: expert}})
		if votes[0].Value != q.TrueOutcome {
			t.Fatalf("experienced agent misaligned at capped probability (iteration %d)", i)
		}
	}
}

func TestCollectVotesReusesSelectionConfidence(t *testing.T) {
	svc := newResolution(testParams())

	conf := 1.7
	q := &domain.Question{PrimaryContext: "Science", Contention: 1.0, TrueOutcome: true}
	votes := svc.CollectVotes(rand.New(rand.NewSource(3)), q, []Participant{
		{Agent: domain.NewAgent(nil), Confidence: &conf},
	})

	if votes[0].Confidence == nil || *votes[0].Confidence != conf {
		t.Fatal("vote does not carry the confidence precomputed at selection")
	}
	if votes[0].Weight() != conf {
		t.Fatalf("weight = %g, want confidence*stake = %g", votes[0].Weight(), conf)
	}
}
