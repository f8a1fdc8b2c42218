package domain

import "testing"

func TestAgentRecordRoundTrip(t *testing.T) {
	a := NewAgent([]string{"Science", "Law"})
	a.Ledger["Science"] = ReputationRecord{Total: 4, Correct: 2}
	a.Ledger["History"] = ReputationRecord{Total: 1, Correct: -1}
	a.ParticipationCount = 5

	restored := AgentFromRecord(a.Record())

	if restored.ParticipationCount != 5 {
		t.Fatalf("participation = %d, want 5", restored.ParticipationCount)
	}
	if len(restored.KnowledgeDomains) != 2 || restored.KnowledgeDomains[0] != "Science" {
		t.Fatalf("knowledge domains = %v", restored.KnowledgeDomains)
	}
	if restored.Ledger["History"] != (ReputationRecord{Total: 1, Correct: -1}) {
		t.Fatalf("ledger entry = %+v", restored.Ledger["History"])
	}
}

func TestAgentRecordCopiesLedger(t *testing.T) {
	a := NewAgent(nil)
	a.Ledger["Science"] = ReputationRecord{Total: 1, Correct: 1}

	rec := a.Record()
	a.Ledger["Science"] = ReputationRecord{Total: 9, Correct: 9}

	if rec.ReputationLedger["Science"].Total != 1 {
		t.Fatal("record shares ledger storage with the live agent")
	}
}

func TestExpertiseVector(t *testing.T) {
	a := NewAgent(nil)
	a.Ledger["a"] = ReputationRecord{Total: 6, Correct: 5}
	a.Ledger["b"] = ReputationRecord{Total: 3, Correct: -2}

	vec := a.ExpertiseVector([]string{"a", "b", "c"})
	want := []float32{5, 0, 0}
	for i := range want {
		if vec[i] != want[i] {
			t.Fatalf("vec = %v, want %v", vec, want)
		}
	}
}

func TestQuestionRecordRoundTrip(t *testing.T) {
	used := 7
	outcome := true
	correct := false
	q := &Question{
		PrimaryContext:         "Science",
		SecondaryContext:       []string{"Law", "Science"},
		Contention:             0.83,
		TrueOutcome:            false,
		ReqConfidenceThreshold: 31,
		PartiesUsed:            &used,
		ResolvedOutcome:        &outcome,
		ResolvedCorrectly:      &correct,
	}

	restored := QuestionFromRecord(q.Record())
	if restored.PrimaryContext != "Science" || restored.Contention != 0.83 {
		t.Fatalf("restored = %+v", restored)
	}
	if restored.PartiesUsed == nil || *restored.PartiesUsed != 7 {
		t.Fatal("parties used not preserved")
	}
	if restored.ResolvedOutcome == nil || !*restored.ResolvedOutcome {
		t.Fatal("resolved outcome not preserved")
	}
	got := restored.AllContext()
	if len(got) != 3 || got[0] != "Science" || got[1] != "Law" {
		t.Fatalf("context = %v", got)
	}
}
