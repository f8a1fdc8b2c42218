package domain

import "testing"

func TestStatsRecording(t *testing.T) {
	var s Stats
	s.RecordResolution(true, true)   // TP
	s.RecordResolution(true, false)  // FP
	s.RecordResolution(false, false) // TN
	s.RecordResolution(false, true)  // FN
	s.RecordAbort()
	s.RecordIndeterminate()

	if s.TotalQuestions != 6 {
		t.Fatalf("total = %d, want 6", s.TotalQuestions)
	}
	if s.Aborted != 1 || s.Indeterminate != 1 {
		t.Fatalf("aborted = %d, indeterminate = %d, want 1 each", s.Aborted, s.Indeterminate)
	}
	if s.TruePositives != 1 || s.FalsePositives != 1 || s.TrueNegatives != 1 || s.FalseNegatives != 1 {
		t.Fatalf("classification counts wrong: %+v", s)
	}
	if s.IncorrectlyResolved != 2 {
		t.Fatalf("incorrectly resolved = %d, want 2", s.IncorrectlyResolved)
	}
	if s.Resolved() != 4 {
		t.Fatalf("resolved = %d, want 4", s.Resolved())
	}
}

func TestStatsMetrics(t *testing.T) {
	s := Stats{TruePositives: 3, FalsePositives: 1, TrueNegatives: 4, FalseNegatives: 2}
	m := s.Metrics()

	if m.Accuracy != 0.7 {
		t.Errorf("accuracy = %g, want 0.7", m.Accuracy)
	}
	if m.Precision != 0.75 {
		t.Errorf("precision = %g, want 0.75", m.Precision)
	}
	if m.Recall != 0.6 {
		t.Errorf("recall = %g, want 0.6", m.Recall)
	}
}

func TestStatsMetricsZeroDenominators(t *testing.T) {
	var s Stats
	m := s.Metrics()
	if m.Accuracy != 0 || m.Precision != 0 || m.Recall != 0 {
		t.Fatalf("expected zero metrics for empty stats, got %+v", m)
	}
}
