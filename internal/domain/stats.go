package domain

// Stats holds the running aggregate counters for one run. Aborted and
// indeterminate questions are tracked separately and excluded from the
// correctness classification counts.
type Stats struct {
	TotalQuestions      int `json:"total_questions"`
	Aborted             int `json:"aborted"`
	Indeterminate       int `json:"indeterminate"`
	IncorrectlyResolved int `json:"incorrectly_resolved"`

	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// RecordAbort counts a question whose quorum could not be met.
func (s *Stats) RecordAbort() {
	s.TotalQuestions++
	s.Aborted++
}

// RecordIndeterminate counts a question whose weighted sums tied.
func (s *Stats) RecordIndeterminate() {
	s.TotalQuestions++
	s.Indeterminate++
}

// RecordResolution classifies a completed resolution against the
// hidden ground truth.
func (s *Stats) RecordResolution(resolved, truth bool) {
	s.TotalQuestions++
	switch {
	case resolved && truth:
		s.TruePositives++
	case resolved && !truth:
		s.FalsePositives++
	case !resolved && !truth:
		s.TrueNegatives++
	default:
		s.FalseNegatives++
	}
	if resolved != truth {
		s.IncorrectlyResolved++
	}
}

// Resolved is the number of questions that completed with a definite
// outcome.
func (s Stats) Resolved() int {
	return s.TruePositives + s.FalsePositives + s.TrueNegatives + s.FalseNegatives
}

// Metrics are the derived quality measures over resolved questions.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

// Metrics derives accuracy, precision and recall from the
// classification counts. A zero denominator yields zero.
func (s Stats) Metrics() Metrics {
	var m Metrics
	if resolved := s.Resolved(); resolved > 0 {
		m.Accuracy = float64(s.TruePositives+s.TrueNegatives) / float64(resolved)
	}
	if positive := s.TruePositives + s.FalsePositives; positive > 0 {
		m.Precision = float64(s.TruePositives) / float64(positive)
	}
	if actual := s.TruePositives + s.FalseNegatives; actual > 0 {
		m.Recall = float64(s.TruePositives) / float64(actual)
	}
	return m
}
