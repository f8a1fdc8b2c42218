package service

import (
	"math/rand"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"go.uber.org/zap"
)

const (
	// contentionSpread is the standard deviation of the per-question
	// contention draw around the configured center.
	contentionSpread = 0.1
	// Contention always favors one side; exact 0.5 ties are ruled out
	// by construction.
	contentionMin = 0.51
	contentionMax = 1.0
)

// QuestionPool generates questions from the taxonomy and keeps the
// ordered, append-only history that becomes the run's event log.
type QuestionPool struct {
	taxonomy *domain.Taxonomy
	params   domain.Params
	rng      *rand.Rand
	logger   *zap.Logger

	history []*domain.Question
}

func NewQuestionPool(taxonomy *domain.Taxonomy, params domain.Params, rng *rand.Rand, logger *zap.Logger) *QuestionPool {
	return &QuestionPool{
		taxonomy: taxonomy,
		params:   params,
		rng:      rng,
		logger:   logger,
	}
}

// Generate draws one question: a uniform primary domain, secondary
// domains from the primary's sub-mapping (falling back to top-level
// keys when it is empty), a truncated-Gaussian contention, and an
// unbiased hidden true outcome. The question is appended to the
// history before being returned.
func (p *QuestionPool) Generate() *domain.Question {
	domains := p.taxonomy.Domains()
	primary := domains[p.rng.Intn(len(domains))]

	secondary := make([]string, 0, p.params.SecondaryContextCount)
	children := p.taxonomy.Children(primary)
	for i := 0; i < p.params.SecondaryContextCount; i++ {
		if len(children) > 0 {
			secondary = append(secondary, children[p.rng.Intn(len(children))])
		} else {
			secondary = append(secondary, domains[p.rng.Intn(len(domains))])
		}
	}

	q := &domain.Question{
		PrimaryContext:         primary,
		SecondaryContext:       secondary,
		Contention:             p.sampleContention(),
		TrueOutcome:            p.rng.Intn(2) == 0,
		ReqConfidenceThreshold: p.params.ConfidenceThreshold,
	}
	p.history = append(p.history, q)

	p.logger.Debug("generated question",
		zap.String("primary", q.PrimaryContext),
		zap.Strings("secondary", q.SecondaryContext),
		zap.Float64("contention", q.Contention))
	return q
}

func (p *QuestionPool) sampleContention() float64 {
	c := p.params.ContentionCenter + p.rng.NormFloat64()*contentionSpread
	if c < contentionMin {
		c = contentionMin
	}
	if c > contentionMax {
		c = contentionMax
	}
	return c
}

// History returns the questions in generation order. The slice is the
// pool's own backing store; callers must not reorder it.
func (p *QuestionPool) History() []*domain.Question {
	return p.history
}
