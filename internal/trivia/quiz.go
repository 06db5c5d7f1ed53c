package trivia

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/prometheus/client_golang/prometheus"
)

// Picker returns an index in [0, n). It is only called with n > 0.
type Picker func(n int) int

type poolSource interface {
	ListQuestions(ctx context.Context) ([]Question, error)
	QuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error)
}

// Metrics holds the domain counters exported on /metrics.
type Metrics struct {
	QuizDraws *prometheus.CounterVec
}

// NewMetrics creates and registers the domain counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QuizDraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "quiz_draws_total",
			Help:      "Quiz question draws by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.QuizDraws)
	}
	return m
}

// Selector draws quiz questions without repeating the caller's previous ones.
// It keeps no state between calls.
type Selector struct {
	store   poolSource
	pick    Picker
	metrics *Metrics
}

// NewSelector builds a Selector; a nil pick uses math/rand/v2.
func NewSelector(store poolSource, pick Picker, metrics *Metrics) *Selector {
	if pick == nil {
		pick = rand.IntN
	}
	return &Selector{store: store, pick: pick, metrics: metrics}
}

// Next returns a uniformly random question from the eligible pool, or nil
// when every candidate has already been seen.
func (s *Selector) Next(ctx context.Context, categoryID int, previous []int) (*Question, error) {
	var (
		candidates []Question
		err        error
	)
	if categoryID == AllCategories {
		candidates, err = s.store.ListQuestions(ctx)
	} else {
		candidates, err = s.store.QuestionsByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz candidates: %w", err)
	}

	pool := Pool(candidates, previous)
	if len(pool) == 0 {
		s.observe("exhausted")
		return nil, nil
	}

	q := pool[s.pick(len(pool))]
	s.observe("question")
	return &q, nil
}

func (s *Selector) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.QuizDraws.WithLabelValues(outcome).Inc()
	}
}

// Pool removes every candidate whose id is in previous, keeping order.
func Pool(candidates []Question, previous []int) []Question {
	seen := make(map[int]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}
	pool := make([]Question, 0, len(candidates))
	for _, q := range candidates {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		pool = append(pool, q)
	}
	return pool
}
