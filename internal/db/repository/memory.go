package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// MemoryStore is a process-local trivia.Store.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[int]trivia.Category
	questions  map[int]trivia.Question
	nextID     int
}

var _ trivia.Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store holding the given categories and questions.
// Question ids are reassigned in slice order.
func NewMemoryStore(categories []trivia.Category, questions []trivia.Question) *MemoryStore {
	s := &MemoryStore{
		categories: make(map[int]trivia.Category, len(categories)),
		questions:  make(map[int]trivia.Question, len(questions)),
		nextID:     1,
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	for _, q := range questions {
		q.ID = s.nextID
		s.questions[q.ID] = q
		s.nextID++
	}
	return s
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]trivia.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]trivia.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id int) (trivia.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return trivia.Category{}, trivia.ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) ListQuestions(_ context.Context) ([]trivia.Question, error) {
	return s.filter(func(trivia.Question) bool { return true }), nil
}

func (s *MemoryStore) GetQuestion(_ context.Context, id int) (trivia.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return trivia.Question{}, trivia.ErrNotFound
	}
	return q, nil
}

func (s *MemoryStore) QuestionsByCategory(_ context.Context, categoryID int) ([]trivia.Question, error) {
	return s.filter(func(q trivia.Question) bool { return q.Category == categoryID }), nil
}

func (s *MemoryStore) SearchQuestions(_ context.Context, term string) ([]trivia.Question, error) {
	needle := strings.ToLower(term)
	return s.filter(func(q trivia.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	}), nil
}

func (s *MemoryStore) InsertQuestion(_ context.Context, q trivia.Question) (trivia.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.nextID
	s.nextID++
	s.questions[q.ID] = q
	return q, nil
}

func (s *MemoryStore) DeleteQuestion(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return trivia.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *MemoryStore) filter(keep func(trivia.Question) bool) []trivia.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]trivia.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
