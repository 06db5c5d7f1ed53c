package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Source yields remote questions for a request.
type Source interface {
	Fetch(ctx context.Context, r Request) ([]RemoteQuestion, error)
}

// DefaultCategoryMap maps the seeded local categories to Open Trivia DB
// category ids.
var DefaultCategoryMap = map[int]int{
	1: 17, // Science & Nature
	2: 25, // Art
	3: 22, // Geography
	4: 23, // History
	5: 11, // Entertainment: Film
	6: 21, // Sports
}

var difficultyScale = map[string]int{
	"easy":   1,
	"medium": 3,
	"hard":   5,
}

// ErrUnmappedCategory means the local category has no remote counterpart.
var ErrUnmappedCategory = errors.New("category has no opentdb mapping")

// Result summarizes one import run.
type Result struct {
	Fetched  int
	Inserted []int
	Skipped  int
}

// Importer copies remote questions into a trivia store.
type Importer struct {
	source     Source
	store      trivia.Store
	categories map[int]int
	logger     zerolog.Logger
}

// New builds an importer. A nil categories map uses DefaultCategoryMap.
func New(source Source, store trivia.Store, categories map[int]int, logger zerolog.Logger) *Importer {
	if categories == nil {
		categories = DefaultCategoryMap
	}
	return &Importer{
		source:     source,
		store:      store,
		categories: categories,
		logger:     logger.With().Str("component", "importer").Logger(),
	}
}

// Import fetches up to amount questions for the local categoryID and inserts
// the ones not already stored. difficulty is easy, medium, hard or empty.
func (im *Importer) Import(ctx context.Context, categoryID, amount int, difficulty string) (Result, error) {
	if amount < 1 || amount > MaxAmount {
		return Result{}, fmt.Errorf("amount must be between 1 and %d", MaxAmount)
	}
	if _, ok := difficultyScale[difficulty]; difficulty != "" && !ok {
		return Result{}, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if _, err := im.store.GetCategory(ctx, categoryID); err != nil {
		return Result{}, fmt.Errorf("category %d: %w", categoryID, err)
	}
	remoteID, ok := im.categories[categoryID]
	if !ok {
		return Result{}, fmt.Errorf("category %d: %w", categoryID, ErrUnmappedCategory)
	}

	remote, err := im.source.Fetch(ctx, Request{Amount: amount, Category: remoteID, Difficulty: difficulty})
	if err != nil {
		return Result{}, err
	}

	res := Result{Fetched: len(remote), Inserted: []int{}}
	for _, rq := range remote {
		q, ok := toQuestion(rq, categoryID)
		if !ok {
			im.logger.Warn().Str("question", rq.Question).Str("difficulty", rq.Difficulty).Msg("skipping malformed remote question")
			res.Skipped++
			continue
		}
		dup, err := im.exists(ctx, q.Question)
		if err != nil {
			return res, err
		}
		if dup {
			res.Skipped++
			continue
		}
		created, err := im.store.InsertQuestion(ctx, q)
		if err != nil {
			return res, fmt.Errorf("insert imported question: %w", err)
		}
		res.Inserted = append(res.Inserted, created.ID)
	}

	im.logger.Info().
		Int("category", categoryID).
		Int("fetched", res.Fetched).
		Int("inserted", len(res.Inserted)).
		Int("skipped", res.Skipped).
		Msg("import finished")
	return res, nil
}

func (im *Importer) exists(ctx context.Context, text string) (bool, error) {
	matches, err := im.store.SearchQuestions(ctx, text)
	if err != nil {
		return false, fmt.Errorf("check duplicate: %w", err)
	}
	for _, m := range matches {
		if strings.EqualFold(strings.TrimSpace(m.Question), text) {
			return true, nil
		}
	}
	return false, nil
}

func toQuestion(rq RemoteQuestion, categoryID int) (trivia.Question, bool) {
	text := strings.TrimSpace(rq.Question)
	answer := strings.TrimSpace(rq.Answer)
	difficulty, ok := difficultyScale[rq.Difficulty]
	if text == "" || answer == "" || !ok {
		return trivia.Question{}, false
	}
	return trivia.Question{
		Question:   text,
		Answer:     answer,
		Category:   categoryID,
		Difficulty: difficulty,
	}, true
}
