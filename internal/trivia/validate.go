package trivia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Payload is a decoded JSON request object. Field values stay raw so that
// presence can be checked separately from type coercion.
type Payload map[string]json.RawMessage

// Has reports whether key is present, regardless of its value.
func (p Payload) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := p[k]; !ok {
			return false
		}
	}
	return true
}

// NewQuestion is a question creation request that passed validation.
type NewQuestion struct {
	Question   string `validate:"required"`
	Answer     string `validate:"required"`
	Category   int
	Difficulty int
}

// QuizRequest is a validated quiz play request.
type QuizRequest struct {
	PreviousQuestions []int
	CategoryID        int
}

type categoryLookup interface {
	GetCategory(ctx context.Context, id int) (Category, error)
}

// Validator runs the request validation pipelines. Each pipeline is ordered
// and stops at the first failure.
type Validator struct {
	categories categoryLookup
	validate   *validator.Validate
}

// NewValidator builds a Validator that resolves categories through categories.
func NewValidator(categories categoryLookup) *Validator {
	return &Validator{
		categories: categories,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// NewQuestion validates a question creation payload: presence, numeric
// coercion, difficulty range, non-empty text, then category existence.
func (v *Validator) NewQuestion(ctx context.Context, p Payload) (NewQuestion, error) {
	if !p.Has("question", "answer", "difficulty", "category") {
		return NewQuestion{}, invalidRequest(MsgFieldsRequired)
	}

	difficulty, okDiff := coerceInt(p["difficulty"])
	category, okCat := coerceInt(p["category"])
	if !okDiff || !okCat {
		return NewQuestion{}, invalidRequest(MsgNotNumeric)
	}

	if err := v.validate.Var(difficulty, "min=1,max=5"); err != nil {
		return NewQuestion{}, invalidRequest(MsgDifficultyRange)
	}

	nq := NewQuestion{
		Question:   decodeText(p["question"]),
		Answer:     decodeText(p["answer"]),
		Category:   category,
		Difficulty: difficulty,
	}
	if err := v.validate.Struct(nq); err != nil {
		return NewQuestion{}, invalidRequest(MsgTextRequired)
	}

	if err := v.categoryExists(ctx, category); err != nil {
		return NewQuestion{}, err
	}
	return nq, nil
}

// QuizRequest validates a quiz play payload. Category 0 selects every
// category and is never looked up.
func (v *Validator) QuizRequest(ctx context.Context, p Payload) (QuizRequest, error) {
	if isNull(p["previous_questions"]) || isNull(p["quiz_category"]) {
		return QuizRequest{}, invalidRequest(MsgQuizFieldsRequired)
	}

	var quizCategory map[string]json.RawMessage
	if err := json.Unmarshal(p["quiz_category"], &quizCategory); err != nil || isNull(quizCategory["id"]) {
		return QuizRequest{}, invalidRequest(MsgQuizFieldsRequired)
	}
	categoryID, ok := coerceInt(quizCategory["id"])
	if !ok {
		return QuizRequest{}, invalidRequest(MsgQuizCategoryID)
	}

	var rawPrevious []json.RawMessage
	if err := json.Unmarshal(p["previous_questions"], &rawPrevious); err != nil {
		return QuizRequest{}, invalidRequest(MsgPreviousQuestions)
	}
	previous := make([]int, 0, len(rawPrevious))
	for _, raw := range rawPrevious {
		id, ok := coerceInt(raw)
		if !ok {
			return QuizRequest{}, invalidRequest(MsgPreviousQuestions)
		}
		previous = append(previous, id)
	}

	if categoryID != AllCategories {
		if err := v.categoryExists(ctx, categoryID); err != nil {
			return QuizRequest{}, err
		}
	}
	return QuizRequest{PreviousQuestions: previous, CategoryID: categoryID}, nil
}

// SearchTerm extracts the searchTerm field. An empty term is valid.
func (v *Validator) SearchTerm(p Payload) (string, error) {
	if !p.Has("searchTerm") {
		return "", invalidRequest(MsgSearchTermMissing)
	}
	var term string
	if err := json.Unmarshal(p["searchTerm"], &term); err != nil || isNull(p["searchTerm"]) {
		return "", invalidRequest(MsgSearchTermType)
	}
	return term, nil
}

func (v *Validator) categoryExists(ctx context.Context, id int) error {
	if _, err := v.categories.GetCategory(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalidRequest(MsgCategoryMissing)
		}
		return fmt.Errorf("lookup category %d: %w", id, err)
	}
	return nil
}

// coerceInt accepts integral JSON numbers and numeric strings.
func coerceInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := strconv.Atoi(t.String()); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int(f), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func decodeText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
