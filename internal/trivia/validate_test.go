package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCategories struct {
	known  map[int]bool
	err    error
	lookup int
}

func (s *stubCategories) GetCategory(_ context.Context, id int) (Category, error) {
	s.lookup++
	if s.err != nil {
		return Category{}, s.err
	}
	if !s.known[id] {
		return Category{}, ErrNotFound
	}
	return Category{ID: id, Type: "Science"}, nil
}

func payload(t *testing.T, raw string) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func assertInvalid(t *testing.T, err error, msg string) {
	t.Helper()
	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, KindInvalidRequest, te.Kind)
	assert.Equal(t, msg, te.Message)
}

func TestValidatorNewQuestion(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantMsg string
		lookups int
	}{
		{"missing answer", `{"question":"q","difficulty":1,"category":1}`, MsgFieldsRequired, 0},
		{"empty object", `{}`, MsgFieldsRequired, 0},
		{"non numeric difficulty", `{"question":"q","answer":"a","difficulty":"hard","category":1}`, MsgNotNumeric, 0},
		{"non numeric category", `{"question":"q","answer":"a","difficulty":1,"category":"science"}`, MsgNotNumeric, 0},
		{"null difficulty", `{"question":"q","answer":"a","difficulty":null,"category":1}`, MsgNotNumeric, 0},
		{"fractional difficulty", `{"question":"q","answer":"a","difficulty":2.5,"category":1}`, MsgNotNumeric, 0},
		{"difficulty too high", `{"question":"q","answer":"a","difficulty":6,"category":1}`, MsgDifficultyRange, 0},
		{"difficulty zero", `{"question":"q","answer":"a","difficulty":"0","category":1}`, MsgDifficultyRange, 0},
		{"range checked before category", `{"question":"q","answer":"a","difficulty":9,"category":999}`, MsgDifficultyRange, 0},
		{"blank question", `{"question":"  ","answer":"a","difficulty":3,"category":1}`, MsgTextRequired, 0},
		{"numeric answer", `{"question":"q","answer":5,"difficulty":3,"category":1}`, MsgTextRequired, 0},
		{"unknown category", `{"question":"q","answer":"a","difficulty":3,"category":999}`, MsgCategoryMissing, 1},
		{"large category literal", `{"question":"q","answer":"a","difficulty":3,"category":3000000000}`, MsgCategoryMissing, 1},
		{"large category exponent", `{"question":"q","answer":"a","difficulty":3,"category":3e9}`, MsgCategoryMissing, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cats := &stubCategories{known: map[int]bool{1: true}}
			v := NewValidator(cats)

			_, err := v.NewQuestion(context.Background(), payload(t, tc.body))
			assertInvalid(t, err, tc.wantMsg)
			assert.Equal(t, tc.lookups, cats.lookup)
		})
	}
}

func TestValidatorNewQuestionAcceptsCoercibleValues(t *testing.T) {
	v := NewValidator(&stubCategories{known: map[int]bool{2: true}})

	nq, err := v.NewQuestion(context.Background(), payload(t, `{"question":" Who? ","answer":"Me","difficulty":"3","category":2.0}`))
	require.NoError(t, err)
	assert.Equal(t, NewQuestion{Question: "Who?", Answer: "Me", Category: 2, Difficulty: 3}, nq)
}

func TestValidatorNewQuestionLookupFailure(t *testing.T) {
	v := NewValidator(&stubCategories{err: errors.New("connection refused")})

	_, err := v.NewQuestion(context.Background(), payload(t, `{"question":"q","answer":"a","difficulty":3,"category":1}`))
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestValidatorQuizRequest(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing previous", `{"quiz_category":{"id":1}}`, MsgQuizFieldsRequired},
		{"missing category", `{"previous_questions":[]}`, MsgQuizFieldsRequired},
		{"null category", `{"previous_questions":[],"quiz_category":null}`, MsgQuizFieldsRequired},
		{"category without id", `{"previous_questions":[],"quiz_category":{"type":"Science"}}`, MsgQuizFieldsRequired},
		{"category not object", `{"previous_questions":[],"quiz_category":3}`, MsgQuizFieldsRequired},
		{"non numeric id", `{"previous_questions":[],"quiz_category":{"id":"x"}}`, MsgQuizCategoryID},
		{"previous not list", `{"previous_questions":"1,2","quiz_category":{"id":0}}`, MsgPreviousQuestions},
		{"previous bad id", `{"previous_questions":[1,"two"],"quiz_category":{"id":0}}`, MsgPreviousQuestions},
		{"unknown category", `{"previous_questions":[],"quiz_category":{"id":42}}`, MsgCategoryMissing},
		{"large category", `{"previous_questions":[],"quiz_category":{"id":3000000000}}`, MsgCategoryMissing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewValidator(&stubCategories{known: map[int]bool{1: true}})
			_, err := v.QuizRequest(context.Background(), payload(t, tc.body))
			assertInvalid(t, err, tc.wantMsg)
		})
	}
}

func TestValidatorQuizRequestAllCategoriesSkipsLookup(t *testing.T) {
	cats := &stubCategories{}
	v := NewValidator(cats)

	req, err := v.QuizRequest(context.Background(), payload(t, `{"previous_questions":[3,"4"],"quiz_category":{"type":"click","id":"0"}}`))
	require.NoError(t, err)
	assert.Equal(t, QuizRequest{PreviousQuestions: []int{3, 4}, CategoryID: AllCategories}, req)
	assert.Zero(t, cats.lookup)
}

func TestValidatorSearchTerm(t *testing.T) {
	v := NewValidator(&stubCategories{})

	_, err := v.SearchTerm(payload(t, `{"term":"movie"}`))
	assertInvalid(t, err, MsgSearchTermMissing)

	_, err = v.SearchTerm(payload(t, `{"searchTerm":12}`))
	assertInvalid(t, err, MsgSearchTermType)

	_, err = v.SearchTerm(payload(t, `{"searchTerm":null}`))
	assertInvalid(t, err, MsgSearchTermType)

	term, err := v.SearchTerm(payload(t, `{"searchTerm":""}`))
	require.NoError(t, err)
	assert.Equal(t, "", term)

	term, err = v.SearchTerm(payload(t, `{"searchTerm":"Movie"}`))
	require.NoError(t, err)
	assert.Equal(t, "Movie", term)
}

func TestKindStatus(t *testing.T) {
	assert.Equal(t, 400, KindInvalidRequest.Status())
	assert.Equal(t, 404, KindNotFound.Status())
	assert.Equal(t, 422, KindUnprocessable.Status())
	assert.Equal(t, 500, KindInternal.Status())
}

func TestNewQuestionStructChecksOnlyText(t *testing.T) {
	v := NewValidator(&stubCategories{})

	assert.NoError(t, v.validate.Struct(NewQuestion{Question: "q", Answer: "a"}), "range is checked before the struct")
	assert.Error(t, v.validate.Struct(NewQuestion{Question: "q", Difficulty: 3}))
}
