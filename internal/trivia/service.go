package trivia

import (
	"context"
	"errors"
	"fmt"
)

// ServiceOptions tunes the quiz selector; zero values use live randomness
// and no metrics.
type ServiceOptions struct {
	Picker  Picker
	Metrics *Metrics
}

// Service implements the trivia operations on top of a Store.
type Service struct {
	store     Store
	validator *Validator
	selector  *Selector
}

// NewService wires the validator and quiz selector over store.
func NewService(store Store, opts ServiceOptions) *Service {
	return &Service{
		store:     store,
		validator: NewValidator(store),
		selector:  NewSelector(store, opts.Picker, opts.Metrics),
	}
}

// Categories lists every category.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

// Questions returns one page of all questions. An empty page is NotFound.
func (s *Service) Questions(ctx context.Context, page int) (QuestionPage, error) {
	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("list questions: %w", err)
	}
	current := Paginate(all, page, QuestionsPerPage)
	if len(current) == 0 {
		return QuestionPage{}, notFound(MsgPageNotFound)
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return QuestionPage{}, err
	}
	return QuestionPage{
		Questions:       current,
		TotalQuestions:  len(all),
		Categories:      categories,
		CurrentCategory: AllCategories,
	}, nil
}

// Question fetches a single question by id.
func (s *Service) Question(ctx context.Context, id int) (Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Question{}, notFound(MsgQuestionNotFound)
		}
		return Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	return q, nil
}

// DeleteQuestion permanently removes an existing question.
func (s *Service) DeleteQuestion(ctx context.Context, id int) error {
	if _, err := s.Question(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(MsgQuestionNotFound)
		}
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

// CreateQuestion validates p and inserts the question. Nothing is written
// unless every check passes.
func (s *Service) CreateQuestion(ctx context.Context, p Payload) (Question, error) {
	nq, err := s.validator.NewQuestion(ctx, p)
	if err != nil {
		return Question{}, err
	}
	created, err := s.store.InsertQuestion(ctx, Question{
		Question:   nq.Question,
		Answer:     nq.Answer,
		Category:   nq.Category,
		Difficulty: nq.Difficulty,
	})
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	return created, nil
}

// SearchQuestions returns every question whose text contains the payload's
// searchTerm, ignoring case.
func (s *Service) SearchQuestions(ctx context.Context, p Payload) ([]Question, error) {
	term, err := s.validator.SearchTerm(p)
	if err != nil {
		return nil, err
	}
	matches, err := s.store.SearchQuestions(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	if matches == nil {
		matches = []Question{}
	}
	return matches, nil
}

// CategoryQuestions returns one page of a category's questions.
//
// A category without questions is reported as Unprocessable whether or not
// the category exists; no separate existence check is made. A non-empty
// category whose requested page is out of range is NotFound.
func (s *Service) CategoryQuestions(ctx context.Context, categoryID, page int) (QuestionPage, error) {
	matches, err := s.store.QuestionsByCategory(ctx, categoryID)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("list questions for category %d: %w", categoryID, err)
	}
	if len(matches) == 0 {
		return QuestionPage{}, unprocessable(MsgCategoryNotFound)
	}
	current := Paginate(matches, page, QuestionsPerPage)
	if len(current) == 0 {
		return QuestionPage{}, notFound(MsgPageNotFound)
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return QuestionPage{}, err
	}
	return QuestionPage{
		Questions:       current,
		TotalQuestions:  len(matches),
		Categories:      categories,
		CurrentCategory: categoryID,
	}, nil
}

// NextQuizQuestion validates a quiz request and draws the next question.
// A nil question with a nil error means the quiz is over.
func (s *Service) NextQuizQuestion(ctx context.Context, p Payload) (*Question, error) {
	req, err := s.validator.QuizRequest(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.selector.Next(ctx, req.CategoryID, req.PreviousQuestions)
}
