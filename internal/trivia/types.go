package trivia

import (
	"context"
	"errors"
)

// QuestionsPerPage is the fixed page size for every question listing.
const QuestionsPerPage = 10

// AllCategories is the quiz category sentinel meaning "no category filter".
const AllCategories = 0

// ErrNotFound is returned by a Store when the addressed row does not exist.
var ErrNotFound = errors.New("trivia: record not found")

// Question is the formatted payload delivered to clients.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Category is a read-only display grouping for questions.
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Store is the persistence capability consumed by the service. Every listing
// enumerates rows in ascending id order.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int) (Category, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	GetQuestion(ctx context.Context, id int) (Question, error)
	QuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error)
	// SearchQuestions matches term as a case-insensitive substring of the question text.
	SearchQuestions(ctx context.Context, term string) ([]Question, error)
	// InsertQuestion stores q and returns it with the assigned id.
	InsertQuestion(ctx context.Context, q Question) (Question, error)
	DeleteQuestion(ctx context.Context, id int) error
}

// QuestionPage is one page of a question listing plus the listing context.
type QuestionPage struct {
	Questions       []Question
	TotalQuestions  int
	Categories      []Category
	CurrentCategory int
}
