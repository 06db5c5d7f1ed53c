package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// pgxQuerier is the subset of *pgxpool.Pool used by PostgresStore.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const questionColumns = `id, question, answer, category, difficulty`

// fitsInt4 reports whether id fits the SERIAL/INTEGER id columns; no row can
// carry an id outside that range.
func fitsInt4(id int) bool {
	return id >= math.MinInt32 && id <= math.MaxInt32
}

// PostgresStore implements trivia.Store on a pgx connection pool.
type PostgresStore struct {
	db pgxQuerier
}

var _ trivia.Store = (*PostgresStore)(nil)

// NewPostgresStore wraps a pool (or any pgx querier) as a trivia store.
func NewPostgresStore(db pgxQuerier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[trivia.Category])
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int) (trivia.Category, error) {
	if !fitsInt4(id) {
		return trivia.Category{}, trivia.ErrNotFound
	}
	var c trivia.Category
	err := s.db.QueryRow(ctx, `SELECT id, type FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trivia.Category{}, trivia.ErrNotFound
		}
		return trivia.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListQuestions(ctx context.Context) ([]trivia.Question, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

func (s *PostgresStore) GetQuestion(ctx context.Context, id int) (trivia.Question, error) {
	if !fitsInt4(id) {
		return trivia.Question{}, trivia.ErrNotFound
	}
	var q trivia.Question
	err := s.db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trivia.Question{}, trivia.ErrNotFound
		}
		return trivia.Question{}, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *PostgresStore) QuestionsByCategory(ctx context.Context, categoryID int) ([]trivia.Question, error) {
	if !fitsInt4(categoryID) {
		return []trivia.Question{}, nil
	}
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE category = $1 ORDER BY id`, categoryID)
}

func (s *PostgresStore) SearchQuestions(ctx context.Context, term string) ([]trivia.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE strpos(lower(question), lower($1)) > 0
		ORDER BY id
	`, term)
}

func (s *PostgresStore) InsertQuestion(ctx context.Context, q trivia.Question) (trivia.Question, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, q.Question, q.Answer, q.Category, q.Difficulty).Scan(&q.ID)
	if err != nil {
		return trivia.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (s *PostgresStore) DeleteQuestion(ctx context.Context, id int) error {
	if !fitsInt4(id) {
		return trivia.ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return trivia.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) queryQuestions(ctx context.Context, sql string, args ...any) ([]trivia.Question, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	questions, err := pgx.CollectRows(rows, pgx.RowToStructByPos[trivia.Question])
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return questions, nil
}
