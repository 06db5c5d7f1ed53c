package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS categories (
  id   INTEGER PRIMARY KEY,
  type TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  question   TEXT NOT NULL,
  answer     TEXT NOT NULL,
  category   INTEGER NOT NULL,
  difficulty INTEGER NOT NULL CHECK (difficulty BETWEEN 1 AND 5)
);

CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category);
`

// SQLiteStore implements trivia.Store on database/sql with the modernc driver.
type SQLiteStore struct {
	db *sql.DB
}

var _ trivia.Store = (*SQLiteStore)(nil)

// OpenSQLite opens dsn, ensures the schema exists and seeds an empty database.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps in-memory databases shared.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQLite); err != nil {
		return fmt.Errorf("create sqlite schema: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, c := range SeedCategories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id, type) VALUES (?, ?)`, c.ID, c.Type); err != nil {
			return fmt.Errorf("seed category %d: %w", c.ID, err)
		}
	}
	for _, q := range SeedQuestions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (question, answer, category, difficulty) VALUES (?, ?, ?, ?)`,
			q.Question, q.Answer, q.Category, q.Difficulty); err != nil {
			return fmt.Errorf("seed question: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []trivia.Category{}
	for rows.Next() {
		var c trivia.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) GetCategory(ctx context.Context, id int) (trivia.Category, error) {
	var c trivia.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, type FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trivia.Category{}, trivia.ErrNotFound
		}
		return trivia.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]trivia.Question, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id int) (trivia.Question, error) {
	var q trivia.Question
	err := s.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trivia.Question{}, trivia.ErrNotFound
		}
		return trivia.Question{}, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *SQLiteStore) QuestionsByCategory(ctx context.Context, categoryID int) ([]trivia.Question, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE category = ? ORDER BY id`, categoryID)
}

func (s *SQLiteStore) SearchQuestions(ctx context.Context, term string) ([]trivia.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE instr(lower(question), lower(?)) > 0
		ORDER BY id
	`, term)
}

func (s *SQLiteStore) InsertQuestion(ctx context.Context, q trivia.Question) (trivia.Question, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (question, answer, category, difficulty) VALUES (?, ?, ?, ?)`,
		q.Question, q.Answer, q.Category, q.Difficulty)
	if err != nil {
		return trivia.Question{}, fmt.Errorf("insert question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return trivia.Question{}, fmt.Errorf("insert question id: %w", err)
	}
	q.ID = int(id)
	return q, nil
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if n == 0 {
		return trivia.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) queryQuestions(ctx context.Context, query string, args ...any) ([]trivia.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []trivia.Question{}
	for rows.Next() {
		var q trivia.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
