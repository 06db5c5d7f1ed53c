package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// RedisStore implements trivia.Store on Redis.
//
// Layout under prefix p:
//
//	p:categories          hash  id -> type
//	p:questions           zset  question ids scored by id
//	p:category:<id>       zset  question ids of one category
//	p:question:<id>       hash  question, answer, category, difficulty
//	p:question_seq        counter for new question ids
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ trivia.Store = (*RedisStore)(nil)

// NewRedisStore wraps client. An empty prefix defaults to "trivia".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "trivia"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

// Ping verifies Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Seed installs the default categories and questions when no category exists.
func (s *RedisStore) Seed(ctx context.Context) error {
	n, err := s.client.HLen(ctx, s.key("categories")).Result()
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(SeedCategories))
	for _, c := range SeedCategories {
		fields[strconv.Itoa(c.ID)] = c.Type
	}
	if err := s.client.HSet(ctx, s.key("categories"), fields).Err(); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	for _, q := range SeedQuestions {
		if _, err := s.InsertQuestion(ctx, q); err != nil {
			return fmt.Errorf("seed question: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	all, err := s.client.HGetAll(ctx, s.key("categories")).Result()
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	categories := make([]trivia.Category, 0, len(all))
	for rawID, typ := range all {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			return nil, fmt.Errorf("category id %q: %w", rawID, err)
		}
		categories = append(categories, trivia.Category{ID: id, Type: typ})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (s *RedisStore) GetCategory(ctx context.Context, id int) (trivia.Category, error) {
	typ, err := s.client.HGet(ctx, s.key("categories"), strconv.Itoa(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return trivia.Category{}, trivia.ErrNotFound
		}
		return trivia.Category{}, fmt.Errorf("get category: %w", err)
	}
	return trivia.Category{ID: id, Type: typ}, nil
}

func (s *RedisStore) ListQuestions(ctx context.Context) ([]trivia.Question, error) {
	return s.questionsIn(ctx, s.key("questions"))
}

func (s *RedisStore) GetQuestion(ctx context.Context, id int) (trivia.Question, error) {
	fields, err := s.client.HGetAll(ctx, s.key("question", strconv.Itoa(id))).Result()
	if err != nil {
		return trivia.Question{}, fmt.Errorf("get question: %w", err)
	}
	if len(fields) == 0 {
		return trivia.Question{}, trivia.ErrNotFound
	}
	return decodeQuestion(id, fields)
}

func (s *RedisStore) QuestionsByCategory(ctx context.Context, categoryID int) ([]trivia.Question, error) {
	return s.questionsIn(ctx, s.key("category", strconv.Itoa(categoryID)))
}

func (s *RedisStore) SearchQuestions(ctx context.Context, term string) ([]trivia.Question, error) {
	all, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	matches := make([]trivia.Question, 0, len(all))
	for _, q := range all {
		if strings.Contains(strings.ToLower(q.Question), needle) {
			matches = append(matches, q)
		}
	}
	return matches, nil
}

func (s *RedisStore) InsertQuestion(ctx context.Context, q trivia.Question) (trivia.Question, error) {
	id, err := s.client.Incr(ctx, s.key("question_seq")).Result()
	if err != nil {
		return trivia.Question{}, fmt.Errorf("allocate question id: %w", err)
	}
	q.ID = int(id)
	member := redis.Z{Score: float64(id), Member: strconv.Itoa(q.ID)}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key("question", strconv.Itoa(q.ID)),
			"question", q.Question,
			"answer", q.Answer,
			"category", q.Category,
			"difficulty", q.Difficulty,
		)
		pipe.ZAdd(ctx, s.key("questions"), member)
		pipe.ZAdd(ctx, s.key("category", strconv.Itoa(q.Category)), member)
		return nil
	})
	if err != nil {
		return trivia.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (s *RedisStore) DeleteQuestion(ctx context.Context, id int) error {
	member := strconv.Itoa(id)
	category, err := s.client.HGet(ctx, s.key("question", member), "category").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return trivia.ErrNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key("question", member))
		pipe.ZRem(ctx, s.key("questions"), member)
		pipe.ZRem(ctx, s.key("category", category), member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

func (s *RedisStore) questionsIn(ctx context.Context, setKey string) ([]trivia.Question, error) {
	members, err := s.client.ZRange(ctx, setKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list question ids: %w", err)
	}
	if len(members) == 0 {
		return []trivia.Question{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(members))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, m := range members {
			cmds[i] = pipe.HGetAll(ctx, s.key("question", m))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	questions := make([]trivia.Question, 0, len(members))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		id, err := strconv.Atoi(members[i])
		if err != nil {
			return nil, fmt.Errorf("question id %q: %w", members[i], err)
		}
		q, err := decodeQuestion(id, fields)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func decodeQuestion(id int, fields map[string]string) (trivia.Question, error) {
	category, err := strconv.Atoi(fields["category"])
	if err != nil {
		return trivia.Question{}, fmt.Errorf("question %d category: %w", id, err)
	}
	difficulty, err := strconv.Atoi(fields["difficulty"])
	if err != nil {
		return trivia.Question{}, fmt.Errorf("question %d difficulty: %w", id, err)
	}
	return trivia.Question{
		ID:         id,
		Question:   fields["question"],
		Answer:     fields["answer"],
		Category:   category,
		Difficulty: difficulty,
	}, nil
}
