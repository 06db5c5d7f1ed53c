//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestListCategories(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	status, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/categories", baseURL), nil)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	categories, ok := body["categories"].([]interface{})
	if !ok || len(categories) == 0 {
		t.Fatalf("expected a non-empty category list, got %v", body["categories"])
	}
}

func TestListQuestionsPage(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	status, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/questions?page=1", baseURL), nil)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	questions := body["questions"].([]interface{})
	if len(questions) == 0 || len(questions) > 10 {
		t.Fatalf("expected 1..10 questions, got %d", len(questions))
	}
	if body["total_questions"].(float64) < float64(len(questions)) {
		t.Fatalf("total_questions %v smaller than page size %d", body["total_questions"], len(questions))
	}
	if body["current_category"] != float64(0) {
		t.Fatalf("expected current_category 0, got %v", body["current_category"])
	}
}

func TestQuestionLifecycle(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	id, text := createQuestion(t, baseURL, 1)

	status, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/questions/%d", baseURL, id), nil)
	if status != http.StatusOK {
		t.Fatalf("get created question: status %d", status)
	}
	got := body["question"].(map[string]interface{})
	if got["question"] != text {
		t.Fatalf("question text mismatch: %v", got["question"])
	}

	status, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/questions/searches", baseURL), map[string]interface{}{
		"searchTerm": strings.ToUpper(text[len("Integration question "):]),
	})
	if status != http.StatusOK {
		t.Fatalf("search: status %d", status)
	}
	if matches := body["questions"].([]interface{}); len(matches) != 1 {
		t.Fatalf("expected exactly one search match, got %d", len(matches))
	}

	deleteQuestion(t, baseURL, id)

	status, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/questions/%d", baseURL, id), nil)
	expectFailure(t, status, body, http.StatusNotFound, "question not found")

	status, body = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/questions/%d", baseURL, id), nil)
	expectFailure(t, status, body, http.StatusNotFound, "question not found")
}

func TestCategoryQuestions(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	id, _ := createQuestion(t, baseURL, 2)
	defer deleteQuestion(t, baseURL, id)

	status, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/categories/2/questions", baseURL), nil)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	if body["current_category"] != float64(2) {
		t.Fatalf("expected current_category 2, got %v", body["current_category"])
	}
	for _, raw := range body["questions"].([]interface{}) {
		if q := raw.(map[string]interface{}); q["category"] != float64(2) {
			t.Fatalf("question %v is not in category 2", q["id"])
		}
	}
}
