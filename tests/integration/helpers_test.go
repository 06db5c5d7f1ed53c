//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// doJSON sends payload (when non-nil) as JSON and decodes the response body
// into a generic map.
func doJSON(t *testing.T, method, url string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return resp.StatusCode, out
}

func expectFailure(t *testing.T, status int, body map[string]interface{}, wantStatus int, wantMessage string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("expected %d, got %d: %v", wantStatus, status, body)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if body["error"] != float64(wantStatus) {
		t.Fatalf("expected error=%d, got %v", wantStatus, body["error"])
	}
	if wantMessage != "" && body["message"] != wantMessage {
		t.Fatalf("expected message %q, got %v", wantMessage, body["message"])
	}
}

// createQuestion inserts a uniquely worded question and returns its id.
func createQuestion(t *testing.T, baseURL string, category int) (int, string) {
	t.Helper()

	text := fmt.Sprintf("Integration question %d?", time.Now().UnixNano())
	status, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/questions", baseURL), map[string]interface{}{
		"question":   text,
		"answer":     "integration",
		"difficulty": 2,
		"category":   category,
	})
	if status != http.StatusOK {
		t.Fatalf("create question: unexpected status %d: %v", status, body)
	}
	created, ok := body["created"].(float64)
	if !ok || created <= 0 {
		t.Fatalf("create question: bad created id %v", body["created"])
	}
	return int(created), text
}

func deleteQuestion(t *testing.T, baseURL string, id int) {
	t.Helper()
	status, body := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/questions/%d", baseURL, id), nil)
	if status != http.StatusOK {
		t.Fatalf("delete question %d: unexpected status %d: %v", id, status, body)
	}
}
