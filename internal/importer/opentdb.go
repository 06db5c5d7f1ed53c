package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxAmount is the largest batch Open Trivia DB serves per call.
const MaxAmount = 50

// Open Trivia DB response codes.
const (
	codeSuccess     = 0
	codeNoResults   = 1
	codeInvalid     = 2
	codeRateLimited = 5
)

var (
	// ErrNoResults means the source has fewer questions than requested.
	ErrNoResults = errors.New("opentdb: not enough questions for query")
	// ErrRateLimited means the caller must wait before the next request.
	ErrRateLimited = errors.New("opentdb: rate limited")
)

// Request selects a batch of remote questions.
type Request struct {
	Amount     int
	Category   int
	Difficulty string
}

// RemoteQuestion is one decoded Open Trivia DB result.
type RemoteQuestion struct {
	Category   string
	Difficulty string
	Question   string
	Answer     string
}

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, timeout time.Duration) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OpenTDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type openTDBQuestion struct {
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []openTDBQuestion `json:"results"`
}

// Fetch requests one batch. Text fields are requested RFC 3986 encoded and
// returned decoded.
func (c *OpenTDBClient) Fetch(ctx context.Context, r Request) ([]RemoteQuestion, error) {
	values := url.Values{}
	values.Set("amount", strconv.Itoa(r.Amount))
	values.Set("encode", "url3986")
	if r.Category > 0 {
		values.Set("category", strconv.Itoa(r.Category))
	}
	if r.Difficulty != "" {
		values.Set("difficulty", r.Difficulty)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opentdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode opentdb response: %w", err)
	}
	switch payload.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		return nil, ErrNoResults
	case codeRateLimited:
		return nil, ErrRateLimited
	case codeInvalid:
		return nil, fmt.Errorf("opentdb rejected parameters %s", values.Encode())
	default:
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}

	out := make([]RemoteQuestion, 0, len(payload.Results))
	for _, q := range payload.Results {
		decoded, err := decode(q)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

func decode(q openTDBQuestion) (RemoteQuestion, error) {
	fields := []*string{&q.Category, &q.Difficulty, &q.Question, &q.CorrectAnswer}
	for _, f := range fields {
		v, err := url.PathUnescape(*f)
		if err != nil {
			return RemoteQuestion{}, fmt.Errorf("decode opentdb field %q: %w", *f, err)
		}
		*f = v
	}
	return RemoteQuestion{
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Question:   q.Question,
		Answer:     q.CorrectAnswer,
	}, nil
}
