package importer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

func enc(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func remoteResult(question, answer, difficulty string) string {
	return fmt.Sprintf(`{"type":"multiple","difficulty":%q,"category":%q,"question":%q,"correct_answer":%q,"incorrect_answers":[]}`,
		enc(difficulty), enc("Science & Nature"), enc(question), enc(answer))
}

func newOpenTDB(t *testing.T, code int, results ...string) (*OpenTDBClient, *url.Values) {
	t.Helper()
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		assert.Equal(t, "/api.php", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"response_code":%d,"results":[%s]}`, code, strings.Join(results, ","))
	}))
	t.Cleanup(srv.Close)
	return NewOpenTDBClient(srv.URL+"/", 0), &got
}

func TestOpenTDBFetchDecodesFields(t *testing.T) {
	client, query := newOpenTDB(t, 0,
		remoteResult(`What's the chemical symbol for "gold"?`, "Au", "easy"),
		remoteResult("50% of 10?", "5", "hard"),
	)

	got, err := client.Fetch(context.Background(), Request{Amount: 2, Category: 17, Difficulty: "easy"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, RemoteQuestion{
		Category:   "Science & Nature",
		Difficulty: "easy",
		Question:   `What's the chemical symbol for "gold"?`,
		Answer:     "Au",
	}, got[0])
	assert.Equal(t, "50% of 10?", got[1].Question)

	assert.Equal(t, "2", query.Get("amount"))
	assert.Equal(t, "17", query.Get("category"))
	assert.Equal(t, "easy", query.Get("difficulty"))
	assert.Equal(t, "url3986", query.Get("encode"))
}

func TestOpenTDBFetchResponseCodes(t *testing.T) {
	client, _ := newOpenTDB(t, 1)
	_, err := client.Fetch(context.Background(), Request{Amount: 5})
	assert.ErrorIs(t, err, ErrNoResults)

	client, _ = newOpenTDB(t, 5)
	_, err = client.Fetch(context.Background(), Request{Amount: 5})
	assert.ErrorIs(t, err, ErrRateLimited)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	_, err = NewOpenTDBClient(srv.URL, 0).Fetch(context.Background(), Request{Amount: 5})
	assert.ErrorContains(t, err, "502")
}

type stubSource struct {
	questions []RemoteQuestion
	err       error
	got       Request
}

func (s *stubSource) Fetch(_ context.Context, r Request) ([]RemoteQuestion, error) {
	s.got = r
	return s.questions, s.err
}

func TestImport(t *testing.T) {
	store := repository.NewMemoryStore(repository.SeedCategories, repository.SeedQuestions)
	src := &stubSource{questions: []RemoteQuestion{
		{Difficulty: "medium", Question: "What is the chemical symbol for gold?", Answer: "Au"},
		{Difficulty: "hard", Question: "  who discovered PENICILLIN?  ", Answer: "Alexander Fleming"},
		{Difficulty: "easy", Question: "", Answer: "nothing"},
		{Difficulty: "extreme", Question: "Unknown difficulty?", Answer: "x"},
	}}
	im := New(src, store, nil, zerolog.Nop())
	ctx := context.Background()

	res, err := im.Import(ctx, 1, 4, "")
	require.NoError(t, err)
	assert.Equal(t, Request{Amount: 4, Category: 17}, src.got)
	assert.Equal(t, 4, res.Fetched)
	assert.Equal(t, 3, res.Skipped, "duplicate, empty text and unknown difficulty")
	require.Len(t, res.Inserted, 1)

	q, err := store.GetQuestion(ctx, res.Inserted[0])
	require.NoError(t, err)
	assert.Equal(t, trivia.Question{
		ID:         res.Inserted[0],
		Question:   "What is the chemical symbol for gold?",
		Answer:     "Au",
		Category:   1,
		Difficulty: 3,
	}, q)

	res, err = im.Import(ctx, 1, 4, "")
	require.NoError(t, err)
	assert.Empty(t, res.Inserted, "second run finds everything already stored")
}

func TestImportRejectsBadInput(t *testing.T) {
	store := repository.NewMemoryStore(
		append([]trivia.Category{{ID: 9, Type: "Local only"}}, repository.SeedCategories...),
		nil,
	)
	src := &stubSource{}
	im := New(src, store, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := im.Import(ctx, 1, 0, "")
	assert.ErrorContains(t, err, "amount")
	_, err = im.Import(ctx, 1, MaxAmount+1, "")
	assert.ErrorContains(t, err, "amount")
	_, err = im.Import(ctx, 1, 5, "brutal")
	assert.ErrorContains(t, err, "difficulty")
	_, err = im.Import(ctx, 404, 5, "")
	assert.ErrorIs(t, err, trivia.ErrNotFound)
	_, err = im.Import(ctx, 9, 5, "")
	assert.ErrorIs(t, err, ErrUnmappedCategory)

	src.err = ErrRateLimited
	_, err = im.Import(ctx, 2, 5, "easy")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, Request{Amount: 5, Category: 25, Difficulty: "easy"}, src.got)
}
