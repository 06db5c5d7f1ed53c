package trivia

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandler exposes the trivia REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a trivia HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Routes mounts the trivia endpoints on r.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/categories", h.HandleCategories)
	r.Get("/categories/{categoryID}/questions", h.HandleCategoryQuestions)

	r.Get("/questions", h.HandleQuestions)
	r.Post("/questions", h.HandleCreateQuestion)
	r.Post("/questions/searches", h.HandleSearch)
	r.Get("/questions/{questionID}", h.HandleGetQuestion)
	r.Delete("/questions/{questionID}", h.HandleDeleteQuestion)

	r.Post("/quizzes", h.HandleQuiz)
}

type categoriesResponse struct {
	Success    bool       `json:"success"`
	Categories []Category `json:"categories"`
}

type questionPageResponse struct {
	Success         bool       `json:"success"`
	Questions       []Question `json:"questions"`
	TotalQuestions  int        `json:"total_questions"`
	Categories      []Category `json:"categories"`
	CurrentCategory int        `json:"current_category"`
}

type questionResponse struct {
	Success  bool `json:"success"`
	Question any  `json:"question"`
}

type createdResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}

type searchResponse struct {
	Success   bool       `json:"success"`
	Questions []Question `json:"questions"`
}

type deletedResponse struct {
	Success bool `json:"success"`
}

// HandleCategories serves GET /categories.
func (h *HTTPHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, r, categoriesResponse{Success: true, Categories: categories})
}

// HandleQuestions serves GET /questions?page=N.
func (h *HTTPHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Questions(r.Context(), ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, r, toPageResponse(page))
}

// HandleCategoryQuestions serves GET /categories/{categoryID}/questions?page=N.
func (h *HTTPHandler) HandleCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.MsgNotFound)
		return
	}
	page, err := h.svc.CategoryQuestions(r.Context(), categoryID, ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, r, toPageResponse(page))
}

// HandleGetQuestion serves GET /questions/{questionID}.
func (h *HTTPHandler) HandleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil {
		httperrors.RespondNotFound(w, MsgQuestionNotFound)
		return
	}
	q, err := h.svc.Question(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, r, questionResponse{Success: true, Question: q})
}

// HandleDeleteQuestion serves DELETE /questions/{questionID}.
func (h *HTTPHandler) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil {
		httperrors.RespondNotFound(w, MsgQuestionNotFound)
		return
	}
	if err := h.svc.DeleteQuestion(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Info().Int("question_id", id).Msg("question deleted")
	h.writeJSON(w, r, deletedResponse{Success: true})
}

// HandleCreateQuestion serves POST /questions.
func (h *HTTPHandler) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	created, err := h.svc.CreateQuestion(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Info().Int("question_id", created.ID).Int("category", created.Category).Msg("question created")
	h.writeJSON(w, r, createdResponse{Success: true, Created: created.ID})
}

// HandleSearch serves POST /questions/searches.
func (h *HTTPHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	matches, err := h.svc.SearchQuestions(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, r, searchResponse{Success: true, Questions: matches})
}

// HandleQuiz serves POST /quizzes. An exhausted pool answers with an empty
// question object.
func (h *HTTPHandler) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	q, err := h.svc.NextQuizQuestion(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	resp := questionResponse{Success: true, Question: struct{}{}}
	if q != nil {
		resp.Question = *q
	}
	h.writeJSON(w, r, resp)
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var te *Error
	if !errors.As(err, &te) || te.Kind == KindInternal {
		h.log(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		httperrors.RespondInternalError(w)
		return
	}
	h.log(r).Debug().Str("message", te.Message).Int("status", te.Kind.Status()).Msg("request rejected")
	httperrors.RespondError(w, te.Kind.Status(), te.Message)
}

func (h *HTTPHandler) log(r *http.Request) *zerolog.Logger {
	logger := logging.FromContextOr(r.Context(), h.logger)
	return &logger
}

func decodePayload(w http.ResponseWriter, r *http.Request) (Payload, bool) {
	var payload Payload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil || payload == nil {
		httperrors.RespondBadRequest(w, httperrors.MsgInvalidJSON)
		return nil, false
	}
	return payload, true
}

func toPageResponse(page QuestionPage) questionPageResponse {
	return questionPageResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		Categories:      page.Categories,
		CurrentCategory: page.CurrentCategory,
	}
}

// writeJSON sends a 200 response. Encoding failures are only logged since the
// status line may already be out.
func (h *HTTPHandler) writeJSON(w http.ResponseWriter, r *http.Request, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log(r).Error().Err(err).Str("path", r.URL.Path).Msg("encode response")
	}
}
