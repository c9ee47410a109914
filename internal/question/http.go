package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// HTTPHandler exposes the question, category and quiz REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a question HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Register mounts the endpoints on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /categories", h.HandleCategories)
	mux.HandleFunc("GET /categories/{id}/questions", h.HandleCategoryQuestions)
	mux.HandleFunc("GET /questions", h.HandleListQuestions)
	mux.HandleFunc("POST /questions", h.HandleCreateQuestion)
	mux.HandleFunc("DELETE /questions/{id}", h.HandleDeleteQuestion)
	mux.HandleFunc("POST /search", h.HandleSearch)
	mux.HandleFunc("POST /quizzes", h.HandleQuiz)
}

// HandleCategories handles GET /categories
func (h *HTTPHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": categories,
	})
}

// HandleListQuestions handles GET /questions?page=N
func (h *HTTPHandler) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListQuestions(r.Context(), pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        page.Questions,
		"total_questions":  page.Total,
		"categories":       page.Categories,
		"current_category": nil,
	})
}

// HandleDeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandler) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	page, err := h.svc.Delete(r.Context(), id, pageParam(r))
	if err != nil {
		// Unknown ids are reported as unprocessable, not 404; clients depend on it.
		h.requestLogger(r).Warn().Err(err).Int32("question_id", id).Msg("delete question failed")
		httperrors.RespondUnprocessable(w)
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":         true,
		"deleted":         id,
		"questions":       page.Questions,
		"total_questions": page.Total,
	})
}

type createQuestionRequest struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   numeric `json:"category"`
	Difficulty numeric `json:"difficulty"`
}

// HandleCreateQuestion handles POST /questions
func (h *HTTPHandler) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := decodeBody(r, &req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}

	id, page, err := h.svc.Create(r.Context(), NewQuestion{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   req.Category.Int32,
		Difficulty: req.Difficulty.Int32,
	}, pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":         true,
		"created":         id,
		"questions":       page.Questions,
		"total_questions": page.Total,
	})
}

// HandleSearch handles POST /search. A missing body searches for the empty term.
func (h *HTTPHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SearchTerm string `json:"searchTerm"`
	}
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httperrors.RespondUnprocessable(w)
		return
	}

	page, err := h.svc.Search(r.Context(), req.SearchTerm, pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        page.Questions,
		"total_questions":  page.Total,
		"current_category": nil,
	})
}

// HandleCategoryQuestions handles GET /categories/{id}/questions
func (h *HTTPHandler) HandleCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	page, err := h.svc.ByCategory(r.Context(), id, pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        page.Questions,
		"total_questions":  page.Total,
		"current_category": id,
	})
}

type quizRequest struct {
	PreviousQuestions []int32 `json:"previous_questions"`
	QuizCategory      *struct {
		ID   numeric `json:"id"`
		Type string  `json:"type"`
	} `json:"quiz_category"`
}

// HandleQuiz handles POST /quizzes. Every failure, malformed input included, is a 404.
func (h *HTTPHandler) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeBody(r, &req); err != nil || req.QuizCategory == nil || !req.QuizCategory.ID.Valid {
		httperrors.RespondNotFound(w)
		return
	}

	quiz := QuizRequest{Previous: req.PreviousQuestions}
	// The client sends id 0 for "all categories".
	if id := req.QuizCategory.ID.Int32; id != 0 {
		quiz.Category = &id
	}

	q, ok, err := h.svc.PickQuiz(r.Context(), quiz)
	if err != nil {
		h.requestLogger(r).Error().Err(err).Msg("quiz pick failed")
		httperrors.RespondNotFound(w)
		return
	}

	resp := map[string]interface{}{"success": true}
	if ok {
		resp["question"] = q
	}
	h.respondJSON(w, r, http.StatusOK, resp)
}

// fail maps the service error taxonomy onto the envelope statuses.
func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid  *ValidationError
		notFound *NotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		httperrors.RespondBadRequest(w)
	case errors.As(err, &notFound):
		httperrors.RespondNotFound(w)
	default:
		h.requestLogger(r).Error().Err(err).Msg("request failed")
		httperrors.RespondUnprocessable(w)
	}
}

// pageParam reads the 1-based page query parameter, defaulting to 1 when absent or malformed.
func pageParam(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// pathID parses the {id} wildcard. Only plain digits are accepted, so "+5" and "-1" miss the route.
func pathID(r *http.Request) (int32, bool) {
	raw := r.PathValue("id")
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(id), true
}

func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return io.EOF
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// requestLogger prefers the request-scoped logger installed by the server middleware.
func (h *HTTPHandler) requestLogger(r *http.Request) *zerolog.Logger {
	logger := logging.FromContextOr(r.Context(), h.logger)
	return &logger
}

// respondJSON encodes payload before touching the response, so an encoding
// failure still yields a clean 500 envelope.
func (h *HTTPHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.requestLogger(r).Error().Err(err).Msg("encode response failed")
		httperrors.RespondInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.requestLogger(r).Debug().Err(err).Msg("write response failed")
	}
}

// numeric decodes an integer sent either as a JSON number or as a numeric string.
// null and "" decode as not Valid.
type numeric struct {
	Int32 int32
	Valid bool
}

func (n *numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = numeric{}
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = numeric{}
			return nil
		}
	}

	v, err := strconv.ParseInt(raw, 10, 32)
	if err == nil {
		*n = numeric{Int32: int32(v), Valid: true}
		return nil
	}

	// Integral floats such as 2.0 are accepted; fractions are not.
	f, ferr := strconv.ParseFloat(raw, 64)
	if ferr != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return err
	}
	*n = numeric{Int32: int32(f), Valid: true}
	return nil
}
