package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingodeck/internal/api/shared"
	"github.com/phrazzld/lingodeck/internal/platform/logger"
)

// QuizHandler handles quiz HTTP requests.
type QuizHandler struct {
	quiz   QuizService
	logger *slog.Logger
}

// NewQuizHandler creates a new QuizHandler
func NewQuizHandler(quiz QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}
	return &QuizHandler{
		quiz:   quiz,
		logger: logger.With(slog.String("component", "quiz_handler")),
	}
}

// Start handles POST /api/quiz/start. An empty body starts a quiz with the
// settings' defaults.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartQuizRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	state, err := h.quiz.StartQuiz(r.Context(), req.config())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start quiz")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("quiz started by request",
		slog.String("session_id", state.SessionID))
	shared.RespondWithJSON(w, r, http.StatusCreated, state)
}

// Answer handles POST /api/quiz/answer.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req QuizAnswerRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	res, err := h.quiz.SubmitQuizAnswer(r.Context(), req.Choice)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// Restart handles POST /api/quiz/restart.
func (h *QuizHandler) Restart(w http.ResponseWriter, r *http.Request) {
	state, err := h.quiz.RestartQuiz(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to restart quiz")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, state)
}

// Stop handles POST /api/quiz/stop.
func (h *QuizHandler) Stop(w http.ResponseWriter, r *http.Request) {
	state, err := h.quiz.StopQuiz(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to stop quiz")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// State handles GET /api/quiz.
func (h *QuizHandler) State(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.quiz.QuizState())
}

// History handles GET /api/quiz/history.
func (h *QuizHandler) History(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, QuizHistoryResponse{Entries: h.quiz.QuizHistory()})
}
