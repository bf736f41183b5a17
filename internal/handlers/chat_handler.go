package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/services/auth"
)

// ChatRequest carries one question aimed at a notebook's sources.
type ChatRequest struct {
	Question string `json:"question" validate:"required,min=1,max=4000"`
}

// ChatHandler handles grounded question answering requests
type ChatHandler struct {
	answerService interfaces.AnswerService
	gate          *auth.OwnershipGate
	logger        arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(answerService interfaces.AnswerService, gate *auth.OwnershipGate, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		answerService: answerService,
		gate:          gate,
		logger:        logger,
	}
}

// ChatHandler handles POST /api/notebooks/{id}/chat
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.gate.Require(notebookID, userID); err != nil {
		WriteServiceError(w, err)
		return
	}

	var req ChatRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	h.logger.Info().
		Str("notebook_id", notebookID).
		Int("question_length", len(req.Question)).
		Msg("Processing chat request")

	reply, err := h.answerService.Answer(r.Context(), notebookID, req.Question)
	if err != nil {
		h.logger.Error().Err(err).Str("notebook_id", notebookID).Msg("Failed to generate answer")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, reply)
}

// ExampleQuestionsHandler handles GET /api/notebooks/{id}/example-questions
func (h *ChatHandler) ExampleQuestionsHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.gate.Require(notebookID, userID); err != nil {
		WriteServiceError(w, err)
		return
	}

	questions, err := h.answerService.ExampleQuestions(r.Context(), notebookID)
	if err != nil {
		h.logger.Error().Err(err).Str("notebook_id", notebookID).Msg("Failed to generate example questions")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, questions)
}
