package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/ai"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/resolver"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/validation"

	"github.com/gin-gonic/gin"
)

// ChatHandler answers a question against the session database
// @Summary      Ask a question
// @Description  Run the query agent on the session database. The question and the answer are appended to the history. Agent failures are returned as the reply with failed=true.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Session ID"
// @Param        request  body      models.ChatRequest  true  "Chat request with message"
// @Success      200      {object}  models.ChatResponse
// @Failure      400      {object}  models.ErrorResponse  "Invalid question, missing API key or connection"
// @Failure      404      {object}  models.ErrorResponse  "Session not found"
// @Failure      502      {object}  models.ErrorResponse  "Database unreachable"
// @Router       /api/sessions/{id}/chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request", ErrorKind: string(resolver.Validation)})
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := validation.ValidateQuestion(req.Message); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), ErrorKind: string(resolver.Validation)})
		return
	}

	apiKey := sess.APIKey
	if apiKey == "" {
		apiKey = h.cfg.LLM.APIKey
	}
	if apiKey == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Please add the API key", ErrorKind: string(resolver.Validation)})
		return
	}

	handle := h.resolveSession(c, sess)
	if handle == nil {
		return
	}
	defer release(handle)

	question := strings.TrimSpace(req.Message)
	if _, err := h.db.AppendTurn(sess.ID, models.RoleUser, question); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	observers := []ai.Observer{
		ai.LogObserver{Prefix: "[" + sess.ID + "] "},
		h.progress.Observer(sess.ID),
	}
	answer, err := h.agent.Ask(c.Request.Context(), apiKey, handle, question, observers...)
	failed := false
	if err != nil {
		log.Printf("Agent failed for session %s: %v", sess.ID, err)
		answer = err.Error()
		failed = true
	}

	if _, err := h.db.AppendTurn(sess.ID, models.RoleAssistant, answer); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Response: answer, Failed: failed})
}
