package handlers

import (
	"errors"
	"net/http"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/db"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"

	"github.com/gin-gonic/gin"
)

// CreateSessionHandler creates a new chat session seeded with the greeting.
// @Summary      Create a chat session
// @Tags         Sessions
// @Produce      json
// @Success      201  {object}  models.SessionResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /api/sessions [post]
func (h *Handlers) CreateSessionHandler(c *gin.Context) {
	sess, err := h.db.CreateSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	h.respondSession(c, http.StatusCreated, sess)
}

// GetSessionHandler returns one session with its messages.
// @Summary      Get a chat session with messages
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  models.SessionResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/sessions/{id} [get]
func (h *Handlers) GetSessionHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	h.respondSession(c, http.StatusOK, sess)
}

// DeleteSessionHandler drops a session and its history.
// @Summary      Delete a chat session
// @Tags         Sessions
// @Param        id   path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/sessions/{id} [delete]
func (h *Handlers) DeleteSessionHandler(c *gin.Context) {
	err := h.db.DeleteSession(c.Param("id"))
	if errors.Is(err, db.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearHistoryHandler resets the history to the greeting.
// @Summary      Clear chat history
// @Description  Replace the session history with the single greeting turn
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  models.SessionResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/sessions/{id}/messages [delete]
func (h *Handlers) ClearHistoryHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if err := h.db.ClearHistory(sess.ID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	h.respondSession(c, http.StatusOK, sess)
}

func (h *Handlers) respondSession(c *gin.Context, status int, sess *models.Session) {
	messages, err := h.db.History(sess.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	resp := models.SessionResponse{
		ID:        sess.ID,
		HasAPIKey: sess.APIKey != "",
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
		Messages:  messages,
	}
	if sess.Connection != nil {
		resp.Kind = sess.Connection.Kind
	}
	c.JSON(status, resp)
}
