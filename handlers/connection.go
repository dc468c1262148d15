package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/resolver"

	"github.com/gin-gonic/gin"
)

// ConnectHandler validates and resolves the database connection of a session
// @Summary      Configure the session database
// @Description  Validate the submitted credentials, open (or reuse) a database handle and store the settings and API key on the session
// @Tags         Connection
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Session ID"
// @Param        request  body      models.ConnectRequest   true  "Connection settings"
// @Success      200      {object}  models.ConnectResponse
// @Failure      400      {object}  models.ErrorResponse    "Missing or invalid connection details"
// @Failure      404      {object}  models.ErrorResponse    "Session not found"
// @Failure      500      {object}  models.ErrorResponse    "Unsupported kind or missing local database"
// @Failure      502      {object}  models.ErrorResponse    "Database unreachable"
// @Router       /api/sessions/{id}/connection [post]
func (h *Handlers) ConnectHandler(c *gin.Context) {
	var req models.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request", ErrorKind: string(resolver.Validation)})
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	creds, err := resolver.FromSettings(req.ConnectionSettings)
	if err != nil {
		h.reject(c, sess, err)
		return
	}

	handle, err := h.resolver.Resolve(c.Request.Context(), creds)
	if err != nil {
		h.reject(c, sess, err)
		return
	}
	defer release(handle)

	tables, err := handle.ListTables(c.Request.Context())
	if err != nil {
		log.Printf("Warning: connected to %s but could not list tables: %v", creds.Redacted(), err)
		tables = []string{}
	}

	settings := req.ConnectionSettings
	sess.Connection = &settings
	if key := strings.TrimSpace(req.APIKey); key != "" {
		sess.APIKey = key
	}
	if err := h.db.SaveSession(sess); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	log.Printf("Session %s connected to %s", sess.ID, creds.Redacted())
	c.JSON(http.StatusOK, models.ConnectResponse{
		Status:     "connected",
		Kind:       string(creds.Kind()),
		Descriptor: creds.Redacted(),
		Tables:     tables,
	})
}

// reject drops any previously stored connection so a failed submission never
// leaves the session pointing at stale settings.
func (h *Handlers) reject(c *gin.Context, sess *models.Session, err error) {
	if sess.Connection != nil {
		sess.Connection = nil
		if saveErr := h.db.SaveSession(sess); saveErr != nil {
			log.Printf("Error clearing connection of session %s: %v", sess.ID, saveErr)
		}
	}
	log.Printf("Connection rejected for session %s: %v", sess.ID, err)
	respondResolveError(c, err)
}
