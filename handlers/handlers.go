package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/ai"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/config"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/db"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/resolver"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/service"

	"github.com/gin-gonic/gin"
)

// @title           SQL Chat Assistant API
// @version         1.0
// @description     Chat with a SQLite, MySQL or SQL Server database. Questions are answered by an LLM agent that writes and runs read-only SQL.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

// ConnectionResolver turns credentials into a live database handle.
type ConnectionResolver interface {
	Resolve(ctx context.Context, creds resolver.Credentials) (*service.Database, error)
	HandleCount() int
}

// QueryAgent answers a question against a database.
type QueryAgent interface {
	Ask(ctx context.Context, apiKey string, database ai.Database, question string, obs ...ai.Observer) (string, error)
}

type Handlers struct {
	db       *db.DB
	resolver ConnectionResolver
	agent    QueryAgent
	progress *ProgressHub
	cfg      config.Config
}

func New(database *db.DB, res ConnectionResolver, agent QueryAgent, progress *ProgressHub, cfg config.Config) *Handlers {
	if progress == nil {
		progress = NewProgressHub()
	}
	return &Handlers{
		db:       database,
		resolver: res,
		agent:    agent,
		progress: progress,
		cfg:      cfg,
	}
}

// Register mounts every API route on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.HealthHandler)
	r.GET("/api/kinds", h.ListKindsHandler)

	sessions := r.Group("/api/sessions")
	sessions.POST("", h.CreateSessionHandler)
	sessions.GET("/:id", h.GetSessionHandler)
	sessions.DELETE("/:id", h.DeleteSessionHandler)
	sessions.DELETE("/:id/messages", h.ClearHistoryHandler)
	sessions.POST("/:id/connection", h.ConnectHandler)
	sessions.POST("/:id/chat", h.ChatHandler)
	sessions.POST("/:id/sql", h.ExecuteSQLHandler)
	sessions.GET("/:id/ws", h.ProgressWebSocketHandler)
}

// loadSession writes a 404 or 500 and returns false when the session cannot be read.
func (h *Handlers) loadSession(c *gin.Context) (*models.Session, bool) {
	sess, err := h.db.GetSession(c.Param("id"))
	if errors.Is(err, db.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return nil, false
	}
	if err != nil {
		log.Printf("Error loading session %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return sess, true
}

// resolveSession resolves the stored connection of sess. It writes the error
// response itself and returns nil on failure. A returned handle must be released.
func (h *Handlers) resolveSession(c *gin.Context, sess *models.Session) *service.Database {
	if sess.Connection == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "No database connection configured for this session",
			ErrorKind: string(resolver.Validation),
		})
		return nil
	}

	creds, err := resolver.FromSettings(*sess.Connection)
	if err == nil {
		var handle *service.Database
		handle, err = h.resolver.Resolve(c.Request.Context(), creds)
		if err == nil {
			return handle
		}
	}
	log.Printf("Error resolving connection for session %s: %v", sess.ID, err)
	respondResolveError(c, err)
	return nil
}

// release returns a handle obtained from resolveSession or Resolve.
func release(handle *service.Database) {
	if err := handle.Release(); err != nil {
		log.Printf("Error closing retired database handle %s: %v", handle.Descriptor(), err)
	}
}

// respondResolveError maps resolver error kinds to HTTP statuses.
func respondResolveError(c *gin.Context, err error) {
	kind, ok := resolver.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case resolver.Validation:
		status = http.StatusBadRequest
	case resolver.Connectivity:
		status = http.StatusBadGateway
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error(), ErrorKind: string(kind)})
}
