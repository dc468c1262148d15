package handlers

import (
	"net/http"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/resolver"

	"github.com/gin-gonic/gin"
)

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Report service status and the number of cached database handles
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":         "healthy",
		"sessions":       "ready",
		"ai_service":     "ready",
		"cached_handles": 0,
	}
	if h.resolver != nil {
		status["cached_handles"] = h.resolver.HandleCount()
	}
	if h.cfg.LLM.APIKey == "" {
		status["ai_service"] = "needs_session_key"
	}
	c.JSON(http.StatusOK, status)
}

// ListKindsHandler lists the supported database kinds
// @Summary      List database kinds
// @Description  Supported database kinds with the fields each one requires and UI defaults
// @Tags         Connection
// @Produce      json
// @Success      200  {array}  models.KindInfo
// @Router       /api/kinds [get]
func (h *Handlers) ListKindsHandler(c *gin.Context) {
	kinds := make([]models.KindInfo, 0, len(resolver.Kinds))
	for _, kind := range resolver.Kinds {
		info := models.KindInfo{
			Kind:     string(kind),
			Label:    kind.Label(),
			Required: []string{},
		}
		switch kind {
		case resolver.KindMySQL:
			info.Required = []string{"host", "user", "password", "database"}
		case resolver.KindSQLServer:
			info.Required = []string{"server", "database", "driver"}
			info.Defaults = map[string]string{
				"auth_mode": resolver.AuthIntegrated.String(),
				"driver":    h.cfg.DefaultODBCDriver,
			}
		}
		kinds = append(kinds, info)
	}
	c.JSON(http.StatusOK, kinds)
}
