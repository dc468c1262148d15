package handlers

import (
	"log"
	"net/http"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/resolver"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/service"

	"github.com/gin-gonic/gin"
)

// ExecuteSQLHandler runs a read-only SQL query against the session database
// @Summary      Execute read-only SQL
// @Description  Run one SELECT style query on the session database. Mutating statements are rejected. Rows are capped at the configured limit.
// @Tags         SQL
// @Accept       json
// @Produce      json,text/csv
// @Param        id       path      string  true  "Session ID"
// @Param        format   query     string  false "json (default) or csv"
// @Param        request  body      object  true  "{ \"sql\": \"SELECT * FROM STUDENT\" }"
// @Success      200      {object}  models.SQLResult
// @Failure      400      {object}  models.SQLResult      "Rejected or failing query"
// @Failure      404      {object}  models.ErrorResponse  "Session not found"
// @Router       /api/sessions/{id}/sql [post]
func (h *Handlers) ExecuteSQLHandler(c *gin.Context) {
	var req struct {
		SQL string `json:"sql" binding:"required" example:"SELECT NAME, MARKS FROM STUDENT"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request", ErrorKind: string(resolver.Validation)})
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	handle := h.resolveSession(c, sess)
	if handle == nil {
		return
	}
	defer release(handle)

	result, err := handle.ExecuteQuery(c.Request.Context(), req.SQL, h.cfg.Agent.RowLimit)
	if err != nil {
		if result == nil {
			result = &models.SQLResult{Error: err.Error()}
		}
		c.JSON(http.StatusBadRequest, result)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="result.csv"`)
		c.Status(http.StatusOK)
		if err := service.WriteCSV(c.Writer, result); err != nil {
			log.Printf("Error writing CSV for session %s: %v", sess.ID, err)
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
