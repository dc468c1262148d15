package ai

import (
	"fmt"
	"strings"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/config"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
)

var dialectNames = map[string]string{
	"sqlite":    "SQLite",
	"mysql":     "MySQL",
	"sqlserver": "T-SQL (SQL Server)",
}

// BuildSystemPrompt instructs the model for the given SQL dialect.
func BuildSystemPrompt(dialect string, rowLimit int) string {
	name, ok := dialectNames[dialect]
	if !ok {
		name = dialect
	}
	if rowLimit <= 0 {
		rowLimit = 10
	}
	prompt := fmt.Sprintf(config.AgentSystemPrompt, name, name, rowLimit)
	if dialect == "sqlserver" {
		prompt += "\nUse TOP instead of LIMIT, and schema-qualified table names as returned by list_tables."
	}
	return prompt
}

// FormatColumns renders a table description for the model.
func FormatColumns(table string, columns []models.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table %s (\n", table)
	for i, col := range columns {
		null := "NOT NULL"
		if col.Nullable {
			null = "NULL"
		}
		fmt.Fprintf(&b, "  %s %s %s", col.Name, col.Type, null)
		if i < len(columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// FormatResult renders query rows as a tab separated block.
func FormatResult(result *models.SQLResult) string {
	if result == nil || len(result.Columns) == 0 {
		return "The query returned no columns."
	}

	var b strings.Builder
	b.WriteString(strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		b.WriteString("\n")
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		b.WriteString(strings.Join(cells, "\t"))
	}
	if len(result.Rows) == 0 {
		b.WriteString("\n(no rows)")
	}
	if result.Truncated {
		fmt.Fprintf(&b, "\n(truncated to %d rows)", len(result.Rows))
	}
	return b.String()
}
