package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
)

// WriteCSV writes result as CSV with a header row. NULL becomes an empty field.
func WriteCSV(w io.Writer, result *models.SQLResult) error {
	writer := csv.NewWriter(w)

	// Write header
	if err := writer.Write(result.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write rows
	for _, row := range result.Rows {
		record := make([]string, len(row))
		for i, val := range row {
			if val == nil {
				record[i] = ""
			} else {
				record[i] = fmt.Sprintf("%v", val)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
