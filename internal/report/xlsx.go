package report

import (
	"fmt"
	"io"
	"time"

	"dsa-mentor-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	historySheet = "History"
)

// WriteXLSX renders a learner's summary and full history as a two-sheet workbook.
func WriteXLSX(w io.Writer, learnerID string, summary domain.ProgressSummary, history []domain.ProgressRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Learner", learnerID},
		{"Completed topics", summary.CompletedCount},
		{"Total topics", summary.TotalTopics},
		{"Completion %", summary.CompletionPercentage},
		{"Average score", summary.AverageScore},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if _, err := f.NewSheet(historySheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	header := []interface{}{"Recorded at", "Topic", "Status", "Score", "Attempt"}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range history {
		var score interface{} = ""
		if rec.Score != nil {
			score = *rec.Score
		}
		row := []interface{}{rec.RecordedAt.UTC().Format(time.RFC3339), rec.Topic, string(rec.Status), score, rec.AttemptID}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return fmt.Errorf("write history: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
