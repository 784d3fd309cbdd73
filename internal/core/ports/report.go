package ports

import (
	"io"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// ReportRow is one completed task as it appears in the exported workbook.
type ReportRow struct {
	Task   *domain.Task
	Worker string
}

// ReportWriter renders completed tasks into a spreadsheet.
type ReportWriter interface {
	WriteCompleted(w io.Writer, rows []ReportRow) error
}

// TaskSheetReader parses a dispatcher's planning spreadsheet.
type TaskSheetReader interface {
	ReadPlanned(r io.Reader) ([]CreateTaskInput, error)
}

// Spreadsheet reads planning sheets and writes completion reports.
type Spreadsheet interface {
	ReportWriter
	TaskSheetReader
}
