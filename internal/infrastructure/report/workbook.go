// Package report exchanges tasks with dispatchers as xlsx workbooks: it
// renders completed tasks into a report and reads planned tasks from the
// dispatch sheet.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
)

const (
	reportSheet      = "Report"
	completionLayout = "02-01-2006 15:04"
	firstPlannedRow  = 3
)

// Report columns, in order.
var reportHeaders = []string{
	"No", "Work type", "Dispatcher name", "Address",
	"Planned date", "Voltage, kV", "Job",
	"Completion date", "Latitude", "Longitude",
	"Photo 1", "Photo 2", "Photo 3", "Photo 4", "Photo 5",
	"Worker", "Comment",
}

var reportWidths = []float64{10, 30, 30, 40, 14, 12, 30, 18, 14, 14, 14, 14, 14, 14, 14, 20, 50}

// Planning sheet columns (1-based), data starting at firstPlannedRow.
const (
	colWorkType   = 2
	colDispatcher = 3
	colAddress    = 4
	colPlanned    = 5
	colVoltage    = 7
	colJob        = 8
)

// Workbook implements ports.Spreadsheet on top of excelize.
type Workbook struct{}

func NewWorkbook() *Workbook { return &Workbook{} }

// WriteCompleted renders rows as a single-sheet report. Photo cells are
// hyperlinks to the stored photos.
func (Workbook) WriteCompleted(w io.Writer, rows []ports.ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return err
	}
	styles, err := newStyles(f)
	if err != nil {
		return err
	}
	if err := writeHeader(f, styles); err != nil {
		return err
	}

	for i, row := range rows {
		if err := writeTask(f, styles, i+2, row); err != nil {
			return fmt.Errorf("report row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}

type styles struct {
	header int
	cell   int
	link   int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: center}); err != nil {
		return s, err
	}
	if s.cell, err = f.NewStyle(&excelize.Style{Alignment: center}); err != nil {
		return s, err
	}
	s.link, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "0000EE", Underline: "single"},
		Alignment: center,
	})
	return s, err
}

func writeHeader(f *excelize.File, s styles) error {
	for i, h := range reportHeaders {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheet, col+"1", h); err != nil {
			return err
		}
		if err := f.SetColWidth(reportSheet, col, col, reportWidths[i]); err != nil {
			return err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(reportHeaders))
	if err := f.SetCellStyle(reportSheet, "A1", last+"1", s.header); err != nil {
		return err
	}
	return f.SetRowHeight(reportSheet, 1, 30)
}

func writeTask(f *excelize.File, s styles, rowNum int, row ports.ReportRow) error {
	t := row.Task
	values := []any{
		t.ID, t.WorkType, t.DispatcherName, t.Address,
		t.PlannerDate, t.Voltage, t.Job,
		"", "", "",
	}
	if t.CompletionDate != nil {
		values[7] = t.CompletionDate.Format(completionLayout)
	}
	if t.Coordinates != nil {
		values[8] = t.Coordinates.Latitude
		values[9] = t.Coordinates.Longitude
	}

	cell := func(col int) string {
		name, _ := excelize.CoordinatesToCellName(col, rowNum)
		return name
	}

	for i, v := range values {
		if err := f.SetCellValue(reportSheet, cell(i+1), v); err != nil {
			return err
		}
	}

	for i := 0; i < domain.MaxTaskPhotos; i++ {
		ref := cell(len(values) + 1 + i)
		if i >= len(t.Photos) {
			continue
		}
		if err := f.SetCellValue(reportSheet, ref, fmt.Sprintf("photo %d", i+1)); err != nil {
			return err
		}
		if err := f.SetCellHyperLink(reportSheet, ref, t.Photos[i], "External"); err != nil {
			return err
		}
		if err := f.SetCellStyle(reportSheet, ref, ref, s.link); err != nil {
			return err
		}
	}

	workerCol := len(values) + domain.MaxTaskPhotos + 1
	if err := f.SetCellValue(reportSheet, cell(workerCol), row.Worker); err != nil {
		return err
	}
	if err := f.SetCellValue(reportSheet, cell(workerCol+1), t.Comments); err != nil {
		return err
	}
	return f.SetCellStyle(reportSheet, cell(1), cell(len(values)), s.cell)
}

// ReadPlanned parses the active sheet of a dispatch workbook. Blank rows are
// skipped; an unreadable voltage rejects the whole sheet.
func (Workbook) ReadPlanned(r io.Reader) ([]ports.CreateTaskInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTaskSheet, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTaskSheet, err)
	}

	inputs := make([]ports.CreateTaskInput, 0, len(rows))
	for i := firstPlannedRow - 1; i < len(rows); i++ {
		row := rows[i]
		get := func(col int) string {
			if col-1 < len(row) {
				return strings.TrimSpace(row[col-1])
			}
			return ""
		}

		in := ports.CreateTaskInput{
			WorkType:       get(colWorkType),
			DispatcherName: get(colDispatcher),
			Address:        get(colAddress),
			PlannerDate:    get(colPlanned),
			Job:            get(colJob),
		}
		rawVoltage := get(colVoltage)
		if blank(in.WorkType, in.DispatcherName, in.Address, in.PlannerDate, in.Job, rawVoltage) {
			continue
		}
		if rawVoltage != "" {
			v, err := strconv.ParseFloat(strings.ReplaceAll(rawVoltage, ",", "."), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: voltage %q", domain.ErrInvalidTaskSheet, i+1, rawVoltage)
			}
			in.Voltage = v
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}
