package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/models"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatJSON  ExportFormat = "json"
	FormatExcel ExportFormat = "xlsx"
)

// ParseFormat accepts a format name in any case, defaulting to CSV
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatExcel:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// ContentType returns the MIME type of f
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// ExportOptions selects the report to export
type ExportOptions struct {
	Format    ExportFormat `json:"format"`
	Metric    string       `json:"metric"`
	Module    string       `json:"module,omitempty"`
	Function  string       `json:"function,omitempty"`
	StartDate string       `json:"start_date,omitempty"`
	EndDate   string       `json:"end_date,omitempty"`
	Days      int          `json:"days,omitempty"`
}

// ExportResult contains export operation results
type ExportResult struct {
	Format   ExportFormat  `json:"format"`
	Metric   string        `json:"metric"`
	RowCount int           `json:"row_count"`
	Duration time.Duration `json:"duration"`
	FileName string        `json:"file_name"`
}

// table is a report flattened to rows of cells
type table struct {
	headers []string
	rows    [][]interface{}
	report  interface{}
}

// Exporter writes daily reports in file formats
type Exporter struct {
	analyzer *analytics.Analyzer
	now      func() time.Time
}

// NewExporter creates a new exporter
func NewExporter(analyzer *analytics.Analyzer) *Exporter {
	return &Exporter{
		analyzer: analyzer,
		now:      time.Now,
	}
}

// FileName is the suggested download name for options
func (e *Exporter) FileName(options ExportOptions) string {
	return fmt.Sprintf("%s_report_%s.%s", strings.ToLower(options.Metric), e.now().Format("20060102_150405"), options.Format)
}

// Export writes the report selected by options. Report errors such as
// analytics.ErrNoData are returned unchanged so callers can classify them.
func (e *Exporter) Export(writer io.Writer, options ExportOptions) (*ExportResult, error) {
	start := time.Now()

	metric, err := analytics.ParseMetric(options.Metric)
	if err != nil {
		return nil, err
	}
	options.Metric = string(metric)
	if options.Format == "" {
		options.Format = FormatCSV
	}

	t, err := e.buildTable(metric, options)
	if err != nil {
		return nil, err
	}

	switch options.Format {
	case FormatCSV:
		err = e.exportCSV(writer, t)
	case FormatJSON:
		err = e.exportJSON(writer, t, options)
	case FormatExcel:
		err = e.exportExcel(writer, t, metric)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", options.Format)
	}
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Format:   options.Format,
		Metric:   options.Metric,
		RowCount: len(t.rows),
		Duration: time.Since(start),
		FileName: e.FileName(options),
	}, nil
}

func (e *Exporter) buildTable(metric analytics.Metric, options ExportOptions) (*table, error) {
	switch metric {
	case analytics.MetricLatency:
		report, err := e.analyzer.CheckLatency(models.Query{
			Module:    options.Module,
			Function:  options.Function,
			StartDate: options.StartDate,
			EndDate:   options.EndDate,
		})
		if err != nil {
			return nil, err
		}
		t := &table{headers: []string{"day", "average_ms", "count"}, report: report}
		for _, d := range report.Days {
			t.rows = append(t.rows, []interface{}{d.Day, d.Average, d.Count})
		}
		return t, nil

	default:
		report, err := e.analyzer.CheckAvailability(options.Module, options.Days, options.Function)
		if err != nil {
			return nil, err
		}
		t := &table{headers: []string{"day", "percentage", "success", "errors"}, report: report}
		for _, d := range report.Days {
			t.rows = append(t.rows, []interface{}{d.Day, d.Percentage, d.Success, d.Errors})
		}
		return t, nil
	}
}

func (e *Exporter) exportCSV(writer io.Writer, t *table) error {
	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write(t.headers); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := csvWriter.Write(formatRow(row)); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func formatRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch v := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', 1, 64)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func (e *Exporter) exportJSON(writer io.Writer, t *table, options ExportOptions) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(map[string]interface{}{
		"metric":   options.Metric,
		"report":   t.report,
		"count":    len(t.rows),
		"exported": e.now(),
	})
}

func (e *Exporter) exportExcel(writer io.Writer, t *table, metric analytics.Metric) error {
	file := excelize.NewFile()
	defer file.Close()

	name := string(metric)
	sheet := strings.ToUpper(name[:1]) + name[1:]
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 12,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E0E0"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 2},
		},
	})
	if err != nil {
		return err
	}

	for col, header := range t.headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		file.SetCellValue(sheet, cell, header)
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.headers))
	if err != nil {
		return err
	}
	file.SetColWidth(sheet, "A", lastCol, 16)

	for r, row := range t.rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			file.SetCellValue(sheet, cell, value)
		}
	}

	if len(t.rows) > 0 {
		file.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, len(t.rows)+1), nil)
	}

	return file.Write(writer)
}
