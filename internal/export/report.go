package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"fc-roster-parser/internal/normalize"
	"fc-roster-parser/internal/scraper"
)

// previewColumns — короткий набор колонок для консоли
var previewColumns = []string{"name", "overall", "position", "club", "quality", "status"}

// Preview печатает первые rows записей и сводку
func Preview(w io.Writer, records []scraper.PlayerRecord, summary normalize.Summary, rows int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Players collected: %d", summary.Total))

	header := table.Row{}
	for _, c := range previewColumns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for i := 0; i < len(records) && i < rows; i++ {
		m := records[i].Map()
		row := table.Row{}
		for _, c := range previewColumns {
			row = append(row, m[c])
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if summary.Total == 0 {
		return
	}

	s := table.NewWriter()
	s.SetOutputMirror(w)
	s.AppendRow(table.Row{"Overall mean", fmt.Sprintf("%.1f", summary.OverallMean)})
	s.AppendRow(table.Row{"Top positions", formatCounts(summary.Positions, 5)})
	s.AppendRow(table.Row{"Qualities", formatCounts(summary.Qualities, 0)})
	s.AppendRow(table.Row{"Status", formatCounts(summary.Statuses, 0)})
	s.SetStyle(table.StyleRounded)
	s.Render()
}

// WriteReport пишет текстовый отчёт о сборе
func WriteReport(w io.Writer, summary normalize.Summary, csvPath string, now time.Time) error {
	var b strings.Builder

	b.WriteString("FC ROSTER SCRAPING REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Date: %s\n", now.Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "Total players: %d\n", summary.Total)
	fmt.Fprintf(&b, "CSV file: %s\n\n", csvPath)

	if summary.Total > 0 {
		b.WriteString("DETAILED STATISTICS:\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")
		fmt.Fprintf(&b, "Overall mean: %.1f\n", summary.OverallMean)
		fmt.Fprintf(&b, "Overall max: %d\n", summary.OverallMax)
		fmt.Fprintf(&b, "Overall min: %d\n", summary.OverallMin)

		b.WriteString("\nBy position:\n")
		for _, c := range summary.Positions {
			fmt.Fprintf(&b, "  %s: %d\n", c.Value, c.N)
		}

		b.WriteString("\nBy quality:\n")
		for _, c := range summary.Qualities {
			fmt.Fprintf(&b, "  %s: %d\n", c.Value, c.N)
		}
	}

	fmt.Fprintf(&b, "\nColumns: %s\n", strings.Join(scraper.Columns, ", "))

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteReportFile — WriteReport в файл
func WriteReportFile(path string, summary normalize.Summary, csvPath string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", closeErr)
		}
	}()

	return WriteReport(f, summary, csvPath, time.Now())
}

func formatCounts(counts []normalize.Count, limit int) string {
	parts := make([]string, 0, len(counts))
	for i, c := range counts {
		if limit > 0 && i >= limit {
			break
		}
		parts = append(parts, fmt.Sprintf("%s(%d)", c.Value, c.N))
	}
	return strings.Join(parts, ", ")
}
