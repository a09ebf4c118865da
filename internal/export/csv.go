package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fc-roster-parser/internal/scraper"
)

// utf8BOM нужен, чтобы Excel корректно открыл кириллицу и диакритику
const utf8BOM = "\ufeff"

// WriteCSV пишет состав в колонках scraper.Columns
func WriteCSV(w io.Writer, records []scraper.PlayerRecord) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(scraper.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range records {
		if err := cw.Write(records[i].Row()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile создаёт файл (и каталог) и пишет в него состав
func WriteCSVFile(path string, records []scraper.PlayerRecord) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close csv file: %w", closeErr)
		}
	}()

	return WriteCSV(f, records)
}
