package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fc-roster-parser/internal/scraper"
)

// LoadSelectors читает YAML и накладывает его поверх встроенного набора.
// Поля, не указанные в файле, остаются по умолчанию.
func LoadSelectors(filePath string) (*scraper.Selectors, error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read selectors file %s: %w", filePath, err)
	}

	var override scraper.Selectors
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	selectors := scraper.DefaultSelectors()
	selectors.Merge(&override)

	if err := validateSelectors(selectors); err != nil {
		return nil, err
	}
	return selectors, nil
}

// Selectors возвращает набор селекторов по конфигу. Без selectors_file — встроенный.
func (c *Config) Selectors() (*scraper.Selectors, error) {
	if c.SelectorsFile == "" {
		return scraper.DefaultSelectors(), nil
	}

	filePath := c.SelectorsFile
	// Относительный путь считается от каталога конфига
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(filepath.Dir(c.path), filePath)
	}
	return LoadSelectors(filePath)
}

// validateSelectors проверяет минимальный набор селекторов
func validateSelectors(s *scraper.Selectors) error {
	if len(s.Cards) == 0 {
		return fmt.Errorf("cards is required")
	}
	if len(s.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(s.Rating) == 0 {
		return fmt.Errorf("rating is required")
	}
	if len(s.NextPage) == 0 {
		return fmt.Errorf("next_page is required")
	}
	return nil
}
