package scraper

import (
	"context"
	"strings"

	"fc-roster-parser/internal/browser"
)

// FieldExtractor ищет текст поля внутри карточки по цепочке селекторов.
type FieldExtractor struct {
	driver browser.Driver
}

func NewFieldExtractor(d browser.Driver) *FieldExtractor {
	return &FieldExtractor{driver: d}
}

// Extract возвращает текст первого селектора с непустым результатом или Missing.
// Поиск ограничен потомками node. Ошибка — только сбой драйвера.
func (e *FieldExtractor) Extract(ctx context.Context, node browser.Node, selectors []string) (string, error) {
	text, ok, err := textChain(e.driver, node, selectors).First(ctx)
	if err != nil {
		return Missing, err
	}
	if !ok {
		return Missing, nil
	}
	return text, nil
}

// ExtractAll собирает уникальные непустые тексты всех совпадений по всем селекторам,
// пропуская значения из exclude.
func (e *FieldExtractor) ExtractAll(ctx context.Context, node browser.Node, selectors []string, exclude ...string) ([]string, error) {
	var values []string
	seen := make(map[string]bool)
	skip := make(map[string]bool, len(exclude))
	for _, x := range exclude {
		skip[x] = true
	}

	for _, sel := range selectors {
		nodes, err := e.driver.FindAll(ctx, sel, node)
		if err != nil {
			if browser.IsFault(err) {
				return nil, err
			}
			continue
		}
		for _, n := range nodes {
			text, err := e.driver.Text(ctx, n)
			if err != nil {
				if browser.IsFault(err) {
					return nil, err
				}
				continue
			}
			text = cleanText(text)
			if text == "" || skip[text] || seen[text] {
				continue
			}
			seen[text] = true
			values = append(values, text)
		}
	}
	return values, nil
}

// cleanText схлопывает пробельные символы (включая NBSP) и обрезает края
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
