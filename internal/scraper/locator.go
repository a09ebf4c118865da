package scraper

import (
	"context"
	"regexp"
	"strings"

	"fc-roster-parser/internal/browser"
	"fc-roster-parser/internal/observability"
)

// maxHeuristicText отсекает контейнеры, охватывающие сразу много карточек
const maxHeuristicText = 400

var ratingPattern = regexp.MustCompile(`\b[1-9][0-9]\b`)

// CardLocator находит карточки игроков на текущей странице.
type CardLocator struct {
	driver    browser.Driver
	selectors *Selectors
	logger    *observability.Logger
}

func NewCardLocator(d browser.Driver, selectors *Selectors, logger *observability.Logger) *CardLocator {
	return &CardLocator{
		driver:    d,
		selectors: selectors,
		logger:    logger,
	}
}

// Locate возвращает карточки с разрешимым именем. Пустой список без ошибки
// означает, что карточек на странице нет.
func (l *CardLocator) Locate(ctx context.Context) ([]browser.Node, error) {
	candidates, source, err := l.structural(ctx)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		candidates, err = l.heuristic(ctx)
		if err != nil {
			return nil, err
		}
		source = "heuristic"
	}

	if len(candidates) == 0 {
		l.logger.Warn("No player cards found")
		return nil, nil
	}

	valid := make([]browser.Node, 0, len(candidates))
	for _, card := range candidates {
		ok, err := l.hasName(ctx, card)
		if err != nil {
			return nil, err
		}
		if ok {
			valid = append(valid, card)
		}
	}

	l.logger.Info("Cards located",
		"selector", source,
		"candidates", len(candidates),
		"valid", len(valid),
	)

	return valid, nil
}

// structural: первый селектор контейнера, давший хотя бы одно совпадение
func (l *CardLocator) structural(ctx context.Context) ([]browser.Node, string, error) {
	for _, sel := range l.selectors.Cards {
		nodes, err := l.driver.FindAll(ctx, sel, nil)
		if err != nil {
			if browser.IsFault(err) {
				return nil, "", err
			}
			continue
		}
		if len(nodes) > 0 {
			return nodes, sel, nil
		}
	}
	return nil, "", nil
}

// heuristic — последний вариант: сканирует текст широких кандидатов и оставляет
// узлы, похожие на карточку (двузначный рейтинг и известный код позиции).
func (l *CardLocator) heuristic(ctx context.Context) ([]browser.Node, error) {
	for _, sel := range l.selectors.HeuristicScan {
		nodes, err := l.driver.FindAll(ctx, sel, nil)
		if err != nil {
			if browser.IsFault(err) {
				return nil, err
			}
			continue
		}

		var matched []browser.Node
		for _, n := range nodes {
			text, err := l.driver.Text(ctx, n)
			if err != nil {
				if browser.IsFault(err) {
					return nil, err
				}
				continue
			}
			if looksLikeCard(text) {
				matched = append(matched, n)
			}
		}
		if len(matched) > 0 {
			l.logger.Debug("Heuristic scan matched", "selector", sel, "count", len(matched))
			return matched, nil
		}
	}
	return nil, nil
}

func looksLikeCard(text string) bool {
	text = cleanText(text)
	if text == "" || len(text) > maxHeuristicText {
		return false
	}
	if !ratingPattern.MatchString(text) {
		return false
	}
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '|'
	}) {
		if IsKnownPosition(tok) {
			return true
		}
	}
	return false
}

// hasName — дешёвая проверка перед полным извлечением
func (l *CardLocator) hasName(ctx context.Context, card browser.Node) (bool, error) {
	_, ok, err := textChain(l.driver, card, l.selectors.Name).First(ctx)
	return ok, err
}
