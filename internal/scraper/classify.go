package scraper

import (
	"context"
	"strings"

	"fc-roster-parser/internal/browser"
)

// qualityKeywords проверяются по порядку, первое совпадение выигрывает
var qualityKeywords = []struct {
	keyword string
	quality Quality
}{
	{"icon", QualityIcon},
	{"hero", QualityHero},
	{"tots", QualityTOTS},
	{"toty", QualityTOTY},
	{"special", QualitySpecial},
}

// Classify определяет качество и статус карточки по строке классов
func Classify(classAttr string) (Quality, Status) {
	classes := strings.ToLower(classAttr)

	quality := QualityBase
	for _, kw := range qualityKeywords {
		if strings.Contains(classes, kw.keyword) {
			quality = kw.quality
			break
		}
	}

	status := StatusTradeable
	if strings.Contains(classes, "untradeable") {
		status = StatusUntradeable
	}

	return quality, status
}

type Classifier struct {
	driver browser.Driver
}

func NewClassifier(d browser.Driver) *Classifier {
	return &Classifier{driver: d}
}

// Classify читает атрибут class узла; отсутствие атрибута даёт Base/Tradeable
func (c *Classifier) Classify(ctx context.Context, node browser.Node) (Quality, Status, error) {
	class, _, err := c.driver.Attribute(ctx, node, "class")
	if err != nil && browser.IsFault(err) {
		return QualityBase, StatusTradeable, err
	}
	q, s := Classify(class)
	return q, s, nil
}
