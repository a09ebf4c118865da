package scraper

import (
	"context"
	"fmt"
	"strings"

	"fc-roster-parser/internal/browser"
)

// RecordBuilder собирает PlayerRecord из одной карточки.
type RecordBuilder struct {
	driver     browser.Driver
	selectors  *Selectors
	extractor  *FieldExtractor
	classifier *Classifier
}

func NewRecordBuilder(d browser.Driver, selectors *Selectors) *RecordBuilder {
	return &RecordBuilder{
		driver:     d,
		selectors:  selectors,
		extractor:  NewFieldExtractor(d),
		classifier: NewClassifier(d),
	}
}

// Build возвращает nil без ошибки, если у карточки нет имени или рейтинга.
// Ошибка означает сбой драйвера.
func (b *RecordBuilder) Build(ctx context.Context, card browser.Node) (*PlayerRecord, error) {
	rec := &PlayerRecord{}

	fields := []struct {
		dst       *string
		selectors []string
	}{
		{&rec.Name, b.selectors.Name},
		{&rec.Overall, b.selectors.Rating},
		{&rec.Position, b.selectors.Position},
		{&rec.Club, b.selectors.Club},
		{&rec.Nation, b.selectors.Nation},
		{&rec.League, b.selectors.League},
	}
	for _, f := range fields {
		v, err := b.extractor.Extract(ctx, card, f.selectors)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	// Без имени и рейтинга остальное не нужно
	if !rec.Valid() {
		return nil, nil
	}

	quality, status, err := b.classifier.Classify(ctx, card)
	if err != nil {
		return nil, err
	}
	rec.Quality = quality
	rec.Status = status

	if err := b.fillStats(ctx, card, rec); err != nil {
		return nil, err
	}

	traits, err := b.extractor.ExtractAll(ctx, card, b.selectors.Traits, b.selectors.TraitsHeader)
	if err != nil {
		return nil, err
	}
	rec.Traits = strings.Join(traits, ", ")

	alt, err := b.alternatePositions(ctx, card)
	if err != nil {
		return nil, err
	}
	rec.AlternatePositions = alt

	return rec, nil
}

// fillStats: сначала селекторы конкретного атрибута, затем строки «метка / значение»
func (b *RecordBuilder) fillStats(ctx context.Context, card browser.Node, rec *PlayerRecord) error {
	var labelled map[string]string
	fromRows := func(key string) Lookup[string] {
		return func(ctx context.Context) (string, bool, error) {
			if labelled == nil {
				m, err := b.statRows(ctx, card)
				if err != nil {
					return "", false, err
				}
				labelled = m
			}
			v, ok := labelled[key]
			return v, ok && v != "", nil
		}
	}

	for _, key := range StatKeys {
		chain := append(textChain(b.driver, card, b.selectors.Stats.ByKey(key)), fromRows(key))
		v, ok, err := chain.First(ctx)
		if err != nil {
			return fmt.Errorf("stat %s: %w", key, err)
		}
		if !ok {
			v = Missing
		}
		rec.SetStat(key, v)
	}
	return nil
}

// statRows читает список атрибутов вида <li><span.label>PAC</span><span.value>90</span></li>
func (b *RecordBuilder) statRows(ctx context.Context, card browser.Node) (map[string]string, error) {
	rows := make(map[string]string)
	for _, sel := range b.selectors.StatRows {
		nodes, err := b.driver.FindAll(ctx, sel, card)
		if err != nil {
			if browser.IsFault(err) {
				return nil, err
			}
			continue
		}
		for _, row := range nodes {
			label, err := b.extractor.Extract(ctx, row, b.selectors.StatLabel)
			if err != nil {
				return nil, err
			}
			if IsMissing(label) {
				continue
			}
			value, err := b.extractor.Extract(ctx, row, b.selectors.StatValue)
			if err != nil {
				return nil, err
			}
			key := strings.ToUpper(label)
			if _, exists := rows[key]; !exists && !IsMissing(value) {
				rows[key] = value
			}
		}
	}
	return rows, nil
}

// alternatePositions: первый найденный блок, без ведущей запятой
func (b *RecordBuilder) alternatePositions(ctx context.Context, card browser.Node) (string, error) {
	v, err := b.extractor.Extract(ctx, card, b.selectors.AltPositions)
	if err != nil {
		return "", err
	}
	if IsMissing(v) {
		return "", nil
	}
	v = strings.TrimSpace(strings.TrimPrefix(v, ","))

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", "), nil
}
