package scraper

import (
	"context"

	"fc-roster-parser/internal/browser"
)

// Lookup — одна стратегия поиска. ok=false означает «не нашлось, пробуй дальше»;
// ошибка прерывает цепочку.
type Lookup[T any] func(ctx context.Context) (value T, ok bool, err error)

// Chain — упорядоченный список стратегий, вычисляемых лениво до первого успеха.
type Chain[T any] []Lookup[T]

// First возвращает результат первой успешной стратегии
func (c Chain[T]) First(ctx context.Context) (T, bool, error) {
	var zero T
	for _, lookup := range c {
		v, ok, err := lookup(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return v, true, nil
		}
	}
	return zero, false, nil
}

// tolerant превращает ошибки отдельного элемента в промах, пропуская
// наверх только сбои драйвера.
func tolerant[T any](l Lookup[T]) Lookup[T] {
	return func(ctx context.Context) (T, bool, error) {
		v, ok, err := l(ctx)
		if err != nil {
			var zero T
			if browser.IsFault(err) {
				return zero, false, err
			}
			return zero, false, nil
		}
		return v, ok, nil
	}
}

// textChain строит цепочку «первый элемент по селектору с непустым текстом»
func textChain(d browser.Driver, scope browser.Node, selectors []string) Chain[string] {
	chain := make(Chain[string], 0, len(selectors))
	for _, sel := range selectors {
		chain = append(chain, tolerant(textLookup(d, scope, sel)))
	}
	return chain
}

func textLookup(d browser.Driver, scope browser.Node, selector string) Lookup[string] {
	return func(ctx context.Context) (string, bool, error) {
		n, found, err := d.FindFirst(ctx, selector, scope)
		if err != nil || !found {
			return "", false, err
		}
		text, err := d.Text(ctx, n)
		if err != nil {
			return "", false, err
		}
		text = cleanText(text)
		return text, text != "", nil
	}
}

// nodeChain: первый элемент по селектору, для которого выполняется accept
func nodeChain(d browser.Driver, scope browser.Node, selectors []string, accept func(context.Context, browser.Node) (bool, error)) Chain[browser.Node] {
	chain := make(Chain[browser.Node], 0, len(selectors))
	for _, sel := range selectors {
		sel := sel
		chain = append(chain, tolerant(func(ctx context.Context) (browser.Node, bool, error) {
			n, found, err := d.FindFirst(ctx, sel, scope)
			if err != nil || !found {
				return nil, false, err
			}
			if accept == nil {
				return n, true, nil
			}
			ok, err := accept(ctx, n)
			if err != nil || !ok {
				return nil, false, err
			}
			return n, true, nil
		}))
	}
	return chain
}

// FirstNode — экспортированная обёртка над nodeChain для сборщиков вне пакета
func FirstNode(ctx context.Context, d browser.Driver, scope browser.Node, selectors []string, accept func(context.Context, browser.Node) (bool, error)) (browser.Node, bool, error) {
	return nodeChain(d, scope, selectors, accept).First(ctx)
}

// Usable: элемент видим и доступен
func Usable(d browser.Driver) func(context.Context, browser.Node) (bool, error) {
	return func(ctx context.Context, n browser.Node) (bool, error) {
		enabled, err := d.IsEnabled(ctx, n)
		if err != nil || !enabled {
			return false, err
		}
		return d.IsVisible(ctx, n)
	}
}
