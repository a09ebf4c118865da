package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SnapshotDriver реализует Driver поверх сохранённых HTML-страниц.
// Страницы образуют последовательность: активация элемента со ссылкой
// (href / data-href) открывает страницу с этим именем, любая другая
// активация переходит к следующей странице последовательности.
type SnapshotDriver struct {
	names   []string
	pages   map[string]string
	current int
	doc     *goquery.Document
}

// NewSnapshotDriver создаёт драйвер из упорядоченного набора страниц
// (имя → HTML) и открывает первую.
func NewSnapshotDriver(names []string, pages map[string]string) (*SnapshotDriver, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no snapshot pages")
	}
	d := &SnapshotDriver{
		names: names,
		pages: pages,
	}
	if err := d.open(0); err != nil {
		return nil, err
	}
	return d, nil
}

// NewSnapshotDriverFromHTML — удобная обёртка для последовательности страниц без имён
func NewSnapshotDriverFromHTML(pages ...string) (*SnapshotDriver, error) {
	names := make([]string, len(pages))
	m := make(map[string]string, len(pages))
	for i, html := range pages {
		names[i] = fmt.Sprintf("page-%03d.html", i+1)
		m[names[i]] = html
	}
	return NewSnapshotDriver(names, m)
}

// LoadSnapshotDir читает все *.html из каталога в лексикографическом порядке
func LoadSnapshotDir(dir string) (*SnapshotDriver, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	sort.Strings(files)

	names := make([]string, 0, len(files))
	pages := make(map[string]string, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", f, err)
		}
		name := filepath.Base(f)
		names = append(names, name)
		pages[name] = string(data)
	}
	return NewSnapshotDriver(names, pages)
}

// Page возвращает имя открытой страницы
func (d *SnapshotDriver) Page() string {
	return d.names[d.current]
}

func (d *SnapshotDriver) open(idx int) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(d.pages[d.names[idx]]))
	if err != nil {
		return fmt.Errorf("%w: failed to parse snapshot %s: %w", ErrDriverFault, d.names[idx], err)
	}
	d.current = idx
	d.doc = doc
	return nil
}

func (d *SnapshotDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := strings.TrimPrefix(url, "./")
	for i, n := range d.names {
		if n == name {
			return d.open(i)
		}
	}
	return fmt.Errorf("%w: unknown snapshot %q", ErrDriverFault, url)
}

func (d *SnapshotDriver) FindAll(ctx context.Context, selector string, scope Node) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := d.scope(scope)
	if err != nil {
		return nil, err
	}

	var nodes []Node
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, s)
	})
	return nodes, nil
}

func (d *SnapshotDriver) FindFirst(ctx context.Context, selector string, scope Node) (Node, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	root, err := d.scope(scope)
	if err != nil {
		return nil, false, err
	}

	first := root.Find(selector).First()
	if first.Length() == 0 {
		return nil, false, nil
	}
	return first, true, nil
}

// ScrollIntoView для статического документа ничего не делает
func (d *SnapshotDriver) ScrollIntoView(ctx context.Context, n Node) error {
	if _, err := selection(n); err != nil {
		return err
	}
	return ctx.Err()
}

func (d *SnapshotDriver) Activate(ctx context.Context, n Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, err := selection(n)
	if err != nil {
		return err
	}

	for _, attr := range []string{"data-href", "href"} {
		if target, ok := s.Attr(attr); ok && target != "" && !strings.HasPrefix(target, "#") {
			return d.Navigate(ctx, target)
		}
	}

	if d.current+1 >= len(d.names) {
		return fmt.Errorf("activate: no snapshot after %s", d.Page())
	}
	return d.open(d.current + 1)
}

func (d *SnapshotDriver) Attribute(ctx context.Context, n Node, name string) (string, bool, error) {
	s, err := selection(n)
	if err != nil {
		return "", false, err
	}
	v, ok := s.Attr(name)
	return v, ok, ctx.Err()
}

func (d *SnapshotDriver) Text(ctx context.Context, n Node) (string, error) {
	s, err := selection(n)
	if err != nil {
		return "", err
	}
	return s.Text(), ctx.Err()
}

// IsVisible учитывает hidden, aria-hidden и inline-стиль на элементе и его предках
func (d *SnapshotDriver) IsVisible(ctx context.Context, n Node) (bool, error) {
	s, err := selection(n)
	if err != nil {
		return false, err
	}
	for cur := s; cur.Length() > 0; cur = cur.Parent() {
		if _, hidden := cur.Attr("hidden"); hidden {
			return false, ctx.Err()
		}
		if aria, _ := cur.Attr("aria-hidden"); aria == "true" {
			return false, ctx.Err()
		}
		style, _ := cur.Attr("style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false, ctx.Err()
		}
	}
	return true, ctx.Err()
}

func (d *SnapshotDriver) IsEnabled(ctx context.Context, n Node) (bool, error) {
	s, err := selection(n)
	if err != nil {
		return false, err
	}
	if _, disabled := s.Attr("disabled"); disabled {
		return false, ctx.Err()
	}
	if aria, _ := s.Attr("aria-disabled"); aria == "true" {
		return false, ctx.Err()
	}
	return !s.HasClass("disabled"), ctx.Err()
}

func (d *SnapshotDriver) InputText(ctx context.Context, n Node, text string) error {
	s, err := selection(n)
	if err != nil {
		return err
	}
	s.SetAttr("value", text)
	return ctx.Err()
}

// PressEnter отправляет форму: переходит к следующей странице
func (d *SnapshotDriver) PressEnter(ctx context.Context, n Node) error {
	if _, err := selection(n); err != nil {
		return err
	}
	if d.current+1 >= len(d.names) {
		return ctx.Err()
	}
	return d.open(d.current + 1)
}

func (d *SnapshotDriver) HTML(ctx context.Context) (string, error) {
	html, err := goquery.OuterHtml(d.doc.Selection)
	if err != nil {
		return "", fmt.Errorf("html: %w", err)
	}
	return html, ctx.Err()
}

func (d *SnapshotDriver) scope(n Node) (*goquery.Selection, error) {
	if n == nil {
		return d.doc.Selection, nil
	}
	return selection(n)
}

func selection(n Node) (*goquery.Selection, error) {
	s, ok := n.(*goquery.Selection)
	if !ok || s == nil {
		return nil, fmt.Errorf("foreign node %T", n)
	}
	return s, nil
}
