package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"fc-roster-parser/internal/observability"
)

// RodOptions — параметры запуска Chrome
type RodOptions struct {
	Headless        bool
	ChromePath      string
	UserDataDir     string
	PageTimeout     time.Duration
	WaitLoadTimeout time.Duration
	SlowMotion      time.Duration
	Backoff         Backoff
}

// RodDriver реализует Driver поверх одной вкладки go-rod.
type RodDriver struct {
	browser *rod.Browser
	page    *rod.Page
	opts    RodOptions
	logger  *observability.Logger
}

// LaunchRod запускает браузер и открывает пустую вкладку
func LaunchRod(opts RodOptions, logger *observability.Logger) (*RodDriver, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-sandbox").
		Set("disable-dev-shm-usage")
	if opts.ChromePath != "" {
		l = l.Bin(opts.ChromePath)
	}
	if opts.UserDataDir != "" {
		l = l.UserDataDir(opts.UserDataDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if opts.SlowMotion > 0 {
		b = b.SlowMotion(opts.SlowMotion)
	}
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	logger.Info("Browser launched",
		"headless", opts.Headless,
		"control_url", controlURL,
	)

	return &RodDriver{
		browser: b,
		page:    page,
		opts:    opts,
		logger:  logger,
	}, nil
}

// Close закрывает браузер
func (d *RodDriver) Close() error {
	if d.browser == nil {
		return nil
	}
	return d.browser.Close()
}

func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	attempt := 0
	err := d.opts.Backoff.Retry(ctx, func() error {
		attempt++
		p := d.page.Context(ctx)
		if d.opts.PageTimeout > 0 {
			p = p.Timeout(d.opts.PageTimeout)
		}
		if err := p.Navigate(url); err != nil {
			d.logger.Warn("Navigation failed",
				"url", url,
				"attempt", attempt,
				"error", err.Error(),
			)
			return err
		}
		if d.opts.WaitLoadTimeout > 0 {
			p = d.page.Context(ctx).Timeout(d.opts.WaitLoadTimeout)
		}
		return p.WaitLoad()
	})
	if err != nil {
		return fault("navigate", err)
	}
	return nil
}

func (d *RodDriver) FindAll(ctx context.Context, selector string, scope Node) ([]Node, error) {
	var (
		els rod.Elements
		err error
	)
	if scope == nil {
		els, err = d.page.Context(ctx).Elements(selector)
	} else {
		el, ok := scope.(*rod.Element)
		if !ok {
			return nil, fmt.Errorf("find all %q: foreign node %T", selector, scope)
		}
		els, err = el.Context(ctx).Elements(selector)
	}
	if err != nil {
		return nil, d.wrap("find all "+selector, err)
	}

	nodes := make([]Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, el)
	}
	return nodes, nil
}

// FindFirst не использует page.Element: тот ждёт появления элемента,
// а отсутствие здесь — штатный результат.
func (d *RodDriver) FindFirst(ctx context.Context, selector string, scope Node) (Node, bool, error) {
	nodes, err := d.FindAll(ctx, selector, scope)
	if err != nil || len(nodes) == 0 {
		return nil, false, err
	}
	return nodes[0], true, nil
}

func (d *RodDriver) ScrollIntoView(ctx context.Context, n Node) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	return d.wrap("scroll into view", el.Context(ctx).ScrollIntoView())
}

func (d *RodDriver) Activate(ctx context.Context, n Node) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	return d.wrap("click", el.Context(ctx).Click(proto.InputMouseButtonLeft, 1))
}

func (d *RodDriver) Attribute(ctx context.Context, n Node, name string) (string, bool, error) {
	el, err := element(n)
	if err != nil {
		return "", false, err
	}
	v, err := el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, d.wrap("attribute "+name, err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (d *RodDriver) Text(ctx context.Context, n Node) (string, error) {
	el, err := element(n)
	if err != nil {
		return "", err
	}
	text, err := el.Context(ctx).Text()
	if err != nil {
		return "", d.wrap("text", err)
	}
	return text, nil
}

func (d *RodDriver) IsVisible(ctx context.Context, n Node) (bool, error) {
	el, err := element(n)
	if err != nil {
		return false, err
	}
	visible, err := el.Context(ctx).Visible()
	if err != nil {
		return false, d.wrap("visible", err)
	}
	return visible, nil
}

// IsEnabled смотрит на атрибуты disabled и aria-disabled
func (d *RodDriver) IsEnabled(ctx context.Context, n Node) (bool, error) {
	_, disabled, err := d.Attribute(ctx, n, "disabled")
	if err != nil {
		return false, err
	}
	if disabled {
		return false, nil
	}
	aria, _, err := d.Attribute(ctx, n, "aria-disabled")
	if err != nil {
		return false, err
	}
	return aria != "true", nil
}

func (d *RodDriver) InputText(ctx context.Context, n Node, text string) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	el = el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return d.wrap("select text", err)
	}
	return d.wrap("input", el.Input(text))
}

func (d *RodDriver) PressEnter(ctx context.Context, n Node) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	return d.wrap("press enter", el.Context(ctx).Type(input.Enter))
}

func (d *RodDriver) HTML(ctx context.Context) (string, error) {
	html, err := d.page.Context(ctx).HTML()
	if err != nil {
		return "", d.wrap("html", err)
	}
	return html, nil
}

// wrap отделяет ошибки отдельного элемента (устарел, перекрыт, невидим)
// от сбоев сессии, которые помечаются ErrDriverFault.
func (d *RodDriver) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if isElementError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fault(op, err)
}

// elementCDPErrors — ответы протокола, относящиеся к одному объекту страницы.
// Остальные ошибки CDP (сессия не найдена, вкладка отсоединена) — сбой драйвера.
var elementCDPErrors = []error{
	cdp.ErrObjNotFound,
	cdp.ErrNodeNotFoundAtPos,
	cdp.ErrCtxNotFound,
	cdp.ErrCtxDestroyed,
}

func isElementError(err error) bool {
	var (
		notFound    *rod.ObjectNotFoundError
		notInteract *rod.NotInteractableError
		invisible   *rod.InvisibleShapeError
		covered     *rod.CoveredError
		noPointer   *rod.NoPointerEventsError
	)
	if errors.As(err, &notFound) ||
		errors.As(err, &notInteract) ||
		errors.As(err, &invisible) ||
		errors.As(err, &covered) ||
		errors.As(err, &noPointer) {
		return true
	}
	for _, target := range elementCDPErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func fault(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDriverFault, err)
}

func element(n Node) (*rod.Element, error) {
	el, ok := n.(*rod.Element)
	if !ok || el == nil {
		return nil, fmt.Errorf("foreign node %T", n)
	}
	return el, nil
}
