package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fc-roster-parser/internal/browser"
	"fc-roster-parser/internal/observability"
	"fc-roster-parser/internal/scraper"
)

// ErrRosterNotReached — список игроков клуба так и не открылся
var ErrRosterNotReached = errors.New("roster page not reached")

// loginMarkers — признаки того, что форма входа всё ещё на экране
var loginMarkers = []string{
	`input[type="email"]`,
	`input[type="password"]`,
	`form[action*="login"]`,
	"div.login-container",
}

type Options struct {
	URL         string
	AutoLogin   bool
	Credentials Credentials
	// LoginWait — пауза после отправки формы входа
	LoginWait time.Duration
	// Settle — пауза после каждого перехода по навигации
	Settle time.Duration
	Sleep  scraper.Sleeper
	Out    io.Writer
	In     io.Reader
}

// Session доводит вкладку браузера до списка игроков клуба.
type Session struct {
	driver    browser.Driver
	selectors *scraper.Selectors
	opts      Options
	input     *bufio.Reader
	logger    *observability.Logger
}

func New(d browser.Driver, selectors *scraper.Selectors, opts Options, logger *observability.Logger) *Session {
	if opts.Sleep == nil {
		opts.Sleep = scraper.Sleep
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.In == nil {
		opts.In = strings.NewReader("")
	}
	return &Session{
		driver:    d,
		selectors: selectors,
		opts:      opts,
		input:     bufio.NewReader(opts.In),
		logger:    logger,
	}
}

// Prepare: открыть веб-приложение → войти → Клуб → Игроки → проверить список.
// Любой автоматический шаг, который не удался, заменяется ручным с ожиданием ENTER.
func (s *Session) Prepare(ctx context.Context) error {
	s.logger.Info("Opening web app", "url", s.opts.URL)
	if err := s.driver.Navigate(ctx, s.opts.URL); err != nil {
		return fmt.Errorf("failed to open web app: %w", err)
	}
	if err := s.opts.Sleep(ctx, s.opts.Settle); err != nil {
		return err
	}

	if err := s.login(ctx); err != nil {
		return err
	}

	reached, err := s.rosterReached(ctx)
	if err != nil {
		return err
	}
	if reached {
		return nil
	}

	ok, err := s.navigateToRoster(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	s.logger.Info("Automatic navigation failed, waiting for manual navigation")
	if err := s.waitForUser(ctx,
		"MANUAL NAVIGATION REQUIRED",
		"1. Click 'Club' in the navigation bar",
		"2. Click 'Players' in the club hub",
		"3. Wait for the player list to load",
		"4. Press ENTER when ready",
	); err != nil {
		return err
	}

	reached, err = s.rosterReached(ctx)
	if err != nil {
		return err
	}
	if !reached {
		return ErrRosterNotReached
	}
	return nil
}

func (s *Session) login(ctx context.Context) error {
	if s.opts.AutoLogin {
		if s.opts.Credentials.Empty() {
			s.logger.Warn("Credentials not configured, falling back to manual login")
		} else {
			ok, err := s.autoLogin(ctx)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
			s.logger.Warn("Automatic login failed, falling back to manual login")
		}
	}

	return s.waitForUser(ctx,
		"MANUAL LOGIN REQUIRED",
		"1. Log in to your EA account in the browser",
		"2. Optionally open 'Club > Players'",
		"3. Press ENTER when ready",
	)
}

// autoLogin заполняет форму. false без ошибки — форму заполнить не удалось
// или после отправки она всё ещё на экране.
func (s *Session) autoLogin(ctx context.Context) (bool, error) {
	typer, ok := s.driver.(browser.Typer)
	if !ok {
		s.logger.Warn("Driver cannot type, automatic login unavailable")
		return false, nil
	}

	email, found, err := scraper.FirstNode(ctx, s.driver, nil, s.selectors.EmailField, nil)
	if err != nil {
		return false, err
	}
	if !found {
		s.logger.Warn("Email field not found")
		return false, nil
	}
	if err := typer.InputText(ctx, email, s.opts.Credentials.Email); err != nil {
		return false, tolerate(err)
	}

	password, found, err := scraper.FirstNode(ctx, s.driver, nil, s.selectors.PasswordField, nil)
	if err != nil {
		return false, err
	}
	if !found {
		s.logger.Warn("Password field not found")
		return false, nil
	}
	if err := typer.InputText(ctx, password, s.opts.Credentials.Password); err != nil {
		return false, tolerate(err)
	}

	if err := s.submit(ctx, typer, password); err != nil {
		return false, tolerate(err)
	}

	if err := s.opts.Sleep(ctx, s.opts.LoginWait); err != nil {
		return false, err
	}

	_, still, err := scraper.FirstNode(ctx, s.driver, nil, loginMarkers, scraper.Usable(s.driver))
	if err != nil {
		return false, err
	}
	if still {
		s.logger.Warn("Still on login page after submit")
		return false, nil
	}

	s.logger.Info("Logged in")
	return true, nil
}

// submit нажимает кнопку входа, а если её нет — Enter в поле пароля
func (s *Session) submit(ctx context.Context, typer browser.Typer, password browser.Node) error {
	button, found, err := scraper.FirstNode(ctx, s.driver, nil, s.selectors.LoginButton, nil)
	if err != nil {
		return err
	}
	if found {
		s.logger.Debug("Clicking login button")
		return s.driver.Activate(ctx, button)
	}
	s.logger.Debug("Login button not found, pressing Enter")
	return typer.PressEnter(ctx, password)
}

// navigateToRoster: вкладка «Клуб» → плитка «Игроки» → проверка списка
func (s *Session) navigateToRoster(ctx context.Context) (bool, error) {
	steps := []struct {
		name      string
		selectors []string
	}{
		{"club tab", s.selectors.ClubTab},
		{"players tile", s.selectors.PlayersTile},
	}

	for _, step := range steps {
		n, found, err := scraper.FirstNode(ctx, s.driver, nil, step.selectors, scraper.Usable(s.driver))
		if err != nil {
			return false, err
		}
		if !found {
			s.logger.Warn("Navigation control not found", "control", step.name)
			return false, nil
		}
		if err := s.driver.Activate(ctx, n); err != nil {
			if browser.IsFault(err) {
				return false, err
			}
			s.logger.Warn("Navigation click failed", "control", step.name, "error", err.Error())
			return false, nil
		}
		s.logger.Debug("Navigation control clicked", "control", step.name)
		if err := s.opts.Sleep(ctx, s.opts.Settle); err != nil {
			return false, err
		}
	}

	return s.rosterReached(ctx)
}

// rosterReached: виден хотя бы один маркер списка игроков
func (s *Session) rosterReached(ctx context.Context) (bool, error) {
	for _, sel := range s.selectors.RosterMarkers {
		_, found, err := scraper.FirstNode(ctx, s.driver, nil, []string{sel}, visible(s.driver))
		if err != nil {
			return false, err
		}
		if found {
			s.logger.Info("Roster page confirmed", "marker", sel)
			return true, nil
		}
	}
	return false, nil
}

// waitForUser печатает инструкцию и ждёт ENTER. Отмена контекста прерывает ожидание.
func (s *Session) waitForUser(ctx context.Context, title string, lines ...string) error {
	bar := strings.Repeat("=", 50)
	fmt.Fprintf(s.opts.Out, "\n%s\n%s\n%s\n", bar, title, bar)
	for _, line := range lines {
		fmt.Fprintln(s.opts.Out, line)
	}
	fmt.Fprintln(s.opts.Out, bar)

	done := make(chan error, 1)
	go func() {
		_, err := s.input.ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("manual step aborted: %w", err)
		}
	}
	s.logger.Info("User confirmed manual step", "step", title)
	return nil
}

func visible(d browser.Driver) func(context.Context, browser.Node) (bool, error) {
	return func(ctx context.Context, n browser.Node) (bool, error) {
		return d.IsVisible(ctx, n)
	}
}

// tolerate пропускает наверх только сбои драйвера
func tolerate(err error) error {
	if browser.IsFault(err) {
		return err
	}
	return nil
}
