package scraper

import (
	"context"
	"time"

	"fc-roster-parser/internal/browser"
	"fc-roster-parser/internal/observability"
)

// Sleeper — фиксированная пауза, прерываемая контекстом
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep — Sleeper по умолчанию
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pager переключает список на следующую страницу.
type Pager struct {
	driver       browser.Driver
	selectors    []string
	settleBefore time.Duration
	settleAfter  time.Duration
	sleep        Sleeper
	logger       *observability.Logger
}

func NewPager(d browser.Driver, selectors []string, settleBefore, settleAfter time.Duration, sleep Sleeper, logger *observability.Logger) *Pager {
	if sleep == nil {
		sleep = Sleep
	}
	return &Pager{
		driver:       d,
		selectors:    selectors,
		settleBefore: settleBefore,
		settleAfter:  settleAfter,
		sleep:        sleep,
		logger:       logger,
	}
}

// Advance нажимает первую видимую и доступную кнопку «дальше».
// false без ошибки — страниц больше нет.
func (p *Pager) Advance(ctx context.Context) (bool, error) {
	for _, sel := range p.selectors {
		next, found, err := FirstNode(ctx, p.driver, nil, []string{sel}, Usable(p.driver))
		if err != nil {
			return false, err
		}
		if !found {
			continue
		}

		if err := p.driver.ScrollIntoView(ctx, next); err != nil {
			if browser.IsFault(err) {
				return false, err
			}
			p.logger.Debug("Scroll to next button failed", "selector", sel, "error", err.Error())
		}
		if err := p.sleep(ctx, p.settleBefore); err != nil {
			return false, err
		}

		if err := p.driver.Activate(ctx, next); err != nil {
			if browser.IsFault(err) {
				return false, err
			}
			p.logger.Warn("Next button click failed", "selector", sel, "error", err.Error())
			continue
		}

		p.logger.Debug("Next button clicked", "selector", sel)
		if err := p.sleep(ctx, p.settleAfter); err != nil {
			return false, err
		}
		return true, nil
	}

	p.logger.Info("Next button not found or disabled")
	return false, nil
}
