package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fc-roster-parser/internal/browser"
	"fc-roster-parser/internal/observability"
	"fc-roster-parser/internal/scraper"
)

// DefaultMaxPages — страховочный предел числа страниц
const DefaultMaxPages = 50

type CardLocator interface {
	Locate(ctx context.Context) ([]browser.Node, error)
}

type RecordBuilder interface {
	Build(ctx context.Context, card browser.Node) (*scraper.PlayerRecord, error)
}

type Pager interface {
	Advance(ctx context.Context) (bool, error)
}

// Options — параметры цикла сбора
type Options struct {
	MaxPages    int
	CardSettle  time.Duration
	PageSettle  time.Duration
	SnapshotDir string
	Sleep       scraper.Sleeper
}

type Orchestrator struct {
	driver  browser.Driver
	locator CardLocator
	builder RecordBuilder
	pager   Pager
	logger  *observability.Logger
	opts    Options
}

func NewOrchestrator(
	d browser.Driver,
	locator CardLocator,
	builder RecordBuilder,
	pager Pager,
	logger *observability.Logger,
	opts Options,
) *Orchestrator {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.Sleep == nil {
		opts.Sleep = scraper.Sleep
	}
	return &Orchestrator{
		driver:  d,
		locator: locator,
		builder: builder,
		pager:   pager,
		logger:  logger,
		opts:    opts,
	}
}

// StopReason — почему цикл завершился
type StopReason string

const (
	StopPageEmpty      StopReason = "page_empty"
	StopPagerExhausted StopReason = "pager_exhausted"
	StopPageCap        StopReason = "page_cap"
	StopDriverFault    StopReason = "driver_fault"
)

type PaginationStats struct {
	TotalPages    int
	TotalCards    int
	SkippedCards  int
	FailedCards   int
	StoppedReason StopReason
}

// CollectionResult — записи в порядке документа и статистика прогона
type CollectionResult struct {
	Records []scraper.PlayerRecord
	Stats   PaginationStats
}

// Run обходит страницы: поиск карточек → сбор записей → следующая страница.
// Ошибка возвращается только при сбое драйвера или отмене; собранные
// к этому моменту записи остаются в результате.
func (o *Orchestrator) Run(ctx context.Context) (*CollectionResult, error) {
	o.logger.Info("Starting collection", "max_pages", o.opts.MaxPages)

	result := &CollectionResult{}
	stats := &result.Stats

	for pageNum := 1; ; pageNum++ {
		if err := o.opts.Sleep(ctx, o.opts.PageSettle); err != nil {
			return o.abort(result, pageNum, err)
		}

		o.snapshot(ctx, pageNum)

		// Scanning
		cards, err := o.locator.Locate(ctx)
		if err != nil {
			return o.abort(result, pageNum, err)
		}
		if len(cards) == 0 {
			o.logger.Info("No cards found on page", "page", pageNum)
			stats.StoppedReason = StopPageEmpty
			break
		}

		stats.TotalPages++
		stats.TotalCards += len(cards)

		// Extracting
		collected := 0
		for i, card := range cards {
			if err := o.opts.Sleep(ctx, o.opts.CardSettle); err != nil {
				return o.abort(result, pageNum, err)
			}

			rec, err := o.builder.Build(ctx, card)
			if err != nil {
				if browser.IsFault(err) {
					return o.abort(result, pageNum, err)
				}
				stats.FailedCards++
				o.logger.Warn("Card extraction failed",
					"page", pageNum,
					"card_num", i+1,
					"error", err.Error(),
				)
				continue
			}
			if rec == nil {
				stats.SkippedCards++
				o.logger.Debug("Card skipped: missing name or rating",
					"page", pageNum,
					"card_num", i+1,
				)
				continue
			}

			result.Records = append(result.Records, *rec)
			collected++
		}

		o.logger.Info("Page analysis",
			"page", pageNum,
			"cards", len(cards),
			"collected", collected,
			"total_records", len(result.Records),
		)

		if pageNum >= o.opts.MaxPages {
			o.logger.Warn("Stopping: page cap reached", "max_pages", o.opts.MaxPages)
			stats.StoppedReason = StopPageCap
			break
		}

		// Paging
		advanced, err := o.pager.Advance(ctx)
		if err != nil {
			return o.abort(result, pageNum, err)
		}
		if !advanced {
			stats.StoppedReason = StopPagerExhausted
			break
		}
	}

	o.logger.Info("Collection completed",
		"total_pages", stats.TotalPages,
		"total_cards", stats.TotalCards,
		"records", len(result.Records),
		"skipped_cards", stats.SkippedCards,
		"failed_cards", stats.FailedCards,
		"reason", string(stats.StoppedReason),
	)

	return result, nil
}

func (o *Orchestrator) abort(result *CollectionResult, pageNum int, err error) (*CollectionResult, error) {
	result.Stats.StoppedReason = StopDriverFault
	o.logger.Error("Collection aborted",
		"page", pageNum,
		"records", len(result.Records),
		"error", err.Error(),
	)
	return result, fmt.Errorf("collection aborted at page %d: %w", pageNum, err)
}

// snapshot сохраняет HTML страницы, если драйвер это умеет и каталог задан
func (o *Orchestrator) snapshot(ctx context.Context, pageNum int) {
	if o.opts.SnapshotDir == "" {
		return
	}
	s, ok := o.driver.(browser.Snapshotter)
	if !ok {
		return
	}

	html, err := s.HTML(ctx)
	if err != nil {
		o.logger.Warn("Snapshot failed", "page", pageNum, "error", err.Error())
		return
	}
	if err := os.MkdirAll(o.opts.SnapshotDir, 0o755); err != nil {
		o.logger.Warn("Snapshot dir create failed", "error", err.Error())
		return
	}
	path := filepath.Join(o.opts.SnapshotDir, fmt.Sprintf("page-%03d.html", pageNum))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		o.logger.Warn("Snapshot write failed", "path", path, "error", err.Error())
		return
	}
	o.logger.Debug("Snapshot saved", "path", path)
}
