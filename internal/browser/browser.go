package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"courtChecker/pkg/config"
	"courtChecker/pkg/logger"
	"courtChecker/pkg/scraper"
)

// ErrTableNotReady is returned when the availability table never gets a data row
var ErrTableNotReady = errors.New("availability table not ready")

// Browser handles the Chrome automation
type Browser struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	ctx         context.Context
	cancelCtx   context.CancelFunc

	url    string
	cfg    config.BrowserConfig
	logger *zap.Logger
}

// New starts a headless Chrome with a single tab. Close must be called to
// release it.
func New(ctx context.Context, cfg config.BrowserConfig, l *zap.Logger) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.NoSandbox,
		chromedp.Flag("disable-web-security", true),
		chromedp.Flag("disable-site-isolation-trials", true),
		chromedp.Flag("disable-features", "VizDisplayCompositor"),
		chromedp.Flag("headless", cfg.Headless),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.BrowserLogf(l)))

	b := &Browser{
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		ctx:         tabCtx,
		cancelCtx:   cancelCtx,
		url:         config.BaseURL,
		cfg:         cfg,
		logger:      l.Named("browser"),
	}

	// the first Run owns the browser process, so it must not carry a step timeout
	if err := chromedp.Run(tabCtx); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return b, nil
}

// Close closes the tab and the browser allocator
func (b *Browser) Close() {
	b.cancelCtx()
	b.cancelAlloc()
}

// FetchAvailabilityTable opens the reservation site, applies the search
// filters for the target court and returns the rendered availability table.
func (b *Browser) FetchAvailabilityTable() (scraper.Table, error) {
	startTime := time.Now()

	b.logger.Info("opening reservation system", zap.String("url", b.url))
	if err := b.navigate(); err != nil {
		return scraper.Table{}, err
	}

	if err := b.setSearchConditions(); err != nil {
		return scraper.Table{}, err
	}
	b.logger.Info("search conditions set")

	table, err := b.readTable()
	if err != nil {
		return scraper.Table{}, err
	}

	b.logger.Info("availability table read",
		zap.Int("rows", len(table.Rows)),
		zap.Duration("elapsed", time.Since(startTime)))
	return table, nil
}

func (b *Browser) navigate() error {
	ctx, cancel := context.WithTimeout(b.ctx, b.cfg.NavigationTimeout)
	defer cancel()

	resp, err := chromedp.RunResponse(ctx, chromedp.Navigate(b.url))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			b.logger.Warn("page load timed out, waiting for DOM content instead", zap.Error(err))
		} else {
			b.logger.Warn("page load failed, waiting for DOM content instead", zap.Error(err))
		}
		return b.waitForDOM()
	}

	b.logResponse(resp)

	return chromedp.Run(ctx, chromedp.WaitReady("body", chromedp.ByQuery))
}

func (b *Browser) logResponse(resp *network.Response) {
	if resp == nil {
		return
	}
	b.logger.Info("page loaded", zap.Int64("status", resp.Status), zap.String("url", resp.URL))
	if resp.Status != http.StatusOK {
		b.logger.Warn("unexpected HTTP status", zap.Int64("status", resp.Status))
	}
}

func (b *Browser) waitForDOM() error {
	ctx, cancel := context.WithTimeout(b.ctx, 30*time.Second)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}
	b.logger.Info("DOM content loaded")
	return nil
}

func (b *Browser) setSearchConditions() error {
	b.logger.Info("step 1: open search options")
	if err := b.click(fmt.Sprintf(`input[placeholder=%q]`, config.SearchPlaceholder), chromedp.ByQuery); err != nil {
		return fmt.Errorf("failed to open search options: %w", err)
	}

	b.logger.Info("step 2: select weekdays")
	b.selectWeekdays()

	b.logger.Info("step 3: search")
	if err := b.click(buttonContaining(config.SearchButton), chromedp.BySearch); err != nil {
		return fmt.Errorf("failed to click search button: %w", err)
	}

	b.logger.Info("step 4: select facility", zap.String("facility", config.CenterButton))
	if err := b.click(buttonNamed(config.CenterButton), chromedp.BySearch); err != nil {
		return fmt.Errorf("failed to select facility: %w", err)
	}

	b.logger.Info("step 5: select court", zap.String("court", config.CourtButton))
	if err := b.click(buttonNamed(config.CourtButton), chromedp.BySearch); err != nil {
		return fmt.Errorf("failed to select court: %w", err)
	}

	return nil
}

// selectWeekdays ticks the weekend and holiday filters. A failure here only
// widens the search, so it is logged and skipped.
func (b *Browser) selectWeekdays() {
	for _, day := range config.Weekdays {
		sel := textContaining(day.Label)
		if day.Exact {
			sel = exactText(day.Label)
		}
		if err := b.click(sel, chromedp.BySearch); err != nil {
			b.logger.Warn("weekday selection failed, continuing without it",
				zap.String("weekday", day.Label), zap.Error(err))
			return
		}
		b.logger.Info("weekday selected", zap.String("weekday", day.Label))
	}
}

func (b *Browser) readTable() (scraper.Table, error) {
	b.logger.Info("step 6: wait for availability table")

	ctx, cancel := context.WithTimeout(b.ctx, b.cfg.TableTimeout)
	defer cancel()

	var ready bool
	err := chromedp.Run(ctx,
		chromedp.WaitVisible("table", chromedp.ByQuery),
		chromedp.Poll(tableReadyExpression, &ready,
			chromedp.WithPollingInterval(b.cfg.PollInterval),
			chromedp.WithPollingTimeout(b.cfg.TableTimeout),
		),
	)
	if err != nil {
		return scraper.Table{}, tableNotReady(err)
	}

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("table", &html, chromedp.ByQuery)); err != nil {
		return scraper.Table{}, fmt.Errorf("failed to read table: %w", err)
	}

	table, err := scraper.ParseTable(html)
	if err != nil {
		return scraper.Table{}, err
	}

	if len(table.Rows) > 0 {
		b.logger.Info("table structure",
			zap.Int("header_cells", len(table.Rows[0])),
			zap.Int("data_rows", len(table.Rows)-1),
			zap.Strings("dates", scraper.HeaderDates(table.Rows[0])))
	}
	return table, nil
}

func tableNotReady(err error) error {
	return fmt.Errorf("%w: %w", ErrTableNotReady, err)
}

func (b *Browser) click(sel string, opts ...chromedp.QueryOption) error {
	ctx, cancel := context.WithTimeout(b.ctx, b.cfg.ActionTimeout)
	defer cancel()

	return chromedp.Run(ctx,
		chromedp.WaitVisible(sel, opts...),
		chromedp.Click(sel, opts...),
	)
}
