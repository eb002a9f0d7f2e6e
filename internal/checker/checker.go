package checker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"courtChecker/pkg/config"
	"courtChecker/pkg/report"
	"courtChecker/pkg/scraper"
)

// Outcome is the terminal state of one run
type Outcome string

const (
	Completed       Outcome = "completed"
	SkippedOffHours Outcome = "skipped-off-hours"
	Failed          Outcome = "failed"
)

// Operating hours of the reservation system, JST
const (
	OpenHour  = 9
	CloseHour = 24
)

// Session is a browser session able to render the availability table
type Session interface {
	FetchAvailabilityTable() (scraper.Table, error)
	Close()
}

// OpenFunc starts a new Session
type OpenFunc func(ctx context.Context) (Session, error)

type Prober interface {
	Check(ctx context.Context) bool
}

type Reporter interface {
	Report(ctx context.Context, slots []scraper.Slot) report.CheckResult
}

type ErrorNotifier interface {
	NotifyError(ctx context.Context, err error) error
}

// Checker runs one availability check end to end
type Checker struct {
	open     OpenFunc
	prober   Prober
	reporter Reporter
	notifier ErrorNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Checker. prober may be nil.
func New(open OpenFunc, prober Prober, reporter Reporter, notifier ErrorNotifier, logger *zap.Logger) *Checker {
	return &Checker{
		open:     open,
		prober:   prober,
		reporter: reporter,
		notifier: notifier,
		logger:   logger.Named("checker"),
		now:      time.Now,
	}
}

// WithinHours reports whether t falls in [09:00, 24:00) JST
func WithinHours(t time.Time) bool {
	hour := t.In(config.JST).Hour()
	return hour >= OpenHour && hour < CloseHour
}

// Run performs one check. Off-hours runs return SkippedOffHours without
// starting a browser. A failed run sends one error notification and returns
// the error.
func (c *Checker) Run(ctx context.Context) (Outcome, error) {
	c.logger.Info("=== checker started ===")

	now := c.now().In(config.JST)
	c.logger.Info("current time", zap.String("jst", now.Format("2006-01-02 15:04:05")))
	if !WithinHours(now) {
		c.logger.Info("outside operating hours (9:00-23:59 JST), skipping")
		return SkippedOffHours, nil
	}

	if c.prober != nil && !c.prober.Check(ctx) {
		c.logger.Warn("network connection looks broken, continuing anyway")
	}

	if err := c.check(ctx); err != nil {
		c.logger.Error("check failed", zap.Error(err))
		if nerr := c.notifier.NotifyError(ctx, err); nerr != nil {
			c.logger.Error("error notification failed", zap.Error(nerr))
		}
		return Failed, err
	}

	return Completed, nil
}

func (c *Checker) check(ctx context.Context) error {
	session, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	table, err := session.FetchAvailabilityTable()
	if err != nil {
		return fmt.Errorf("failed to fetch availability: %w", err)
	}

	slots := scraper.Extract(table)
	c.logger.Info("availability data extracted", zap.Int("slots", len(slots)))
	if len(slots) == 0 {
		c.logger.Warn("no table data could be read")
	}

	result := c.reporter.Report(ctx, slots)
	c.logger.Info("check complete",
		zap.Int("total", result.Total),
		zap.Int("available", result.Available))
	return nil
}
