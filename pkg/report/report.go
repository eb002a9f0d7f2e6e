package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"courtChecker/pkg/config"
	"courtChecker/pkg/scraper"
	"courtChecker/pkg/snapshot"
)

// Notifier receives the availability path of a run
type Notifier interface {
	NotifyAvailableSlots(ctx context.Context, slots []scraper.Slot, count int) error
}

// CheckResult summarizes one extraction
type CheckResult struct {
	Total          int
	Available      int
	AvailableSlots []string
}

// Summarize counts slots and lists the available ones as "MM/DD time", sorted
func Summarize(slots []scraper.Slot) CheckResult {
	result := CheckResult{Total: len(slots), AvailableSlots: []string{}}
	for _, slot := range slots {
		if !slot.Available() {
			continue
		}
		result.Available++
		result.AvailableSlots = append(result.AvailableSlots, slot.Date+" "+strings.TrimSpace(slot.Time))
	}
	sort.Strings(result.AvailableSlots)
	return result
}

// Reporter prints the result of a run, triggers the availability notification
// and writes the snapshot artifact.
type Reporter struct {
	out      io.Writer
	notifier Notifier
	store    *snapshot.Store
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a reporter. A nil store disables snapshots.
func New(out io.Writer, notifier Notifier, store *snapshot.Store, logger *zap.Logger) *Reporter {
	return &Reporter{
		out:      out,
		notifier: notifier,
		store:    store,
		logger:   logger.Named("report"),
		now:      time.Now,
	}
}

// Report prints slots grouped by date, notifies when anything is available
// and saves a snapshot.
func (r *Reporter) Report(ctx context.Context, slots []scraper.Slot) CheckResult {
	result := Summarize(slots)
	checkedAt := r.now().In(config.JST)

	if len(slots) == 0 {
		fmt.Fprintln(r.out, "😔 データが取得できませんでした")
		return result
	}

	r.render(slots, result, checkedAt)

	if result.Available > 0 {
		if err := r.notifier.NotifyAvailableSlots(ctx, slots, result.Available); err != nil {
			r.logger.Error("availability notification failed", zap.Error(err))
		}
	}

	r.save(slots, checkedAt)

	return result
}

func (r *Reporter) render(slots []scraper.Slot, result CheckResult, checkedAt time.Time) {
	fmt.Fprintf(r.out, "🏸 %s %s空き情報\n", strings.Fields(config.Facility)[0], config.Sport)
	fmt.Fprintf(r.out, "施設: %s\n", config.Facility)
	fmt.Fprintf(r.out, "確認日時: %s\n", checkedAt.Format(snapshot.CheckDateLayout))
	fmt.Fprintf(r.out, "期間: %s\n", config.Period)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"日付", "時間", "状況"})

	dates, groups := scraper.GroupByDate(slots)
	for i, date := range dates {
		if i > 0 {
			t.AppendSeparator()
		}
		for _, slot := range groups[date] {
			t.AppendRow(table.Row{"📅 " + date, slot.Time, marker(slot) + " " + slot.StatusText})
		}
	}

	if result.Available > 0 {
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("🎉 空きが見つかりました: %d件", result.Available)})
	} else {
		t.AppendFooter(table.Row{"", "", "😔 空きが見つかりませんでした"})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func (r *Reporter) save(slots []scraper.Slot, checkedAt time.Time) {
	if r.store == nil {
		return
	}

	snap := snapshot.New(config.Facility, config.Sport, config.Period, checkedAt, slots)
	path, err := r.store.Save(snap, checkedAt)
	if err != nil {
		r.logger.Error("failed to save results", zap.Error(err))
		return
	}
	r.logger.Info("results saved", zap.String("path", path))
}

func marker(slot scraper.Slot) string {
	if slot.Available() {
		return "✅"
	}
	return "❌"
}
