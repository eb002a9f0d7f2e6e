package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"courtChecker/pkg/config"
	"courtChecker/pkg/scraper"
)

const (
	timeLayout   = "2006-01-02 15:04:05"
	maxListed    = 10
	availableDot = "● "
)

// ErrNoWebhook is returned when a send is attempted without a webhook URL
var ErrNoWebhook = errors.New("slack webhook URL is not set")

// Client posts availability and error notifications to a Slack incoming webhook
type Client struct {
	webhookURL    string
	notifyOnError bool
	noNotify      bool

	http   *resty.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewClient creates a new Slack client. noNotify turns every send into a logged no-op.
func NewClient(cfg config.NotificationConfig, noNotify bool, logger *zap.Logger) *Client {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		webhookURL:    cfg.SlackWebhookURL,
		notifyOnError: cfg.NotifyOnError,
		noNotify:      noNotify,
		http:          client,
		logger:        logger.Named("slack"),
		now:           time.Now,
	}
}

// NotifyAvailableSlots sends the availability summary. Nothing is sent when
// count is zero or the webhook is not configured.
func (c *Client) NotifyAvailableSlots(ctx context.Context, slots []scraper.Slot, count int) error {
	c.logger.Info("webhook configuration", zap.Bool("configured", c.webhookURL != ""))

	if c.webhookURL == "" {
		c.logger.Info("slack webhook URL is not set, skipping notification")
		return nil
	}
	if count == 0 {
		c.logger.Info("no available slots, skipping notification")
		return nil
	}
	if c.noNotify {
		c.logger.Info("notification skipped (--no-notify)")
		return nil
	}

	if err := c.send(ctx, c.availabilityMessage(slots, count)); err != nil {
		return err
	}
	c.logger.Info("availability notification sent", zap.Int("available", count))
	return nil
}

// NotifyError reports a failed run. It is a no-op unless notify_on_error is set.
func (c *Client) NotifyError(ctx context.Context, runErr error) error {
	if !c.notifyOnError || c.webhookURL == "" {
		return nil
	}
	if c.noNotify {
		c.logger.Info("error notification skipped (--no-notify)")
		return nil
	}

	if err := c.send(ctx, c.errorMessage(runErr)); err != nil {
		return err
	}
	c.logger.Info("error notification sent")
	return nil
}

// NotifyTest sends a sample availability notification
func (c *Client) NotifyTest(ctx context.Context) error {
	if c.webhookURL == "" {
		return ErrNoWebhook
	}
	slots := []scraper.Slot{
		{Date: "08/02", Time: "9:00", Status: scraper.StatusAvailable, StatusText: "予約可能", RawText: "9:00 △"},
		{Date: "08/03", Time: "13:00", Status: scraper.StatusAvailable, StatusText: "予約可能", RawText: "13:00 △"},
	}
	return c.send(ctx, c.availabilityMessage(slots, len(slots)))
}

func (c *Client) send(ctx context.Context, msg Message) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(msg).
		Post(c.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to send slack message: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("slack message failed with status: %d", res.StatusCode())
	}
	return nil
}

// AvailableLines formats available slots as "● MM/DD time", sorted
func AvailableLines(slots []scraper.Slot) []string {
	lines := []string{}
	for _, slot := range slots {
		if !slot.Available() {
			continue
		}
		clean := strings.TrimSpace(strings.NewReplacer("\n", "", "\r", "").Replace(slot.Time))
		lines = append(lines, availableDot+slot.Date+" "+clean)
	}
	sort.Strings(lines)
	return lines
}

func (c *Client) availabilityMessage(slots []scraper.Slot, count int) Message {
	lines := AvailableLines(slots)
	if len(lines) > maxListed {
		lines = lines[:maxListed]
	}

	return Message{Blocks: []Block{
		header("🏸 " + config.Sport + "空き情報"),
		section(
			fmt.Sprintf("*施設:*\n%s\n\n*空き件数:*\n%d件", config.Facility, count),
			"*確認日時:*\n"+c.now().In(config.JST).Format(timeLayout),
			"*期間:*\n"+config.Period,
		),
		section("*空き状況:*\n" + strings.Join(lines, "\n")),
		section(link()),
	}}
}

func (c *Client) errorMessage(runErr error) Message {
	text := fmt.Sprintf(":warning: %s エラー通知\nエラー内容:\n%v\n発生時刻:\n%s\n\n%s\n",
		config.SystemName,
		runErr,
		c.now().In(config.JST).Format(timeLayout),
		link(),
	)
	return Message{Text: text}
}

func link() string {
	return fmt.Sprintf("<%s|%s>", config.BaseURL, config.SystemName)
}
