package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Target constants
const (
	// Base URL for the reservation system
	BaseURL = "https://yoyaku.city.toda.saitama.jp/yoyaku/"
	Host    = "yoyaku.city.toda.saitama.jp"

	SystemName = "戸田市施設予約システム"
	Facility   = "戸田市スポーツセンター 第1競技場1/8面"
	Sport      = "バドミントン"
	Period     = "1週間"

	// Labels clicked on the search screen
	SearchPlaceholder = "施設名・曜日などを入力"
	SearchButton      = "検索"
	CenterButton      = "スポーツセンター"
	CourtButton       = "第１競技場１／８面"
)

// Weekday is a day filter on the search screen. An Exact label must be the
// whole text of its element, others may appear inside longer text.
type Weekday struct {
	Label string
	Exact bool
}

// Weekdays selected in the search filter
var Weekdays = []Weekday{
	{Label: "土"},
	{Label: "日", Exact: true},
	{Label: "祝"},
}

// JST is the fixed UTC+9 zone used for the operating hours and all printed times
var JST = time.FixedZone("JST", 9*60*60)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultPath = "config.json"
)

// Config holds the application configuration
type Config struct {
	Env string

	Log          LogConfig
	Snapshot     SnapshotConfig
	Browser      BrowserConfig
	Probe        ProbeConfig
	Notification NotificationConfig
}

type LogConfig struct {
	Level  string
	Format string
	Dir    string
}

// SnapshotConfig controls the per-run JSON artifact.
type SnapshotConfig struct {
	Enabled bool
	Dir     string
}

// BrowserConfig bounds every wait of the headless session.
type BrowserConfig struct {
	Headless          bool
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	TableTimeout      time.Duration
	PollInterval      time.Duration
	WindowWidth       int
	WindowHeight      int
}

type ProbeConfig struct {
	Enabled bool
	Timeout time.Duration
}

// NotificationConfig mirrors the "notification" object of config.json.
// NotifyOnAvailable and MinAdvanceNoticeHours are read but not consulted
// anywhere: availability is always reported when the webhook is set.
type NotificationConfig struct {
	SlackWebhookURL       string
	NotifyOnAvailable     bool
	NotifyOnError         bool
	MinAdvanceNoticeHours int
}

// Load reads the JSON config file at path, an optional .env file and the
// environment. A missing config file is not an error: defaults are used and
// the returned bool is false.
func Load(path string) (*Config, bool, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.BindEnv("notification.slack_webhook_url", "SLACK_WEBHOOK_URL"); err != nil {
		return nil, false, err
	}

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		found = false
	}

	var errs []error
	duration := func(key string, fallback time.Duration) time.Duration {
		d, err := parseDuration(key, v.GetString(key), fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}

	cfg := &Config{}

	cfg.Env = v.GetString("env")

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Dir:    v.GetString("log.dir"),
	}

	cfg.Snapshot = SnapshotConfig{
		Enabled: v.GetBool("snapshot.enabled"),
		Dir:     v.GetString("snapshot.dir"),
	}

	cfg.Browser = BrowserConfig{
		Headless:          v.GetBool("browser.headless"),
		NavigationTimeout: duration("browser.navigation_timeout", 120*time.Second),
		ActionTimeout:     duration("browser.action_timeout", 30*time.Second),
		TableTimeout:      duration("browser.table_timeout", 15*time.Second),
		PollInterval:      duration("browser.poll_interval", 250*time.Millisecond),
		WindowWidth:       v.GetInt("browser.window_width"),
		WindowHeight:      v.GetInt("browser.window_height"),
	}

	cfg.Probe = ProbeConfig{
		Enabled: v.GetBool("probe.enabled"),
		Timeout: duration("probe.timeout", 30*time.Second),
	}

	cfg.Notification = NotificationConfig{
		SlackWebhookURL:       strings.TrimSpace(v.GetString("notification.slack_webhook_url")),
		NotifyOnAvailable:     v.GetBool("notification.notify_on_available"),
		NotifyOnError:         v.GetBool("notification.notify_on_error"),
		MinAdvanceNoticeHours: v.GetInt("notification.min_advance_notice_hours"),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, found, err
	}

	return cfg, found, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.dir", "logs")

	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.dir", "logs")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigation_timeout", "120s")
	v.SetDefault("browser.action_timeout", "30s")
	v.SetDefault("browser.table_timeout", "15s")
	v.SetDefault("browser.poll_interval", "250ms")
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)

	v.SetDefault("probe.enabled", true)
	v.SetDefault("probe.timeout", "30s")

	v.SetDefault("notification.slack_webhook_url", "")
	v.SetDefault("notification.notify_on_available", true)
	v.SetDefault("notification.notify_on_error", false)
	v.SetDefault("notification.min_advance_notice_hours", 24)
}

// parseDuration reads a duration such as "30s". Bare numbers are seconds.
func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("invalid duration for %s: %q", key, raw)
	}

	return d, nil
}
