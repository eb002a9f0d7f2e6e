package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "")

	cfg, found, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.False(t, found)

	require.Equal(t, "", cfg.Notification.SlackWebhookURL)
	require.True(t, cfg.Notification.NotifyOnAvailable)
	require.False(t, cfg.Notification.NotifyOnError)
	require.Equal(t, 24, cfg.Notification.MinAdvanceNoticeHours)

	require.True(t, cfg.Snapshot.Enabled)
	require.Equal(t, "logs", cfg.Snapshot.Dir)
	require.Equal(t, 120*time.Second, cfg.Browser.NavigationTimeout)
	require.Equal(t, 15*time.Second, cfg.Browser.TableTimeout)
	require.True(t, cfg.Browser.Headless)
}

func TestLoadNotificationObject(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "")

	path := writeConfig(t, `{
		"notification": {
			"slack_webhook_url": "https://hooks.slack.com/services/T/B/file",
			"notify_on_available": false,
			"notify_on_error": true,
			"min_advance_notice_hours": 6
		},
		"browser": {"table_timeout": "40s"}
	}`)

	cfg, found, err := Load(path)
	require.NoError(t, err)
	require.True(t, found)

	require.Equal(t, "https://hooks.slack.com/services/T/B/file", cfg.Notification.SlackWebhookURL)
	require.False(t, cfg.Notification.NotifyOnAvailable)
	require.True(t, cfg.Notification.NotifyOnError)
	require.Equal(t, 6, cfg.Notification.MinAdvanceNoticeHours)
	require.Equal(t, 40*time.Second, cfg.Browser.TableTimeout)
	require.Equal(t, 30*time.Second, cfg.Browser.ActionTimeout)
}

func TestLoadWebhookFromEnvironment(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/env")

	path := writeConfig(t, `{"notification": {"slack_webhook_url": "https://hooks.slack.com/services/T/B/file"}}`)

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://hooks.slack.com/services/T/B/env", cfg.Notification.SlackWebhookURL)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `{"notification": `)

	_, _, err := Load(path)
	require.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		raw      string
		expected time.Duration
	}{
		{raw: "", expected: time.Minute},
		{raw: "5s", expected: 5 * time.Second},
		{raw: "250ms", expected: 250 * time.Millisecond},
		{raw: "15", expected: 15 * time.Second},
		{raw: " 1.5 ", expected: 1500 * time.Millisecond},
	}

	for _, test := range cases {
		d, err := parseDuration("browser.table_timeout", test.raw, time.Minute)
		require.NoError(t, err, test.raw)
		require.Equal(t, test.expected, d, test.raw)
	}

	_, err := parseDuration("browser.table_timeout", "soon", time.Minute)
	require.ErrorContains(t, err, "browser.table_timeout")
}

func TestLoadNumericDurations(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "")

	path := writeConfig(t, `{"browser": {"table_timeout": 15, "action_timeout": 2.5}, "probe": {"timeout": "10s"}}`)

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, cfg.Browser.TableTimeout)
	require.Equal(t, 2500*time.Millisecond, cfg.Browser.ActionTimeout)
	require.Equal(t, 10*time.Second, cfg.Probe.Timeout)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "")

	path := writeConfig(t, `{"browser": {"table_timeout": "soon"}}`)

	_, _, err := Load(path)
	require.ErrorContains(t, err, "invalid duration for browser.table_timeout")
}
