package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtChecker/pkg/config"
	"courtChecker/pkg/scraper"
)

type webhook struct {
	mu       sync.Mutex
	status   int
	messages []Message
}

func (w *webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		rw.WriteHeader(http.StatusBadRequest)
		return
	}

	w.mu.Lock()
	w.messages = append(w.messages, msg)
	w.mu.Unlock()

	rw.WriteHeader(w.status)
	_, _ = rw.Write([]byte("ok"))
}

func (w *webhook) received() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Message(nil), w.messages...)
}

func newTestClient(t *testing.T, status int, notifyOnError bool) (*Client, *webhook) {
	t.Helper()

	hook := &webhook{status: status}
	server := httptest.NewServer(hook)
	t.Cleanup(server.Close)

	client := NewClient(config.NotificationConfig{
		SlackWebhookURL: server.URL,
		NotifyOnError:   notifyOnError,
	}, false, zap.NewNop())
	client.now = func() time.Time {
		return time.Date(2025, time.July, 25, 9, 30, 0, 0, time.UTC)
	}
	return client, hook
}

func slots() []scraper.Slot {
	return scraper.Extract(scraper.Table{Rows: [][]string{
		{"07/27 日", "07/26 土"},
		{"9:00 △", "9:00 ×"},
		{"13:00 ―", "13:00\n△"},
	}})
}

func TestNotifyAvailableSlots(t *testing.T) {
	client, hook := newTestClient(t, http.StatusOK, false)

	require.NoError(t, client.NotifyAvailableSlots(context.Background(), slots(), 2))

	messages := hook.received()
	require.Len(t, messages, 1)

	blocks := messages[0].Blocks
	require.Len(t, blocks, 4)
	require.Equal(t, "header", blocks[0].Type)
	require.Equal(t, "🏸 バドミントン空き情報", blocks[0].Text.Text)
	require.Contains(t, blocks[1].Text.Text, "戸田市スポーツセンター 第1競技場1/8面")
	require.Contains(t, blocks[1].Text.Text, "2件")
	require.Equal(t, "*確認日時:*\n2025-07-25 18:30:00", blocks[1].Fields[0].Text)
	require.Equal(t, "*期間:*\n1週間", blocks[1].Fields[1].Text)
	require.Equal(t, "*空き状況:*\n● 07/26 13:00\n● 07/27 9:00", blocks[2].Text.Text)
	require.Equal(t, "<https://yoyaku.city.toda.saitama.jp/yoyaku/|戸田市施設予約システム>", blocks[3].Text.Text)
}

func TestNotifyAvailableSlotsListsAtMostTen(t *testing.T) {
	client, hook := newTestClient(t, http.StatusOK, false)

	var many []scraper.Slot
	for i := 0; i < 15; i++ {
		many = append(many, scraper.Slot{Date: "07/26", Time: fmt.Sprintf("%02d:00", i+6), Status: scraper.StatusAvailable})
	}
	require.NoError(t, client.NotifyAvailableSlots(context.Background(), many, len(many)))

	listed := hook.received()[0].Blocks[2].Text.Text
	require.Equal(t, 10, strings.Count(listed, "●"))
	require.Contains(t, hook.received()[0].Blocks[1].Text.Text, "15件")
}

func TestNotifyAvailableSlotsSkips(t *testing.T) {
	client, hook := newTestClient(t, http.StatusOK, false)
	require.NoError(t, client.NotifyAvailableSlots(context.Background(), slots(), 0))
	require.Empty(t, hook.received())

	client.noNotify = true
	require.NoError(t, client.NotifyAvailableSlots(context.Background(), slots(), 2))
	require.Empty(t, hook.received())

	unset := NewClient(config.NotificationConfig{}, false, zap.NewNop())
	require.NoError(t, unset.NotifyAvailableSlots(context.Background(), slots(), 2))
}

func TestNotifyAvailableSlotsBadStatus(t *testing.T) {
	client, hook := newTestClient(t, http.StatusInternalServerError, false)

	err := client.NotifyAvailableSlots(context.Background(), slots(), 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
	require.Len(t, hook.received(), 1)
}

func TestNotifyError(t *testing.T) {
	client, hook := newTestClient(t, http.StatusOK, true)

	require.NoError(t, client.NotifyError(context.Background(), errors.New("table did not load")))

	messages := hook.received()
	require.Len(t, messages, 1)
	require.Empty(t, messages[0].Blocks)
	require.True(t, strings.HasPrefix(messages[0].Text, ":warning: 戸田市施設予約システム エラー通知"))
	require.Contains(t, messages[0].Text, "table did not load")
	require.Contains(t, messages[0].Text, "2025-07-25 18:30:00")
}

func TestNotifyErrorDisabled(t *testing.T) {
	client, hook := newTestClient(t, http.StatusOK, false)

	require.NoError(t, client.NotifyError(context.Background(), errors.New("boom")))
	require.Empty(t, hook.received())
}

func TestNotifyTest(t *testing.T) {
	client, hook := newTestClient(t, http.StatusOK, false)
	require.NoError(t, client.NotifyTest(context.Background()))
	require.Len(t, hook.received(), 1)

	unset := NewClient(config.NotificationConfig{}, false, zap.NewNop())
	require.ErrorIs(t, unset.NotifyTest(context.Background()), ErrNoWebhook)
}

func TestAvailableLines(t *testing.T) {
	require.Equal(t, []string{"● 07/26 13:00", "● 07/27 9:00"}, AvailableLines(slots()))
	require.Empty(t, AvailableLines(nil))
}
