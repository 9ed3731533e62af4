package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recorder) Notify(title, message string, sev Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, Notification{Title: title, Message: message, Severity: sev})
}

func TestCenterNewestFirst(t *testing.T) {
	t.Parallel()

	c := NewCenter(true, nil)
	c.Notify("first", "a", Info)
	c.Notify("second", "b", Success)

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title)
	assert.Equal(t, "first", all[1].Title)
	assert.NotEmpty(t, all[0].ID)
	assert.Equal(t, 2, c.Unread())

	c.MarkAllRead()
	assert.Equal(t, 0, c.Unread())

	c.Clear()
	assert.Empty(t, c.All())
}

func TestCenterHistoryBounded(t *testing.T) {
	t.Parallel()

	c := NewCenter(true, nil)
	for i := 0; i < MaxHistory+25; i++ {
		c.Notify(fmt.Sprintf("n%d", i), "", Info)
	}

	all := c.All()
	require.Len(t, all, MaxHistory)
	assert.Equal(t, fmt.Sprintf("n%d", MaxHistory+24), all[0].Title)
	assert.Equal(t, "n25", all[len(all)-1].Title)
	assert.Equal(t, MaxHistory, c.Unread())
}

func TestCenterForwardsOnlyWhenEnabled(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := NewCenter(false, rec)
	c.Notify("quiet", "", Info)
	assert.Empty(t, rec.got)
	assert.Len(t, c.All(), 1, "history is kept regardless")

	c.SetEnabled(true)
	c.Notify("loud", "", Warning)
	require.Len(t, rec.got, 1)
	assert.Equal(t, "loud", rec.got[0].Title)
	assert.Equal(t, Warning, rec.got[0].Severity)
}

func TestFanoutAndFunc(t *testing.T) {
	t.Parallel()

	a, b := &recorder{}, &recorder{}
	var called bool
	f := Fanout{a, nil, b, Func(func(string, string, Severity) { called = true }), Discard{}}
	f.Notify("t", "m", Error)

	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.True(t, called)
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	LogSink{Logger: log.New(&buf, "", 0)}.Notify("Order Executed", "BUY 1 NVDA", Success)
	assert.Equal(t, "[success] Order Executed: BUY 1 NVDA\n", buf.String())
}

func TestDiscordSend(t *testing.T) {
	t.Parallel()

	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL)
	require.True(t, d.Enabled())
	require.NoError(t, d.Send("Trade Executed: NVDA", "BUY order filled", Success))

	embeds := body["embeds"].([]any)
	embed := embeds[0].(map[string]any)
	assert.Equal(t, "Trade Executed: NVDA", embed["title"])
	assert.EqualValues(t, severityColor[Success], embed["color"])
}

func TestDiscordNotifyDoesNotBlockCaller(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	got := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- struct{}{}
		<-release
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	defer close(release)

	d := NewDiscord(srv.URL)
	start := time.Now()
	d.Notify("Trade Executed: NVDA", "slow webhook", Info)
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("webhook never called")
	}
}

func TestDiscordErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewDiscord(srv.URL).Send("t", "m", Info)
	assert.ErrorContains(t, err, "429")
}

func TestDiscordDisabledIsNoop(t *testing.T) {
	t.Parallel()

	d := NewDiscord("")
	assert.False(t, d.Enabled())
	d.Notify("t", "m", Info)
}

func TestHubBroadcastsNotifications(t *testing.T) {
	t.Parallel()

	hub := NewHub(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	hub.Notify("Order Executed", "BUY 100 NVDA @ $124.50", Success)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Kind string       `json:"kind"`
		Data Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "notification", env.Kind)
	assert.Equal(t, "Order Executed", env.Data.Title)
	assert.Equal(t, Success, env.Data.Severity)
}

func TestHubPublishDropsWhenFull(t *testing.T) {
	t.Parallel()

	hub := NewHub(1)
	hub.Publish("tick", 1)
	hub.Publish("tick", 2) // would block without the drop

	assert.Len(t, hub.broadcast, 1)
}

func TestFCMMessage(t *testing.T) {
	t.Parallel()

	m := message("tok", "Trade Executed: NVDA", "SELL order filled", Warning)
	assert.Equal(t, "tok", m.Token)
	assert.Equal(t, "Trade Executed: NVDA", m.Notification.Title)
	assert.Equal(t, "high", m.Android.Priority)
	assert.Equal(t, "warning", m.Data["type"])

	assert.Equal(t, "normal", message("tok", "", "", Info).Android.Priority)
}

func TestFCMRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewFCM(context.Background(), "", nil)
	assert.Error(t, err)

	var nilFCM *FCM
	nilFCM.Notify("t", "m", Info)
}
