package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/assistant/internal/reminder"
)

type fakeSpeaker struct {
	said []string
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	f.said = append(f.said, text)
	return nil
}

func TestSpeechNotifier(t *testing.T) {
	sp := &fakeSpeaker{}
	n := NewSpeechNotifier(sp)

	require.NoError(t, n.Notify(context.Background(), reminder.Reminder{Label: "drink water"}))
	assert.Equal(t, []string{"Reminder! drink water"}, sp.said)
}

func TestTelegramNotifier(t *testing.T) {
	var got telegramSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42")
	n.apiBase = srv.URL

	r := reminder.Reminder{
		Label:      "pay <rent>",
		TargetTime: time.Date(2024, 3, 15, 19, 0, 0, 0, time.Local),
	}
	require.NoError(t, n.Notify(context.Background(), r))

	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "pay &lt;rent&gt;")
	assert.Contains(t, got.Text, "07:00 PM 15-Mar")
}

func TestTelegramNotifier_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42")
	n.apiBase = srv.URL

	err := n.SendMessage(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
