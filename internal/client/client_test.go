package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/assistant/internal/assistant"
	"github.com/notexe/assistant/internal/config"
	"github.com/notexe/assistant/internal/errors"
	"github.com/notexe/assistant/internal/history"
	"github.com/notexe/assistant/internal/reminder"
	"github.com/notexe/assistant/internal/server"
)

var baseTime = time.Date(2024, 3, 15, 14, 0, 0, 0, time.Local)

type testEnv struct {
	client  *Client
	manager *reminder.Manager
	now     *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	now := baseTime
	env := &testEnv{now: &now}
	clock := func() time.Time { return *env.now }

	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"), 50)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	env.manager = reminder.NewManager(reminder.WithClock(clock))
	a := assistant.New(
		assistant.WithReminders(env.manager),
		assistant.WithRecorder(store),
		assistant.WithClock(clock),
	)
	srv := server.New(config.ServerConfig{Host: "127.0.0.1", CORSOrigins: []string{"*"}}, server.Deps{
		Assistant: a,
		Reminders: env.manager,
		History:   store,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	env.client = New(ts.URL+"/", 5*time.Second)
	return env
}

func TestProcess(t *testing.T) {
	env := newTestEnv(t)

	reply, err := env.client.Process(context.Background(), "what is 25 plus 7")
	require.NoError(t, err)
	assert.Equal(t, "The result is 32", reply)
}

func TestProcessEmptyCommand(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.Process(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	assert.Equal(t, http.StatusBadRequest, errors.StatusOf(err))
}

func TestAddAndListReminders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.client.AddReminder(ctx, "call mom", "in 5 minutes")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Reminder.ID)
	assert.Equal(t, "call mom", res.Reminder.Text)
	assert.Equal(t, "in 5 minute(s)", res.TimeUntil)
	assert.Equal(t, "02:05 PM 15-Mar", res.Reminder.Time)

	res, err = env.client.AddFromText(ctx, "remind me to drink water in 10 minutes")
	require.NoError(t, err)
	assert.Equal(t, "drink water", res.Reminder.Text)

	list, err := env.client.ListReminders(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "call mom", list[0].Text)
	assert.Equal(t, "drink water", list[1].Text)
}

func TestAddReminderErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.client.AddFromText(ctx, "remind me")
	assert.True(t, errors.Is(err, errors.ErrNoTimePhrase))

	_, err = env.client.AddFromText(ctx, "remind me at 5pm")
	assert.True(t, errors.Is(err, errors.ErrEmptyLabel))

	_, err = env.client.AddReminder(ctx, "x", "in 0 minutes")
	assert.True(t, errors.Is(err, errors.ErrPastTime))
	assert.Equal(t, http.StatusUnprocessableEntity, errors.StatusOf(err))
}

func TestDeleteAndClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, label := range []string{"a", "b", "c"} {
		_, err := env.client.AddReminder(ctx, label, "in 5 minutes")
		require.NoError(t, err)
	}

	require.NoError(t, env.client.DeleteReminder(ctx, 2))
	require.NoError(t, env.client.DeleteReminder(ctx, 2))
	require.NoError(t, env.client.DeleteReminder(ctx, 99))

	list, err := env.client.ListReminders(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)

	require.NoError(t, env.client.ClearReminders(ctx))
	list, err = env.client.ListReminders(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPollPopup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.client.AddReminder(ctx, "stretch", "in 1 minute")
	require.NoError(t, err)

	_, ok, err := env.client.PollPopup(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	*env.now = baseTime.Add(time.Minute)
	env.manager.Sweep(*env.now)

	popup, ok, err := env.client.PollPopup(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), popup.ID)
	assert.Equal(t, "stretch", popup.Message)
	assert.Equal(t, "02:01 PM 15-Mar", popup.Time)

	_, ok, err = env.client.PollPopup(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, cmd := range []string{"what is 1 plus 1", "what is 2 plus 2", "what is 3 plus 3"} {
		_, err := env.client.Process(ctx, cmd)
		require.NoError(t, err)
	}

	entries, err := env.client.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "what is 2 plus 2", entries[0].Command)
	assert.Equal(t, "The result is 6", entries[1].Response)

	require.NoError(t, env.client.ClearHistory(ctx))
	entries, err = env.client.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.AddReminder(context.Background(), "x", "in 5 minutes")
	require.NoError(t, err)

	h, err := env.client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "running", h.Server)
	assert.Equal(t, 1, h.RemindersActive)
	assert.False(t, h.TTS)
}

func TestNonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).Health(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInternal))
	assert.Equal(t, http.StatusBadGateway, errors.StatusOf(err))
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestUnreachableServer(t *testing.T) {
	_, err := New("http://127.0.0.1:1", time.Second).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach assistant server")
}
