package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/notexe/assistant/internal/assistant"
	"github.com/notexe/assistant/internal/config"
	"github.com/notexe/assistant/internal/reminder"
	"github.com/notexe/assistant/internal/server"
)

type cliEnv struct {
	url     string
	manager *reminder.Manager
	now     *time.Time
	cfg     *config.Config
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.Local)
	env := &cliEnv{now: &now}
	clock := func() time.Time { return *env.now }

	env.manager = reminder.NewManager(reminder.WithClock(clock))
	srv := server.New(config.ServerConfig{Host: "127.0.0.1"}, server.Deps{
		Assistant: assistant.New(assistant.WithReminders(env.manager), assistant.WithClock(clock)),
		Reminders: env.manager,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	env.url = ts.URL

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	env.cfg = cfg
	return env
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newCLIApp(e.cfg)
	app.Writer = &out
	full := append([]string{"assistant", "--server", e.url, "--no-color"}, args...)
	err := app.Run(full)
	return out.String(), err
}

func TestRemindAndList(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "remind", "remind", "me", "to", "call", "mom", "in", "10", "minutes")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Reminder set!")
	assert.Contains(t, out, "call mom")

	out, err = env.run(t, "remind", "--label", "stretch", "--time", "4pm")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 ")

	out, err = env.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 call mom @ 02:10 PM 15-Mar")
	assert.Contains(t, out, "#2 stretch @ 04:00 PM 15-Mar")
}

func TestRemindErrors(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "remind", "remind", "me")
	require.Error(t, err)
	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "[NO_TIME_PHRASE]")

	_, err = env.run(t, "remind")
	assert.Contains(t, err.Error(), "[INVALID_REQUEST]")
}

func TestDeleteAndClear(t *testing.T) {
	env := newCLIEnv(t)
	for _, label := range []string{"a", "b"} {
		_, err := env.manager.Add(label, "in 5 minutes")
		require.NoError(t, err)
	}

	out, err := env.run(t, "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Reminder #1 deleted.\n", out)
	assert.Len(t, env.manager.List(true), 1)

	_, err = env.run(t, "delete", "one")
	assert.Contains(t, err.Error(), "reminder id must be an integer")

	out, err = env.run(t, "clear")
	require.NoError(t, err)
	assert.Equal(t, "All reminders cleared.\n", out)
	assert.Empty(t, env.manager.List(true))
}

func TestPopup(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "popup")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to show.\n", out)

	_, err = env.manager.Add("stretch", "in 1 minute")
	require.NoError(t, err)
	*env.now = env.now.Add(time.Minute)
	env.manager.Sweep(*env.now)

	out, err = env.run(t, "popup")
	require.NoError(t, err)
	assert.Equal(t, "*** Reminder! stretch (02:01 PM 15-Mar) ***\n", out)

	out, err = env.run(t, "popup")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to show.\n", out)
}

func TestAsk(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "ask", "what", "is", "25", "plus", "7")
	require.NoError(t, err)
	assert.Equal(t, "The result is 32\n", out)
}

func TestStatus(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "server: running")
	assert.Contains(t, out, "active reminders: 0")
}
