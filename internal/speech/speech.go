// Package speech wraps text-to-speech and speech-to-text behind small
// interfaces. The local Engine shells out to configurable commands
// (espeak, say, whisper wrappers); HTTPSink forwards to a remote /speak.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/notexe/assistant/internal/errors"
	"github.com/notexe/assistant/internal/logging"
)

// Speaker turns text into audible output.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Listener captures one utterance and returns its transcript.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// EngineConfig holds the commands the Engine runs.
// The text to speak is appended as the last argument of TTSCommand.
// STTCommand must print the transcript on stdout.
type EngineConfig struct {
	TTSCommand    []string
	STTCommand    []string
	ListenTimeout time.Duration
}

// Engine runs local TTS/STT commands. Speak calls are serialized so two
// reminders firing together do not talk over each other; a caller waiting
// for its turn gives up when its context ends.
type Engine struct {
	cfg    EngineConfig
	voice  *semaphore.Weighted
	logger logging.Logger

	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
}

// NewEngine creates an Engine. A nil logger is replaced by a no-op.
func NewEngine(cfg EngineConfig, logger logging.Logger) *Engine {
	if cfg.ListenTimeout <= 0 {
		cfg.ListenTimeout = 15 * time.Second
	}
	return &Engine{
		cfg:      cfg,
		voice:    semaphore.NewWeighted(1),
		logger:   logging.OrNop(logger),
		lookPath: exec.LookPath,
	}
}

// TTSAvailable reports whether the TTS command is configured and on PATH.
func (e *Engine) TTSAvailable() bool {
	return e.available(e.cfg.TTSCommand)
}

// STTAvailable reports whether the STT command is configured and on PATH.
func (e *Engine) STTAvailable() bool {
	return e.available(e.cfg.STTCommand)
}

func (e *Engine) available(cmd []string) bool {
	if len(cmd) == 0 || cmd[0] == "" {
		return false
	}
	_, err := e.lookPath(cmd[0])
	return err == nil
}

// Speak says text through the TTS command.
func (e *Engine) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(e.cfg.TTSCommand) == 0 {
		return errors.NewUnavailable("text-to-speech is not configured")
	}

	if err := e.voice.Acquire(ctx, 1); err != nil {
		return err
	}
	defer e.voice.Release(1)

	args := append(append([]string{}, e.cfg.TTSCommand[1:]...), text)
	cmd := exec.CommandContext(ctx, e.cfg.TTSCommand[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		e.logger.Warn("tts failed: %v: %s", err, strings.TrimSpace(stderr.String()))
		return fmt.Errorf("tts command failed: %w", err)
	}
	return nil
}

// Listen runs the STT command and returns its trimmed stdout.
func (e *Engine) Listen(ctx context.Context) (string, error) {
	if len(e.cfg.STTCommand) == 0 {
		return "", errors.NewUnavailable("speech input is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.ListenTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.cfg.STTCommand[0], e.cfg.STTCommand[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewInvalidRequest("No speech detected. Please try again.")
		}
		e.logger.Warn("stt failed: %v: %s", err, strings.TrimSpace(stderr.String()))
		return "", fmt.Errorf("stt command failed: %w", err)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", errors.NewInvalidRequest("Could not understand audio. Please speak clearly.")
	}
	e.logger.Debug("heard %q", text)
	return text, nil
}

// SplitCommand breaks a configured command line on whitespace.
// Quoting is not supported.
func SplitCommand(s string) []string {
	return strings.Fields(s)
}
