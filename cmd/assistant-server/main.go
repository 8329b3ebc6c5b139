// Command assistant-server runs the assistant HTTP API together with the
// background reminder sweep.
//
// Usage:
//
//	assistant-server                         # uses ~/.assistant/config.yaml if present
//	assistant-server -config ./config.yaml
//
// Environment:
//
//	PORT                 Listen port (overrides server.port)
//	DEEPSEEK_API_KEY     API key for provider: deepseek
//	SERPER_API_KEY       Enables web search
//	TELEGRAM_BOT_TOKEN   With TELEGRAM_CHAT_ID, forwards fired reminders to Telegram
//	ASSISTANT_*          Any config key, e.g. ASSISTANT_REMINDER__SWEEP_INTERVAL=5
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/notexe/assistant/internal/api"
	"github.com/notexe/assistant/internal/assistant"
	"github.com/notexe/assistant/internal/config"
	"github.com/notexe/assistant/internal/history"
	"github.com/notexe/assistant/internal/logging"
	"github.com/notexe/assistant/internal/reminder"
	"github.com/notexe/assistant/internal/scheduler"
	"github.com/notexe/assistant/internal/search"
	"github.com/notexe/assistant/internal/server"
	"github.com/notexe/assistant/internal/speech"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		if cfg.Provider == config.ProviderDeepSeek {
			fmt.Fprintf(os.Stderr, "Tip: Set DEEPSEEK_API_KEY environment variable or add it to config file\n")
		}
		os.Exit(1)
	}
	logging.SetLevel(logging.ParseLevel(cfg.Log.Level))

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger := logging.NewComponentLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := scheduler.MustNewMetrics(reg)

	manager := reminder.NewManager(reminder.WithLogger(logging.NewComponentLogger("reminder")))

	voice := speech.NewEngine(speech.EngineConfig{
		TTSCommand:    speech.SplitCommand(cfg.Speech.TTSCommand),
		STTCommand:    speech.SplitCommand(cfg.Speech.STTCommand),
		ListenTimeout: time.Duration(cfg.Speech.ListenTimeout) * time.Second,
	}, logging.NewComponentLogger("speech"))

	opts := []assistant.Option{
		assistant.WithReminders(manager),
		assistant.WithLogger(logging.NewComponentLogger("assistant")),
	}

	var store *history.Store
	if cfg.History.Enabled {
		s, err := history.NewStore(cfg.History.Path, cfg.History.MaxEntries)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer s.Close()
		store = s
		opts = append(opts, assistant.WithRecorder(store))
	}

	searcher, closeSearch, err := newSearcher(cfg)
	if err != nil {
		return err
	}
	defer closeSearch()
	opts = append(opts, assistant.WithSearcher(searcher))

	sched := scheduler.New(manager, schedulerOptions(cfg, voice, store, metrics)...)

	deps := server.Deps{
		Assistant: assistant.New(opts...),
		Reminders: manager,
		Voice:     voice,
		Gatherer:  reg,
		Logger:    logging.NewComponentLogger("http"),
	}
	if store != nil {
		deps.History = store
	}
	srv := server.New(cfg.Server, deps)

	logger.Info("tts: %t, speech input: %t, llm summaries: %t (%s)", voice.TTSAvailable(), voice.STTAvailable(), cfg.LLMEnabled(), cfg.Provider)

	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run(ctx) }()

	srvErr := srv.Run(ctx)
	stop()

	if err := <-schedDone; err != nil && srvErr == nil {
		return err
	}
	return srvErr
}

func newSearcher(cfg *config.Config) (*search.Engine, func(), error) {
	serper := search.NewSerperClient(
		cfg.Search.SerperAPIKey,
		cfg.Search.SerperURL,
		cfg.Search.MaxResults,
		time.Duration(cfg.Search.Timeout)*time.Second,
	)
	providerCfg := cfg.GetProviderConfig()
	logger := logging.NewComponentLogger("search")

	provider, err := api.NewProvider(providerCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create provider: %w", err)
	}
	if provider == nil {
		return search.NewEngine(serper, nil, providerCfg.Model, logger), func() {}, nil
	}
	return search.NewEngine(serper, provider, providerCfg.Model, logger), func() { provider.Close() }, nil
}

func schedulerOptions(cfg *config.Config, voice *speech.Engine, store *history.Store, metrics *scheduler.Metrics) []scheduler.Option {
	logger := logging.NewComponentLogger("scheduler")

	opts := []scheduler.Option{
		scheduler.WithInterval(cfg.Reminder.Interval()),
		scheduler.WithDeliveryTimeout(cfg.Reminder.Timeout()),
		scheduler.WithMetrics(metrics),
		scheduler.WithLogger(logger),
	}

	if cfg.Reminder.Speak {
		switch {
		case cfg.Speech.RemoteURL != "":
			opts = append(opts, scheduler.WithNotifier("speech", scheduler.NewSpeechNotifier(speech.NewHTTPSink(cfg.Speech.RemoteURL))))
		case voice.TTSAvailable():
			opts = append(opts, scheduler.WithNotifier("speech", scheduler.NewSpeechNotifier(voice)))
		default:
			logger.Warn("reminder.speak is on but no TTS command is available")
		}
	}

	if cfg.Telegram.Enabled() {
		opts = append(opts, scheduler.WithNotifier("telegram", scheduler.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)))
	}

	// Fired reminders also land in the command history so clients that missed
	// the popup can still see them.
	if store != nil {
		opts = append(opts, scheduler.WithNotifier("history", scheduler.NotifierFunc(func(ctx context.Context, r reminder.Reminder) error {
			return store.Append(ctx, "[reminder]", scheduler.SpokenText(r))
		})))
	}

	return opts
}
