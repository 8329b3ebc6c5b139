// Command assistant is the terminal client for assistant-server.
//
// Usage:
//
//	assistant                                  # interactive chat (default)
//	assistant remind call mom in 10 minutes
//	assistant remind --label "stand up" --time 4pm
//	assistant list --all
//	assistant popup
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/notexe/assistant/internal/config"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	configPath := os.Getenv("ASSISTANT_CONFIG")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLIApp(cfg).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
