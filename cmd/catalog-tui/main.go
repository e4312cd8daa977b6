// ABOUTME: Terminal admin panel for the product catalog and webhook backend
// ABOUTME: Reads slash commands from stdin and renders products, webhooks, progress, and toasts

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/auth"
	"github.com/2389/catalog-panel/internal/config"
	"github.com/2389/catalog-panel/internal/logging"
	"github.com/2389/catalog-panel/internal/panel"
	"github.com/2389/catalog-panel/internal/termview"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default: $XDG_CONFIG_HOME/catalog/panel.yaml)")
	server := pflag.StringP("server", "s", "", "backend URL (overrides server.base_url)")
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.Server.BaseURL = *server
	}

	token := cfg.Auth.Token
	if token == "" {
		if token, err = auth.LoadToken(config.Dir()); err != nil {
			color.Red("Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("catalog-tui connected to %s\n", cfg.Server.BaseURL)
	if token != "" {
		fmt.Printf("Auth: bearer token configured (%s)\n", auth.TokenEnv)
	} else {
		fmt.Printf("Auth: none (set %s for authentication)\n", auth.TokenEnv)
	}
	fmt.Println("Type /help for commands. Ctrl+C to quit.")
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, token); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

func run(ctx context.Context, cfg *config.Config, token string) error {
	logger := logging.Setup(cfg.Logging, os.Stderr)

	client := api.New(cfg.Server.BaseURL,
		api.WithTimeout(cfg.Server.Timeout),
		api.WithToken(token),
		api.WithLogger(logger),
	)

	loop := panel.NewLoop(ctx, logger)
	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run() }()
	defer loop.Stop()

	term := termview.New(os.Stdout)
	prompter := termview.NewPrompter(ctx, os.Stdout)

	p := panel.New(loop, client, term, panel.Options{
		PageSize:       cfg.Panel.PageSize,
		SearchDebounce: cfg.Panel.SearchDebounce,
		TerminalDelay:  cfg.Panel.TerminalDelay,
		ToastDuration:  cfg.Panel.ToastDuration,
		ToastFade:      cfg.Panel.ToastFade,
		Prompter:       prompter,
		Logger:         logger,
	})
	p.Start()

	s := &shell{panel: p, loop: loop, term: term, prompter: prompter, out: os.Stdout}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
			return
		}
		readErr <- io.EOF
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-loopErr:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case line := <-lines:
			err := s.handle(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				color.Red("  %v\n", err)
			}
		}
	}
}
