// ABOUTME: Development catalog backend serving the admin panel's REST and SSE API
// ABOUTME: Usage: fake-catalog [--config panel.yaml] [--addr 127.0.0.1:8000] [--db :memory:] [--seed]

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/2389/catalog-panel/internal/auth"
	"github.com/2389/catalog-panel/internal/config"
	"github.com/2389/catalog-panel/internal/fakeapi"
	"github.com/2389/catalog-panel/internal/logging"
	"github.com/2389/catalog-panel/internal/store"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

func main() {
	flags := pflag.NewFlagSet("fake-catalog", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "config file (default: $CATALOG_CONFIG or XDG config)")
	addr := flags.StringP("addr", "a", "", "listen address (overrides fake.addr)")
	dbPath := flags.String("db", "", "SQLite database path or :memory: (overrides fake.db_path)")
	seed := flags.Bool("seed", false, "insert sample products when the catalog is empty")
	_ = flags.Parse(os.Args[1:])

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *addr, *dbPath, *seed); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, addr, dbPath string, seed bool) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if addr != "" {
		cfg.Fake.Addr = addr
	}
	if dbPath != "" {
		cfg.Fake.DBPath = dbPath
	}

	logger := logging.Setup(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	st, err := store.NewSQLiteStore(cfg.Fake.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if seed {
		if err := seedProducts(ctx, st); err != nil {
			return fmt.Errorf("seeding products: %w", err)
		}
	}

	opts := fakeapi.Options{
		MaxUploadBytes:   cfg.Fake.MaxUploadBytes,
		ProgressInterval: cfg.Fake.ProgressInterval,
		WebhookTimeout:   cfg.Fake.WebhookTimeout,
		Logger:           logger,
	}
	if cfg.Auth.JWTSecret != "" {
		verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
		if err != nil {
			return fmt.Errorf("creating verifier: %w", err)
		}
		opts.Verifier = verifier
	}

	srv := fakeapi.New(st, opts)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Fake.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("API:       http://%s/api\n", cfg.Fake.Addr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Fake.DBPath)
	green.Print("    ▶ ")
	if opts.Verifier != nil {
		fmt.Println("Auth:      bearer token required")
	} else {
		fmt.Println("Auth:      open")
	}
	fmt.Println()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Fake.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// seedProducts inserts a few sample products into an empty catalog.
func seedProducts(ctx context.Context, st store.Store) error {
	_, total, err := st.ListProducts(ctx, store.ProductFilter{Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	samples := []*store.Product{
		{SKU: "SAMPLE-001", Name: "Sample Product", Description: "This is a sample product for testing", Price: 29.99, Quantity: 100, IsActive: true},
		{SKU: "SAMPLE-002", Name: "Travel Mug", Description: "Keeps coffee warm", Price: 14.5, Quantity: 40, IsActive: true},
		{SKU: "SAMPLE-003", Name: "Discontinued Lamp", Description: "No longer sold", Price: 49, Quantity: 0, IsActive: false},
	}
	for _, p := range samples {
		if err := st.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("creating %s: %w", p.SKU, err)
		}
	}
	return nil
}
