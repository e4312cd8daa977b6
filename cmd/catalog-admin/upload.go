// ABOUTME: catalog-admin upload and token subcommands
// ABOUTME: Streams CSV import progress as a bar; mints, saves, and inspects bearer tokens

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/auth"
	"github.com/2389/catalog-panel/internal/config"
	"github.com/2389/catalog-panel/internal/termview"
)

const progressBarWidth = 30

// cmdUpload uploads a CSV file and follows the import until it finishes
func cmdUpload(e *env, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: upload <file.csv>")
	}
	path := args[0]
	if !api.IsCSVName(path) {
		return fmt.Errorf("please select a CSV file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := e.client.UploadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("uploading: %w", err)
	}

	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)
	green.Printf("✓ %s\n", res.Message)
	gray.Printf("  task %s\n", res.TaskID)

	stream, err := e.client.OpenProgress(ctx, res.TaskID)
	if err != nil {
		return fmt.Errorf("following progress: %w", err)
	}
	defer stream.Close()

	for {
		ev, err := stream.Recv()
		if err != nil {
			fmt.Println()
			if errors.Is(err, api.ErrStreamClosed) {
				return fmt.Errorf("connection to progress stream lost")
			}
			return fmt.Errorf("reading progress: %w", err)
		}

		fmt.Printf("\r  %s %3.0f%%  %-40s", termview.ProgressBar(ev.Percentage, progressBarWidth), ev.Percentage, truncate(ev.StatusText(), 40))

		switch ev.Status {
		case api.StatusComplete:
			fmt.Println()
			green.Printf("✓ %s\n", ev.Message)
			return nil
		case api.StatusError:
			fmt.Println()
			return fmt.Errorf("import failed: %s", ev.Error)
		}
	}
}

// cmdToken handles token subcommands
func cmdToken(e *env, args []string) error {
	// Default to showing the current token
	subcmd := "show"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "create":
		return cmdTokenCreate(e, args)
	case "show":
		return cmdTokenShow(e)
	default:
		return fmt.Errorf("unknown token subcommand: %s (use create, show)", subcmd)
	}
}

// cmdTokenCreate mints a token with the configured secret and saves it
func cmdTokenCreate(e *env, args []string) error {
	fs := newFlags("token create")
	subject := fs.StringP("subject", "s", "admin", "token subject")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime")
	printOnly := fs.Bool("print", false, "print the token instead of saving it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if e.cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is not configured in %s", config.Path())
	}

	verifier, err := auth.NewJWTVerifier([]byte(e.cfg.Auth.JWTSecret))
	if err != nil {
		return err
	}

	token, err := verifier.Generate(*subject, *ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	if *printOnly {
		fmt.Println(token)
		return nil
	}

	if err := auth.SaveToken(config.Dir(), token); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Saved token for %s\n", *subject)
	fmt.Printf("  File:     %s\n", auth.TokenPath(config.Dir()))
	fmt.Printf("  Expires:  %s\n", time.Now().Add(*ttl).Format(time.DateTime))
	return nil
}

// cmdTokenShow decodes the current token without verifying it
func cmdTokenShow(e *env) error {
	if e.token == "" {
		return fmt.Errorf("no token found (set %s or run 'token create')", auth.TokenEnv)
	}

	info, err := auth.Inspect(e.token)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Token")
	cyan.Println("  -----")
	fmt.Printf("  Subject:  %s\n", info.Subject)
	if info.ExpiresAt.IsZero() {
		fmt.Println("  Expires:  never")
	} else if info.Expired(time.Now()) {
		color.Red("  Expired:  %s\n", info.ExpiresAt.Local().Format(time.DateTime))
	} else {
		fmt.Printf("  Expires:  %s\n", info.ExpiresAt.Local().Format(time.DateTime))
	}
	fmt.Println()
	return nil
}
