// ABOUTME: Admin CLI for the product catalog and webhook backend
// ABOUTME: Lists and edits products and webhooks, uploads CSV imports, and manages bearer tokens

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/auth"
	"github.com/2389/catalog-panel/internal/config"
	"github.com/2389/catalog-panel/internal/logging"
)

const banner = `
            _        _                             _           _
   ___ __ _| |_ __ _| | ___   __ _        __ _  __| |_ __ ___ (_)_ __
  / __/ _' | __/ _' | |/ _ \ / _' |_____ / _' |/ _' | '_ ' _ \| | '_ \
 | (_| (_| | || (_| | | (_) | (_| |_____| (_| | (_| | | | | | | | | | |
  \___\__,_|\__\__,_|_|\___/ \__, |      \__,_|\__,_|_| |_| |_|_|_| |_|
                             |___/
`

// env bundles what every command needs.
type env struct {
	cfg    *config.Config
	client *api.Client
	token  string
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	e, err := newEnv()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "status":
		err = cmdStatus(e)
	case "products":
		err = cmdProducts(e, args)
	case "webhooks":
		err = cmdWebhooks(e, args)
	case "upload":
		err = cmdUpload(e, args)
	case "token":
		err = cmdToken(e, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: catalog-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  status                      Show backend status and your identity")
	fmt.Println("  products                    List products (first page)")
	fmt.Println("  products list               List products [--page N] [--search S] [--status all|active|inactive]")
	fmt.Println("  products get <id>           Show one product")
	fmt.Println("  products create             Create a product --sku --name --price [--quantity] [--description] [--inactive]")
	fmt.Println("  products update <id>        Update a product (only the flags given)")
	fmt.Println("  products delete <id>        Delete a product")
	fmt.Println("  products delete-all --yes   Delete every product")
	fmt.Println("  webhooks                    List webhooks")
	fmt.Println("  webhooks create             Create a webhook --url --event [--disabled]")
	fmt.Println("  webhooks update <id>        Update a webhook (only the flags given)")
	fmt.Println("  webhooks delete <id>        Delete a webhook")
	fmt.Println("  webhooks test <id>          Send a test payload to a webhook")
	fmt.Println("  upload <file.csv>           Import products from CSV and follow progress")
	fmt.Println("  token create                Mint a token with auth.jwt_secret and save it")
	fmt.Println("  token show                  Show the subject and expiry of your token")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  CATALOG_CONFIG     Config file (default: $XDG_CONFIG_HOME/catalog/panel.yaml)")
	fmt.Println("  CATALOG_BASE_URL   Backend address (default: http://localhost:8000)")
	fmt.Println("  CATALOG_TOKEN      Bearer token (default: $XDG_CONFIG_HOME/catalog/token)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  catalog-admin products list --search mug --status active")
	fmt.Println("  catalog-admin products create --sku MUG-1 --name 'Travel Mug' --price 14.50")
	fmt.Println("  catalog-admin webhooks create --url https://example.com/hook --event product.created")
	fmt.Println("  catalog-admin upload products.csv")
	fmt.Println()
}

func newEnv() (*env, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	token := cfg.Auth.Token
	if token == "" {
		if token, err = auth.LoadToken(config.Dir()); err != nil {
			return nil, err
		}
	}

	logger := logging.Setup(cfg.Logging, os.Stderr)
	client := api.New(cfg.Server.BaseURL,
		api.WithTimeout(cfg.Server.Timeout),
		api.WithToken(token),
		api.WithLogger(logger),
	)

	return &env{cfg: cfg, client: client, token: token}, nil
}

// requestContext bounds a single non-streaming command.
func requestContext(e *env) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.cfg.Server.Timeout+5*time.Second)
}

// cmdStatus shows backend reachability, catalog size, and token identity
func cmdStatus(e *env) error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()

	ctx, cancel := requestContext(e)
	defer cancel()

	page, err := e.client.ListProducts(ctx, api.ProductQuery{Page: 1, PerPage: 1})
	if err != nil {
		yellow.Printf("  Backend:  ")
		color.Red("UNREACHABLE (%v)\n", err)
		return nil
	}

	green.Printf("  Backend:  ")
	fmt.Printf("connected to %s\n", e.client.BaseURL())
	green.Printf("  Products: ")
	fmt.Printf("%d\n", page.Total)

	if hooks, err := e.client.ListWebhooks(ctx); err == nil {
		green.Printf("  Webhooks: ")
		fmt.Printf("%d\n", len(hooks))
	}

	if e.token == "" {
		yellow.Printf("  Identity: ")
		fmt.Println("(no token - set CATALOG_TOKEN or run 'token create')")
		fmt.Println()
		return nil
	}

	info, err := auth.Inspect(e.token)
	switch {
	case err != nil:
		yellow.Printf("  Identity: ")
		color.Red("unreadable token (%v)\n", err)
	case info.Expired(time.Now()):
		yellow.Printf("  Identity: ")
		color.Red("%s (token expired %s)\n", info.Subject, info.ExpiresAt.Local().Format(time.DateTime))
	default:
		green.Printf("  Identity: ")
		fmt.Printf("%s\n", info.Subject)
	}

	fmt.Println()
	return nil
}

// parseID reads the single positional id argument.
func parseID(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// newFlags creates a flag set that reports errors instead of exiting.
func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
