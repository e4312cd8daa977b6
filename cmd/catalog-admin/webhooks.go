// ABOUTME: catalog-admin webhooks subcommands
// ABOUTME: List, create, partial update, delete, and test delivery of webhooks

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/termview"
)

// cmdWebhooks handles webhooks subcommands
func cmdWebhooks(e *env, args []string) error {
	// Default to list
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return cmdWebhooksList(e)
	case "create", "add":
		return cmdWebhooksCreate(e, args)
	case "update", "edit":
		return cmdWebhooksUpdate(e, args)
	case "delete", "rm", "remove":
		return cmdWebhooksDelete(e, args)
	case "test":
		return cmdWebhooksTest(e, args)
	default:
		return fmt.Errorf("unknown webhooks subcommand: %s (use list, create, update, delete, test)", subcmd)
	}
}

// cmdWebhooksList lists all webhooks
func cmdWebhooksList(e *env) error {
	ctx, cancel := requestContext(e)
	defer cancel()

	hooks, err := e.client.ListWebhooks(ctx)
	if err != nil {
		return fmt.Errorf("listing webhooks: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Webhooks")
	cyan.Println("  --------")

	if len(hooks) == 0 {
		fmt.Println("  (no webhooks)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tURL\tEVENT\tSTATUS\tLAST TRIGGERED")
	fmt.Fprintln(w, "  --\t---\t-----\t------\t--------------")

	for _, h := range hooks {
		status := "Disabled"
		if h.IsEnabled {
			status = "Enabled"
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n",
			h.ID, truncate(h.URL, 40), h.EventType, status, termview.LastTriggered(h))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func eventUsage() string {
	return "one of: " + strings.Join(api.EventTypes, ", ")
}

// cmdWebhooksCreate creates a new webhook
func cmdWebhooksCreate(e *env, args []string) error {
	fs := newFlags("webhooks create")
	url := fs.StringP("url", "u", "", "target URL (http or https)")
	event := fs.StringP("event", "e", api.EventProductCreated, eventUsage())
	disabled := fs.Bool("disabled", false, "create the webhook disabled")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *url == "" {
		return fmt.Errorf("usage: webhooks create --url <url> [--event <type>] [--disabled]")
	}

	in := api.WebhookInput{URL: *url, EventType: *event, IsEnabled: !*disabled}
	if err := in.Validate(); err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	h, err := e.client.CreateWebhook(ctx, in)
	if err != nil {
		return fmt.Errorf("creating webhook: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Created webhook: %d\n", h.ID)
	fmt.Printf("  URL:    %s\n", h.URL)
	fmt.Printf("  Event:  %s\n", h.EventType)
	return nil
}

// cmdWebhooksUpdate changes the fields given on the command line
func cmdWebhooksUpdate(e *env, args []string) error {
	fs := newFlags("webhooks update")
	url := fs.StringP("url", "u", "", "target URL (http or https)")
	event := fs.StringP("event", "e", "", eventUsage())
	enabled := fs.Bool("enabled", true, "whether the webhook is enabled")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args(), "webhooks update <id> [--url ..] [--event ..] [--enabled=false]")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	current, err := e.client.FindWebhook(ctx, id)
	if err != nil {
		return fmt.Errorf("getting webhook: %w", err)
	}
	if current == nil {
		return fmt.Errorf("webhook %d not found", id)
	}

	in := api.WebhookInput{URL: current.URL, EventType: current.EventType, IsEnabled: current.IsEnabled}
	if fs.Changed("url") {
		in.URL = *url
	}
	if fs.Changed("event") {
		in.EventType = *event
	}
	if fs.Changed("enabled") {
		in.IsEnabled = *enabled
	}
	if err := in.Validate(); err != nil {
		return err
	}

	h, err := e.client.UpdateWebhook(ctx, id, in)
	if err != nil {
		return fmt.Errorf("updating webhook: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Updated webhook: %d\n", h.ID)
	fmt.Printf("  URL:      %s\n", h.URL)
	fmt.Printf("  Event:    %s\n", h.EventType)
	fmt.Printf("  Enabled:  %v\n", h.IsEnabled)
	return nil
}

// cmdWebhooksDelete deletes a webhook
func cmdWebhooksDelete(e *env, args []string) error {
	id, err := parseID(args, "webhooks delete <id>")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	if err := e.client.DeleteWebhook(ctx, id); err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Deleted webhook: %d\n", id)
	return nil
}

// cmdWebhooksTest sends a test payload and reports the target's response
func cmdWebhooksTest(e *env, args []string) error {
	id, err := parseID(args, "webhooks test <id>")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	res, err := e.client.TestWebhook(ctx, id)
	if err != nil {
		return fmt.Errorf("testing webhook: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Webhook test successful! Status: %d\n", res.StatusCode)
	fmt.Printf("  Response time:  %.3fs\n", res.ResponseTime)
	return nil
}
