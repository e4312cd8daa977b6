// ABOUTME: Slash-command table for the catalog TUI
// ABOUTME: Maps typed commands to panel actions and handles form editing, paging, and prompts

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/2389/catalog-panel/internal/panel"
	"github.com/2389/catalog-panel/internal/termview"
)

// errQuit ends the input loop.
var errQuit = errors.New("quit")

// parseID reads a positive row id.
func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// statusNames maps the typed filter names to panel status values.
var statusNames = map[string]string{
	"all":      panel.StatusAll,
	"active":   panel.StatusActive,
	"inactive": panel.StatusInactive,
}

// actionFor maps a command that needs no local state to a panel action.
// ok is false for commands actionFor does not know.
func actionFor(cmd string, args []string) (action panel.Action, ok bool, err error) {
	rest := strings.Join(args, " ")

	switch cmd {
	case "/upload":
		if rest == "" {
			return nil, true, fmt.Errorf("usage: /upload <file.csv>")
		}
		return panel.UploadFile{Path: rest}, true, nil
	case "/search":
		return panel.SearchProducts{Term: rest}, true, nil
	case "/status":
		status, known := statusNames[strings.ToLower(rest)]
		if !known {
			return nil, true, fmt.Errorf("usage: /status all|active|inactive")
		}
		return panel.FilterProducts{Status: status}, true, nil
	case "/page":
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return nil, true, fmt.Errorf("usage: /page <n>")
		}
		return panel.ChangePage{Page: n}, true, nil
	case "/products", "/reload":
		return panel.ReloadProducts{}, true, nil
	case "/add":
		return panel.AddProduct{}, true, nil
	case "/edit":
		id, err := parseID(args)
		if err != nil {
			return nil, true, fmt.Errorf("usage: /edit <id>")
		}
		return panel.EditProduct{ID: id}, true, nil
	case "/delete", "/rm":
		id, err := parseID(args)
		if err != nil {
			return nil, true, fmt.Errorf("usage: /delete <id>")
		}
		return panel.DeleteProduct{ID: id}, true, nil
	case "/delete-all":
		return panel.BulkDeleteProducts{}, true, nil
	case "/yes":
		return panel.ConfirmDialog{}, true, nil
	case "/no":
		return panel.CancelDialog{}, true, nil
	case "/webhooks":
		return panel.ReloadWebhooks{}, true, nil
	case "/hook":
		return hookAction(args)
	}
	return nil, false, nil
}

// hookAction handles "/hook add|edit|delete|test [id]".
func hookAction(args []string) (panel.Action, bool, error) {
	usage := fmt.Errorf("usage: /hook add | /hook edit|delete|test <id>")
	if len(args) == 0 {
		return nil, true, usage
	}
	if args[0] == "add" {
		return panel.AddWebhook{}, true, nil
	}

	id, err := parseID(args[1:])
	if err != nil {
		return nil, true, usage
	}
	switch args[0] {
	case "edit":
		return panel.EditWebhook{ID: id}, true, nil
	case "delete", "rm":
		return panel.DeleteWebhook{ID: id}, true, nil
	case "test":
		return panel.TestWebhook{ID: id}, true, nil
	}
	return nil, true, usage
}

// shell routes input lines to the prompter, the open dialog, forms, or the
// panel.
type shell struct {
	panel    *panel.Panel
	loop     *panel.Loop
	term     *termview.Terminal
	prompter *termview.Prompter
	out      io.Writer
}

// handle processes one input line. It returns errQuit to end the session.
func (s *shell) handle(line string) error {
	// A blocking question takes the next line whatever it is.
	if s.prompter.Answer(line) {
		return nil
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	// A bare answer resolves the confirmation dialog.
	if s.term.Confirming() && !strings.HasPrefix(line, "/") {
		if termview.IsYes(line) {
			s.panel.Dispatch(panel.ConfirmDialog{})
		} else {
			s.panel.Dispatch(panel.CancelDialog{})
		}
		return nil
	}

	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return errQuit
	case "/help":
		printHelp(s.out)
		return nil
	case "/next":
		s.step(1)
		return nil
	case "/prev":
		s.step(-1)
		return nil
	case "/set":
		return s.setField(args)
	case "/save":
		return s.save()
	case "/cancel":
		return s.cancel()
	}

	action, ok, err := actionFor(cmd, args)
	if !ok {
		return fmt.Errorf("unknown command: %s (try /help)", cmd)
	}
	if err != nil {
		return err
	}
	s.dispatch(action)
	return nil
}

// dispatch hands action to the panel. Actions that ask a question return only
// once the question is open, so the next line reaches it as the answer.
func (s *shell) dispatch(action panel.Action) {
	ctx := s.loop.Context()

	switch action.(type) {
	case panel.DeleteWebhook:
		// Delete blocks the loop inside Confirm, so wait for the prompt itself.
		s.prompter.Forget()
		done := s.panel.DispatchWait(action)
		select {
		case <-s.prompter.Asked():
		case <-done:
		case <-ctx.Done():
		}
	case panel.DeleteProduct, panel.BulkDeleteProducts:
		select {
		case <-s.panel.DispatchWait(action):
		case <-ctx.Done():
		}
	default:
		s.panel.Dispatch(action)
	}
}

// step moves delta pages from the current one, staying within the listing.
func (s *shell) step(delta int) {
	s.loop.Post(func() {
		page := s.panel.State.Page + delta
		if cur := s.panel.Products.Current(); cur != nil && page > max(cur.TotalPages, 1) {
			return
		}
		s.panel.Products.ChangePage(page)
	})
}

// setField edits the open product form, or else the open webhook form.
func (s *shell) setField(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: /set <field> <value>")
	}
	field, value := args[0], strings.Join(args[1:], " ")

	if form, ok := s.term.ProductForm(); ok {
		if err := termview.SetProductField(&form, field, value); err != nil {
			return err
		}
		s.term.UpdateProductForm(form)
		return nil
	}
	if form, ok := s.term.WebhookForm(); ok {
		if err := termview.SetWebhookField(&form, field, value); err != nil {
			return err
		}
		s.term.UpdateWebhookForm(form)
		return nil
	}
	return fmt.Errorf("no form is open (use /add, /edit, or /hook add)")
}

func (s *shell) save() error {
	if form, ok := s.term.ProductForm(); ok {
		s.panel.Dispatch(panel.SubmitProduct{Form: form})
		return nil
	}
	if form, ok := s.term.WebhookForm(); ok {
		s.panel.Dispatch(panel.SubmitWebhook{Form: form})
		return nil
	}
	return fmt.Errorf("no form is open")
}

func (s *shell) cancel() error {
	if _, ok := s.term.ProductForm(); ok {
		s.panel.Dispatch(panel.CloseProductForm{})
		return nil
	}
	if _, ok := s.term.WebhookForm(); ok {
		s.panel.Dispatch(panel.CloseWebhookForm{})
		return nil
	}
	if s.term.Confirming() {
		s.panel.Dispatch(panel.CancelDialog{})
		return nil
	}
	return fmt.Errorf("nothing to cancel")
}

func printHelp(out io.Writer) {
	yellow := color.New(color.FgYellow)

	yellow.Fprintln(out, "Products:")
	fmt.Fprintln(out, "  /products               Reload the product list")
	fmt.Fprintln(out, "  /search <term>          Search SKU, name, description (empty clears)")
	fmt.Fprintln(out, "  /status all|active|inactive")
	fmt.Fprintln(out, "  /page <n>  /next  /prev Change page")
	fmt.Fprintln(out, "  /add  /edit <id>        Open the product form")
	fmt.Fprintln(out, "  /delete <id>            Delete a product (asks to confirm)")
	fmt.Fprintln(out, "  /delete-all             Delete ALL products (asks to confirm)")
	fmt.Fprintln(out, "  /upload <file.csv>      Import products and follow progress")
	yellow.Fprintln(out, "Webhooks:")
	fmt.Fprintln(out, "  /webhooks               Reload the webhook list")
	fmt.Fprintln(out, "  /hook add               Open the webhook form")
	fmt.Fprintln(out, "  /hook edit|delete|test <id>")
	yellow.Fprintln(out, "Forms and dialogs:")
	fmt.Fprintln(out, "  /set <field> <value>    Edit the open form")
	fmt.Fprintln(out, "  /save  /cancel          Submit or close the open form")
	fmt.Fprintln(out, "  y / n                   Answer an open confirmation")
	fmt.Fprintln(out, "  /quit                   Exit")
}
