// ABOUTME: Terminal implementation of panel.View using fatih/color and tabwriter
// ABOUTME: Prints tables, the pagination bar, progress, confirmations, and toasts

package termview

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/panel"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	dim    = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

// progressWidth is the number of cells in the progress bar.
const progressWidth = 30

// Terminal renders the panel as text. Open forms are kept so the TUI can edit
// and submit them.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer

	productForm *panel.ProductForm
	webhookForm *panel.WebhookForm
	confirming  bool
}

var _ panel.View = (*Terminal)(nil)

// New creates a Terminal writing to out.
func New(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// RenderProducts prints the product table.
func (t *Terminal) RenderProducts(products []api.Product) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out)
	cyan.Fprintln(t.out, "  Products")
	cyan.Fprintln(t.out, "  --------")

	if len(products) == 0 {
		fmt.Fprintln(t.out, "  No products found.")
		fmt.Fprintln(t.out)
		return
	}

	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tSKU\tNAME\tDESCRIPTION\tPRICE\tQTY\tSTATUS")
	fmt.Fprintln(w, "  --\t---\t----\t-----------\t-----\t---\t------")
	for _, p := range products {
		desc := p.Description
		if desc == "" {
			desc = "-"
		}
		status := "Inactive"
		if p.IsActive {
			status = "Active"
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t$%.2f\t%d\t%s\n",
			p.ID, p.SKU, truncate(p.Name, 32), truncate(desc, 40), p.Price, p.Quantity, status)
	}
	w.Flush()
}

// RenderPagination prints the page bar below the product table.
func (t *Terminal) RenderPagination(p panel.Pagination) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p.Empty() {
		fmt.Fprintln(t.out)
		return
	}

	var b strings.Builder
	b.WriteString("  ")
	if p.Prev {
		b.WriteString("« Prev  ")
	}
	for i, n := range p.Pages {
		if i > 0 {
			b.WriteString(" ")
		}
		if n == p.Current {
			b.WriteString(bold.Sprintf("[%d]", n))
		} else {
			fmt.Fprintf(&b, "%d", n)
		}
	}
	if p.Next {
		b.WriteString("  Next »")
	}
	fmt.Fprintln(t.out, b.String())
	dim.Fprintf(t.out, "  page %d of %d (/page <n>)\n\n", p.Current, p.Total)
}

// ShowProductForm prints the form and keeps it open for editing.
func (t *Terminal) ShowProductForm(form panel.ProductForm) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f := form
	t.productForm = &f
	t.printProductForm(f)
}

// HideProductForm closes the product form.
func (t *Terminal) HideProductForm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.productForm = nil
}

// ProductForm returns the open product form, if any.
func (t *Terminal) ProductForm() (panel.ProductForm, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.productForm == nil {
		return panel.ProductForm{}, false
	}
	return *t.productForm, true
}

// UpdateProductForm replaces the open product form's content and reprints it.
func (t *Terminal) UpdateProductForm(form panel.ProductForm) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.productForm == nil {
		return false
	}
	*t.productForm = form
	t.printProductForm(form)
	return true
}

func (t *Terminal) printProductForm(f panel.ProductForm) {
	fmt.Fprintln(t.out)
	cyan.Fprintf(t.out, "  %s\n", f.Title)
	sku := f.SKU
	if f.SKULocked {
		sku += dim.Sprint(" (locked)")
	}
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  sku\t%s\n", sku)
	fmt.Fprintf(w, "  name\t%s\n", f.Name)
	fmt.Fprintf(w, "  description\t%s\n", f.Description)
	fmt.Fprintf(w, "  price\t%s\n", f.Price)
	fmt.Fprintf(w, "  quantity\t%s\n", f.Quantity)
	fmt.Fprintf(w, "  active\t%t\n", f.IsActive)
	w.Flush()
	dim.Fprintln(t.out, "  /set <field> <value>, /save, /cancel")
}

// RenderWebhooks prints the webhook table.
func (t *Terminal) RenderWebhooks(hooks []api.Webhook) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out)
	cyan.Fprintln(t.out, "  Webhooks")
	cyan.Fprintln(t.out, "  --------")

	if len(hooks) == 0 {
		fmt.Fprintln(t.out, "  No webhooks configured.")
		fmt.Fprintln(t.out)
		return
	}

	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tURL\tEVENT\tSTATUS\tLAST TRIGGERED")
	fmt.Fprintln(w, "  --\t---\t-----\t------\t--------------")
	for _, h := range hooks {
		status := "Disabled"
		if h.IsEnabled {
			status = "Enabled"
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n",
			h.ID, truncate(h.URL, 48), h.EventType, status, LastTriggered(h))
	}
	w.Flush()
	fmt.Fprintln(t.out)
}

// ShowWebhookForm prints the form and keeps it open for editing.
func (t *Terminal) ShowWebhookForm(form panel.WebhookForm) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f := form
	t.webhookForm = &f
	t.printWebhookForm(f)
}

// HideWebhookForm closes the webhook form.
func (t *Terminal) HideWebhookForm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.webhookForm = nil
}

// WebhookForm returns the open webhook form, if any.
func (t *Terminal) WebhookForm() (panel.WebhookForm, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.webhookForm == nil {
		return panel.WebhookForm{}, false
	}
	return *t.webhookForm, true
}

// UpdateWebhookForm replaces the open webhook form's content and reprints it.
func (t *Terminal) UpdateWebhookForm(form panel.WebhookForm) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.webhookForm == nil {
		return false
	}
	*t.webhookForm = form
	t.printWebhookForm(form)
	return true
}

func (t *Terminal) printWebhookForm(f panel.WebhookForm) {
	fmt.Fprintln(t.out)
	cyan.Fprintf(t.out, "  %s\n", f.Title)
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  url\t%s\n", f.URL)
	fmt.Fprintf(w, "  event\t%s\n", f.EventType)
	fmt.Fprintf(w, "  enabled\t%t\n", f.IsEnabled)
	w.Flush()
	dim.Fprintf(t.out, "  events: %s\n", strings.Join(api.EventTypes, ", "))
	dim.Fprintln(t.out, "  /set <field> <value>, /save, /cancel")
}

// ShowProgress announces an import in progress.
func (t *Terminal) ShowProgress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	yellow.Fprintln(t.out, "  Import started")
}

// UpdateProgress prints the progress bar.
func (t *Terminal) UpdateProgress(percentage float64, status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "  %s %s %s\n", ProgressBar(percentage, progressWidth), formatPercent(percentage), status)
}

// HideProgress closes the progress display.
func (t *Terminal) HideProgress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	dim.Fprintln(t.out, "  Import finished")
}

// ShowConfirm prints the confirmation question.
func (t *Terminal) ShowConfirm(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.confirming = true
	yellow.Fprintf(t.out, "  ? %s\n", message)
	dim.Fprintln(t.out, "  /yes to confirm, /no to cancel")
}

// HideConfirm closes the confirmation question.
func (t *Terminal) HideConfirm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.confirming = false
}

// Confirming reports whether a confirmation question is open.
func (t *Terminal) Confirming() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.confirming
}

// ShowToast prints a notification.
func (t *Terminal) ShowToast(toast panel.Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch toast.Severity {
	case panel.SeverityError:
		red.Fprintf(t.out, "  ✗ %s\n", toast.Message)
	default:
		green.Fprintf(t.out, "  ✓ %s\n", toast.Message)
	}
}

// FadeToast is a no-op; printed lines stay in the scrollback.
func (t *Terminal) FadeToast(string) {}

// RemoveToast is a no-op; printed lines stay in the scrollback.
func (t *Terminal) RemoveToast(string) {}

// ProgressBar draws percentage (0-100) as a bar of width cells.
func ProgressBar(percentage float64, width int) string {
	pct := min(max(percentage, 0), 100)
	filled := int(pct / 100 * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// LastTriggered formats a webhook's last delivery in local time, or "Never".
func LastTriggered(h api.Webhook) string {
	if h.LastTriggeredAt == nil || h.LastTriggeredAt.IsZero() {
		return "Never"
	}
	return h.LastTriggeredAt.Local().Format(time.DateTime)
}

func formatPercent(p float64) string {
	if p == float64(int64(p)) {
		return fmt.Sprintf("%d%%", int64(p))
	}
	return fmt.Sprintf("%.1f%%", p)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
