// ABOUTME: Test doubles for the panel: a recording View and a running loop
// ABOUTME: The recorder is read from the test goroutine, so it locks internally

package panel

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/2389/catalog-panel/internal/api"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startLoop runs a loop until the test ends.
func startLoop(t *testing.T) *Loop {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(ctx, discardLogger())
	done := make(chan struct{})
	go func() {
		_ = loop.Run()
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return loop
}

// onLoop runs fn on the loop and waits for it.
func onLoop(t *testing.T, loop *Loop, fn func()) {
	t.Helper()
	done := make(chan struct{})
	if !loop.Post(func() {
		fn()
		close(done)
	}) {
		t.Fatal("loop stopped")
	}
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for loop")
	}
}

type recordingView struct {
	mu sync.Mutex

	products        [][]api.Product
	pagination      []Pagination
	productForms    []ProductForm
	productFormHide int

	webhooks        [][]api.Webhook
	webhookForms    []WebhookForm
	webhookFormHide int

	progressShown  int
	progressHidden int
	percentages    []float64
	statuses       []string

	confirms    []string
	confirmHide int

	toasts  []Toast
	faded   []string
	removed []string
}

func (v *recordingView) RenderProducts(products []api.Product) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.products = append(v.products, products)
}

func (v *recordingView) RenderPagination(p Pagination) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pagination = append(v.pagination, p)
}

func (v *recordingView) ShowProductForm(form ProductForm) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.productForms = append(v.productForms, form)
}

func (v *recordingView) HideProductForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.productFormHide++
}

func (v *recordingView) RenderWebhooks(hooks []api.Webhook) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.webhooks = append(v.webhooks, hooks)
}

func (v *recordingView) ShowWebhookForm(form WebhookForm) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.webhookForms = append(v.webhookForms, form)
}

func (v *recordingView) HideWebhookForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.webhookFormHide++
}

func (v *recordingView) ShowProgress() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progressShown++
}

func (v *recordingView) UpdateProgress(percentage float64, status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.percentages = append(v.percentages, percentage)
	v.statuses = append(v.statuses, status)
}

func (v *recordingView) HideProgress() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progressHidden++
}

func (v *recordingView) ShowConfirm(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.confirms = append(v.confirms, message)
}

func (v *recordingView) HideConfirm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.confirmHide++
}

func (v *recordingView) ShowToast(t Toast) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toasts = append(v.toasts, t)
}

func (v *recordingView) FadeToast(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.faded = append(v.faded, id)
}

func (v *recordingView) RemoveToast(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removed = append(v.removed, id)
}

// toastTexts returns "severity: message" for every toast shown so far.
func (v *recordingView) toastTexts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, 0, len(v.toasts))
	for _, t := range v.toasts {
		out = append(out, string(t.Severity)+": "+t.Message)
	}
	return out
}

func (v *recordingView) hasToast(text string) bool {
	for _, got := range v.toastTexts() {
		if got == text {
			return true
		}
	}
	return false
}

func (v *recordingView) countToast(text string) int {
	n := 0
	for _, got := range v.toastTexts() {
		if got == text {
			n++
		}
	}
	return n
}

func (v *recordingView) lastProducts() []api.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.products) == 0 {
		return nil
	}
	return v.products[len(v.products)-1]
}

func (v *recordingView) renderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.products)
}

func (v *recordingView) lastProductForm() (ProductForm, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.productForms) == 0 {
		return ProductForm{}, false
	}
	return v.productForms[len(v.productForms)-1], true
}

func (v *recordingView) lastWebhookForm() (WebhookForm, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.webhookForms) == 0 {
		return WebhookForm{}, false
	}
	return v.webhookForms[len(v.webhookForms)-1], true
}

func (v *recordingView) progress() (shown, hidden int, percentages []float64, statuses []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.progressShown, v.progressHidden,
		append([]float64(nil), v.percentages...), append([]string(nil), v.statuses...)
}
