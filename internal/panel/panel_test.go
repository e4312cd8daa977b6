// ABOUTME: Scenario tests for the controllers against an httptest catalog backend
// ABOUTME: Covers upload+progress, CRUD routing, debounced search, stale pages, and toasts

package panel

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/catalog-panel/internal/api"
)

// backendLog records the requests the fake backend receives.
type backendLog struct {
	mu       sync.Mutex
	requests []string
	queries  []string
}

func (l *backendLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, r.Method+" "+r.URL.Path)
	if r.URL.Path == "/api/products" && r.Method == http.MethodGet {
		l.queries = append(l.queries, r.URL.RawQuery)
	}
}

func (l *backendLog) count(req string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, got := range l.requests {
		if got == req {
			n++
		}
	}
	return n
}

func (l *backendLog) productQueries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.queries...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	loop  *Loop
	view  *recordingView
	panel *Panel
	log   *backendLog
	mux   *http.ServeMux
}

// newFixture starts a backend whose routes the test registers on mux, and a
// panel pointing at it. Product and webhook listings have defaults.
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	f := &fixture{
		view: &recordingView{},
		log:  &backendLog{},
		mux:  http.NewServeMux(),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.log.add(r)
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	f.loop = startLoop(t)
	opts.Logger = discardLogger()
	if opts.SearchDebounce == 0 {
		opts.SearchDebounce = 40 * time.Millisecond
	}
	if opts.TerminalDelay == 0 {
		opts.TerminalDelay = 50 * time.Millisecond
	}
	if opts.ToastDuration == 0 {
		opts.ToastDuration = time.Minute
	}
	f.panel = New(f.loop, api.New(srv.URL, api.WithLogger(discardLogger())), f.view, opts)
	return f
}

func (f *fixture) handleProducts(products ...api.Product) {
	f.mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.ProductPage{
			Products: products, Total: len(products), Page: 1, PerPage: 50, TotalPages: 1,
		})
	})
}

func (f *fixture) handleWebhooks(hooks ...api.Webhook) {
	f.mux.HandleFunc("GET /api/webhooks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.WebhookList{Webhooks: hooks})
	})
}

func (f *fixture) dispatch(t *testing.T, a Action) {
	t.Helper()
	require.True(t, f.panel.Dispatch(a))
}

func (f *fixture) waitToast(t *testing.T, text string) {
	t.Helper()
	require.Eventually(t, func() bool { return f.view.hasToast(text) }, waitFor, tick,
		"toast %q not shown; got %v", text, f.view.toastTexts())
}

func TestNew_Defaults(t *testing.T) {
	p := New(startLoop(t), nil, &recordingView{}, Options{})

	assert.Equal(t, 500*time.Millisecond, DefaultSearchDebounce)
	assert.Equal(t, DefaultSearchDebounce, p.Products.search.delay)
	assert.Equal(t, api.DefaultPageSize, p.Products.pageSize)
	assert.Equal(t, 2*time.Second, p.Progress.delay)
	assert.Equal(t, 4*time.Second, p.Toaster.duration)
	assert.Equal(t, 300*time.Millisecond, p.Toaster.fade)
	assert.False(t, p.Webhooks.prompter.Confirm("delete?"), "no prompter declines")
}

func TestPanel_StartLoadsProductsAndWebhooks(t *testing.T) {
	f := newFixture(t, Options{})
	f.mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.ProductPage{
			Products:   []api.Product{{ID: 1, SKU: "A1", Name: "Apple"}},
			Total:      120,
			Page:       1,
			PerPage:    50,
			TotalPages: 3,
		})
	})
	f.handleWebhooks(api.Webhook{ID: 3, URL: "https://example.com/h", EventType: api.EventProductCreated})

	f.panel.Start()

	require.Eventually(t, func() bool {
		f.view.mu.Lock()
		defer f.view.mu.Unlock()
		return len(f.view.products) == 1 && len(f.view.webhooks) == 1
	}, waitFor, tick)

	f.view.mu.Lock()
	defer f.view.mu.Unlock()
	assert.Equal(t, "Apple", f.view.products[0][0].Name)
	assert.Equal(t, []int{1, 2, 3}, f.view.pagination[0].Pages)
	assert.Equal(t, int64(3), f.view.webhooks[0][0].ID)
	assert.Equal(t, []string{"page=1&per_page=50"}, f.log.productQueries())
}

func TestPanel_LoadProductsError(t *testing.T) {
	f := newFixture(t, Options{})
	f.mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "database is locked"})
	})

	f.dispatch(t, ReloadProducts{})
	f.waitToast(t, "error: Error loading products: database is locked")
	assert.Zero(t, f.view.renderCount())
}

func TestPanel_FilterAndPageQueries(t *testing.T) {
	f := newFixture(t, Options{})
	f.handleProducts()

	f.dispatch(t, ChangePage{Page: 3})
	require.Eventually(t, func() bool { return len(f.log.productQueries()) == 1 }, waitFor, tick)

	f.dispatch(t, FilterProducts{Status: StatusActive})
	require.Eventually(t, func() bool { return len(f.log.productQueries()) == 2 }, waitFor, tick)

	assert.Equal(t, []string{
		"page=3&per_page=50",
		"is_active=true&page=1&per_page=50",
	}, f.log.productQueries())
}

func TestPanel_SearchIsDebounced(t *testing.T) {
	f := newFixture(t, Options{SearchDebounce: 60 * time.Millisecond})
	f.handleProducts()

	for _, term := range []string{"w", "wi", "wid", "widget"} {
		f.dispatch(t, SearchProducts{Term: term})
		time.Sleep(10 * time.Millisecond)
	}
	assert.Empty(t, f.log.productQueries(), "no request while typing")

	require.Eventually(t, func() bool { return len(f.log.productQueries()) == 1 }, waitFor, tick)
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, []string{"page=1&per_page=50&search=widget"}, f.log.productQueries())
}

func TestPanel_StaleProductPageIsDropped(t *testing.T) {
	f := newFixture(t, Options{})

	release := make(chan struct{})
	f.mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("search")
		if term == "slow" {
			<-release
		}
		writeJSON(w, http.StatusOK, api.ProductPage{
			Products:   []api.Product{{ID: 1, SKU: term, Name: term}},
			Total:      1,
			Page:       1,
			PerPage:    50,
			TotalPages: 1,
		})
	})

	onLoop(t, f.loop, func() {
		f.panel.State.SetSearch("slow")
		f.panel.Products.Load()
		f.panel.State.SetSearch("fast")
		f.panel.Products.Load()
	})

	require.Eventually(t, func() bool { return f.view.renderCount() == 1 }, waitFor, tick)
	close(release)
	require.Eventually(t, func() bool { return len(f.log.productQueries()) == 2 }, waitFor, tick)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, f.view.renderCount())
	assert.Equal(t, "fast", f.view.lastProducts()[0].Name)
}

func TestPanel_ProductSubmitCreatesOrUpdates(t *testing.T) {
	f := newFixture(t, Options{})
	f.handleProducts()

	var (
		mu     sync.Mutex
		bodies []api.ProductInput
	)
	record := func(w http.ResponseWriter, r *http.Request) {
		var in api.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		mu.Lock()
		bodies = append(bodies, in)
		mu.Unlock()
		writeJSON(w, http.StatusOK, api.Product{ID: 9, SKU: in.SKU, Name: in.Name})
	}
	f.mux.HandleFunc("POST /api/products", record)
	f.mux.HandleFunc("PUT /api/products/{id}", record)
	f.mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.Product{
			ID: 12, SKU: "PEN-1", Name: "Pen", Description: "blue", Price: 2.5, Quantity: 40, IsActive: true,
		})
	})

	form := ProductForm{SKU: "PEN-1", Name: "Pen", Price: "2.50", Quantity: "40", IsActive: true}

	f.dispatch(t, AddProduct{})
	f.dispatch(t, SubmitProduct{Form: form})
	f.waitToast(t, "success: Product created!")
	assert.Equal(t, 1, f.log.count("POST /api/products"))

	f.dispatch(t, EditProduct{ID: 12})
	require.Eventually(t, func() bool {
		form, ok := f.view.lastProductForm()
		return ok && form.Title == "Edit Product"
	}, waitFor, tick)

	edit, _ := f.view.lastProductForm()
	assert.True(t, edit.SKULocked)
	assert.Equal(t, "2.5", edit.Price)
	assert.Equal(t, "40", edit.Quantity)
	assert.Equal(t, "blue", edit.Description)

	edit.Name = "Pen (blue)"
	f.dispatch(t, SubmitProduct{Form: edit})
	f.waitToast(t, "success: Product updated!")
	assert.Equal(t, 1, f.log.count("PUT /api/products/12"))
	assert.Equal(t, 1, f.log.count("POST /api/products"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Equal(t, 2.5, bodies[0].Price)
	assert.Equal(t, 40, bodies[0].Quantity)
	assert.Equal(t, "Pen (blue)", bodies[1].Name)

	f.view.mu.Lock()
	defer f.view.mu.Unlock()
	assert.Equal(t, 2, f.view.productFormHide)
	assert.Equal(t, "Add Product", f.view.productForms[0].Title)
	assert.False(t, f.view.productForms[0].SKULocked)
}

func TestPanel_ProductSubmitErrors(t *testing.T) {
	f := newFixture(t, Options{})
	f.mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Product with SKU 'A1' already exists"})
	})

	f.dispatch(t, SubmitProduct{Form: ProductForm{SKU: "A1", Name: "Apple", Price: "abc", Quantity: "1"}})
	f.waitToast(t, "error: Price must be a number")

	for i, price := range []string{"NaN", "Inf", "-inf"} {
		f.dispatch(t, SubmitProduct{Form: ProductForm{SKU: "A1", Name: "Apple", Price: price, Quantity: "1"}})
		require.Eventually(t, func() bool {
			return f.view.countToast("error: Price must be a number") == i+2
		}, waitFor, tick, "price %q: got %v", price, f.view.toastTexts())
	}

	f.dispatch(t, SubmitProduct{Form: ProductForm{SKU: "A1", Name: "Apple", Price: "1", Quantity: "1.5"}})
	f.waitToast(t, "error: Quantity must be a whole number")
	assert.Zero(t, f.log.count("POST /api/products"), "unparsable fields send nothing")

	f.dispatch(t, SubmitProduct{Form: ProductForm{SKU: "A1", Name: "Apple", Price: "1", Quantity: "1"}})
	f.waitToast(t, "error: Product with SKU 'A1' already exists")

	f.view.mu.Lock()
	defer f.view.mu.Unlock()
	assert.Zero(t, f.view.productFormHide, "form stays open on failure")
}

func TestPanel_EditProductNotFound(t *testing.T) {
	f := newFixture(t, Options{})
	f.mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Product not found"})
	})

	f.dispatch(t, EditProduct{ID: 99})
	f.waitToast(t, "error: Error loading product: Product not found")
	_, opened := f.view.lastProductForm()
	assert.False(t, opened)
}

func TestPanel_DeleteProductNeedsConfirmation(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.handleProducts()
		f.mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, api.MessageResult{Message: "Product deleted successfully"})
		})

		f.dispatch(t, DeleteProduct{ID: 7})
		onLoop(t, f.loop, func() {
			assert.Equal(t, "Are you sure you want to delete this product?", f.panel.Confirm.Message())
		})
		f.dispatch(t, ConfirmDialog{})

		f.waitToast(t, "success: Product deleted!")
		require.Eventually(t, func() bool { return f.view.renderCount() == 1 }, waitFor, tick)
		assert.Equal(t, 1, f.log.count("DELETE /api/products/7"))
	})

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, api.MessageResult{Message: "Product deleted successfully"})
		})

		f.dispatch(t, DeleteProduct{ID: 7})
		f.dispatch(t, CancelDialog{})
		f.dispatch(t, ConfirmDialog{})
		time.Sleep(50 * time.Millisecond)

		assert.Zero(t, f.log.count("DELETE /api/products/7"))
	})

	t.Run("server refuses", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Product not found"})
		})

		f.dispatch(t, DeleteProduct{ID: 7})
		f.dispatch(t, ConfirmDialog{})
		f.waitToast(t, "error: Error deleting product")
	})
}

func TestPanel_BulkDelete(t *testing.T) {
	f := newFixture(t, Options{})
	f.handleProducts()
	f.mux.HandleFunc("DELETE /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.MessageResult{Message: "Successfully deleted 12 products", Count: 12})
	})

	f.dispatch(t, BulkDeleteProducts{})
	f.dispatch(t, ConfirmDialog{})

	f.waitToast(t, "success: Successfully deleted 12 products")
	require.Eventually(t, func() bool { return f.view.renderCount() == 1 }, waitFor, tick)

	f.view.mu.Lock()
	defer f.view.mu.Unlock()
	assert.Equal(t,
		[]string{"⚠️ Are you sure you want to delete ALL products? This action cannot be undone!"},
		f.view.confirms)
}

func TestPanel_WebhookCRUD(t *testing.T) {
	f := newFixture(t, Options{Prompter: PrompterFunc(func(string) bool { return true })})
	f.handleWebhooks(api.Webhook{ID: 3, URL: "https://example.com/h", EventType: api.EventProductUpdated, IsEnabled: false})
	f.mux.HandleFunc("POST /api/webhooks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, api.Webhook{ID: 4})
	})
	f.mux.HandleFunc("PUT /api/webhooks/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.Webhook{ID: 3})
	})
	f.mux.HandleFunc("DELETE /api/webhooks/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.MessageResult{Message: "Webhook deleted successfully"})
	})

	f.dispatch(t, AddWebhook{})
	f.dispatch(t, SubmitWebhook{Form: WebhookForm{URL: "https://example.com/new", EventType: api.EventProductCreated, IsEnabled: true}})
	f.waitToast(t, "success: Webhook created!")

	f.dispatch(t, EditWebhook{ID: 3})
	require.Eventually(t, func() bool {
		form, ok := f.view.lastWebhookForm()
		return ok && form.Title == "Edit Webhook"
	}, waitFor, tick)
	form, _ := f.view.lastWebhookForm()
	assert.Equal(t, api.EventProductUpdated, form.EventType)
	assert.False(t, form.IsEnabled)

	f.dispatch(t, SubmitWebhook{Form: form})
	f.waitToast(t, "success: Webhook updated!")
	assert.Equal(t, 1, f.log.count("PUT /api/webhooks/3"))

	f.dispatch(t, DeleteWebhook{ID: 3})
	f.waitToast(t, "success: Webhook deleted!")
	assert.Equal(t, 1, f.log.count("DELETE /api/webhooks/3"))
}

func TestPanel_EditUnknownWebhookIsSilent(t *testing.T) {
	f := newFixture(t, Options{})
	f.handleWebhooks(api.Webhook{ID: 3})

	f.dispatch(t, EditWebhook{ID: 42})
	require.Eventually(t, func() bool { return f.log.count("GET /api/webhooks") == 1 }, waitFor, tick)
	onLoop(t, f.loop, func() {})
	time.Sleep(20 * time.Millisecond)

	_, opened := f.view.lastWebhookForm()
	assert.False(t, opened)
	assert.Empty(t, f.view.toastTexts())
}

func TestPanel_DeleteWebhookDeclined(t *testing.T) {
	var asked []string
	f := newFixture(t, Options{Prompter: PrompterFunc(func(msg string) bool {
		asked = append(asked, msg)
		return false
	})})

	f.dispatch(t, DeleteWebhook{ID: 3})
	onLoop(t, f.loop, func() {
		assert.Equal(t, []string{"Are you sure you want to delete this webhook?"}, asked)
	})
	assert.Zero(t, f.log.count("DELETE /api/webhooks/3"))
}

func TestPanel_TestWebhook(t *testing.T) {
	f := newFixture(t, Options{})
	f.mux.HandleFunc("POST /api/webhooks/{id}/test", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "3" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Webhook test failed: connection refused"})
			return
		}
		writeJSON(w, http.StatusOK, api.WebhookTestResult{Message: "Webhook test successful", StatusCode: 200, ResponseTime: 0.12})
	})

	f.dispatch(t, TestWebhook{ID: 3})
	f.waitToast(t, "success: Webhook test successful! Status: 200")

	f.dispatch(t, TestWebhook{ID: 5})
	f.waitToast(t, "error: Webhook test failed: connection refused")
}

func writeCSV(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("sku,name,price\nA1,Apple,1.00\n"), 0o644))
	return path
}

func TestPanel_UploadAndTrackProgress(t *testing.T) {
	f := newFixture(t, Options{TerminalDelay: 80 * time.Millisecond})
	f.handleProducts()
	f.mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		file.Close()
		if header.Filename != "products.csv" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "wrong name"})
			return
		}
		writeJSON(w, http.StatusAccepted, api.UploadResult{Message: "File uploaded successfully", TaskID: "abc123"})
	})
	f.mux.HandleFunc("GET /api/progress/{task}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("task") != "abc123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, frame := range []string{
			`{"percentage":50,"status":"Processing..."}`,
			`{"percentage":100,"status":"complete","message":"Done"}`,
		} {
			fmt.Fprintf(w, "data: %s\n\n", frame)
			flusher.Flush()
		}
	})

	f.dispatch(t, UploadFile{Path: writeCSV(t, "products.csv")})

	f.waitToast(t, "success: File uploaded successfully! Processing...")
	f.waitToast(t, "success: Done")

	_, _, percentages, statuses := f.view.progress()
	assert.Equal(t, []float64{50, 100}, percentages)
	assert.Equal(t, []string{"Processing...", "complete"}, statuses)
	assert.Zero(t, f.log.count("GET /api/products"), "reload waits for the terminal delay")

	require.Eventually(t, func() bool { return f.log.count("GET /api/products") == 1 }, waitFor, tick)
	shown, hidden, _, _ := f.view.progress()
	assert.Equal(t, 1, shown)
	assert.Equal(t, 1, hidden)

	onLoop(t, f.loop, func() {
		assert.Zero(t, f.panel.Progress.Active())
	})
}

func TestPanel_ImportError(t *testing.T) {
	f := newFixture(t, Options{})
	f.mux.HandleFunc("GET /api/progress/{task}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"status\":\"error\",\"percentage\":0,\"error\":\"Missing required columns: price\"}\n\n")
	})

	onLoop(t, f.loop, func() { f.panel.Progress.Track("t1") })
	f.waitToast(t, "error: Missing required columns: price")

	require.Eventually(t, func() bool {
		_, hidden, _, _ := f.view.progress()
		return hidden == 1
	}, waitFor, tick)
	assert.Zero(t, f.log.count("GET /api/products"), "no reload after a failed import")
}

func TestPanel_ProgressConnectionError(t *testing.T) {
	f := newFixture(t, Options{})
	f.mux.HandleFunc("GET /api/progress/{task}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"status\":\"waiting\",\"percentage\":0}\n\n")
	})

	onLoop(t, f.loop, func() { f.panel.Progress.Track("t1") })
	f.waitToast(t, "error: Connection error. Please refresh the page.")

	_, _, _, statuses := f.view.progress()
	assert.Equal(t, []string{"waiting"}, statuses)
}

func TestPanel_UploadRejections(t *testing.T) {
	f := newFixture(t, Options{})
	f.mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Only CSV files are allowed"})
	})

	f.dispatch(t, UploadFile{Path: "products.txt"})
	f.waitToast(t, "error: Please upload a CSV file")
	assert.Zero(t, f.log.count("POST /api/upload"))

	f.dispatch(t, UploadFile{Path: writeCSV(t, "products.csv")})
	f.waitToast(t, "error: Only CSV files are allowed")

	f.dispatch(t, UploadFile{Path: filepath.Join(t.TempDir(), "missing.csv")})
	require.Eventually(t, func() bool {
		for _, got := range f.view.toastTexts() {
			if strings.HasPrefix(got, "error: Error uploading file: opening upload:") {
				return true
			}
		}
		return false
	}, waitFor, tick)

	onLoop(t, f.loop, func() {
		assert.Zero(t, f.panel.Progress.Active())
	})
}
