// ABOUTME: Development catalog backend serving the /api REST and SSE surface
// ABOUTME: Routes requests to product, webhook, upload, and progress handlers over a Store

package fakeapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/2389/catalog-panel/internal/auth"
	"github.com/2389/catalog-panel/internal/store"
)

// Defaults for Options fields left zero.
const (
	DefaultMaxUploadBytes   = 100 << 20
	DefaultProgressInterval = 500 * time.Millisecond
	DefaultWebhookTimeout   = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// MaxUploadBytes caps the size of an uploaded CSV file.
	MaxUploadBytes int64
	// ProgressInterval is how often the SSE handler polls task progress.
	ProgressInterval time.Duration
	// WebhookTimeout bounds each outbound webhook request.
	WebhookTimeout time.Duration
	// Verifier, when set, requires a bearer token on every request.
	Verifier auth.TokenVerifier
	// HTTPClient sends webhook requests. Defaults to a client with WebhookTimeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Server is the development backend. Create it with New and serve Handler.
type Server struct {
	store    store.Store
	progress *ProgressStore
	notifier *Notifier
	opts     Options
	logger   *slog.Logger

	jobs sync.WaitGroup
}

// New creates a Server over st.
func New(st store.Store, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.WebhookTimeout <= 0 {
		opts.WebhookTimeout = DefaultWebhookTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.WebhookTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "fakeapi")

	return &Server{
		store:    st,
		progress: NewProgressStore(DefaultProgressTTL, DefaultProgressMaxSize),
		notifier: NewNotifier(st, opts.HTTPClient, logger),
		opts:     opts,
		logger:   logger,
	}
}

// Handler returns the routed /api handler, wrapped in bearer auth when a
// verifier is configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/progress/{task_id}", s.handleProgress)

	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	mux.HandleFunc("DELETE /api/products", s.handleDeleteAllProducts)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("PUT /api/products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", s.handleDeleteProduct)

	mux.HandleFunc("GET /api/webhooks", s.handleListWebhooks)
	mux.HandleFunc("POST /api/webhooks", s.handleCreateWebhook)
	mux.HandleFunc("PUT /api/webhooks/{id}", s.handleUpdateWebhook)
	mux.HandleFunc("DELETE /api/webhooks/{id}", s.handleDeleteWebhook)
	mux.HandleFunc("POST /api/webhooks/{id}/test", s.handleTestWebhook)

	var h http.Handler = mux
	if s.opts.Verifier != nil {
		h = auth.HTTPAuthMiddleware(s.opts.Verifier)(h)
	}
	return s.logRequests(h)
}

// Wait blocks until running imports and webhook notifications finish.
func (s *Server) Wait() {
	s.jobs.Wait()
	s.notifier.Wait()
}

// Close waits for background work and stops the progress store.
func (s *Server) Close() {
	s.Wait()
	s.progress.Close()
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush lets SSE responses stream through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendJSONError writes the {"detail": ...} error body the client expects.
func sendJSONError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
