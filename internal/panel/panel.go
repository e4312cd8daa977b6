// ABOUTME: Panel wires the controllers to one loop, backend, and view
// ABOUTME: User actions are typed values dispatched onto the loop by row id

package panel

import (
	"context"
	"log/slog"
	"time"

	"github.com/2389/catalog-panel/internal/api"
)

// Backend is the catalog API the controllers call. *api.Client implements it.
type Backend interface {
	ListProducts(ctx context.Context, q api.ProductQuery) (*api.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*api.Product, error)
	CreateProduct(ctx context.Context, in api.ProductInput) (*api.Product, error)
	UpdateProduct(ctx context.Context, id int64, in api.ProductInput) (*api.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeleteAllProducts(ctx context.Context) (*api.MessageResult, error)

	ListWebhooks(ctx context.Context) ([]api.Webhook, error)
	FindWebhook(ctx context.Context, id int64) (*api.Webhook, error)
	CreateWebhook(ctx context.Context, in api.WebhookInput) (*api.Webhook, error)
	UpdateWebhook(ctx context.Context, id int64, in api.WebhookInput) (*api.Webhook, error)
	DeleteWebhook(ctx context.Context, id int64) error
	TestWebhook(ctx context.Context, id int64) (*api.WebhookTestResult, error)

	UploadFile(ctx context.Context, path string) (*api.UploadResult, error)
	OpenProgress(ctx context.Context, taskID string) (*api.ProgressStream, error)
}

var _ Backend = (*api.Client)(nil)

// Options tunes panel behaviour. Zero values use the defaults.
type Options struct {
	PageSize       int
	SearchDebounce time.Duration
	TerminalDelay  time.Duration
	ToastDuration  time.Duration
	ToastFade      time.Duration

	// Prompter answers webhook delete questions. Nil declines every question.
	Prompter Prompter
	Logger   *slog.Logger
}

// Panel is the admin panel: state, controllers, and the loop they share.
type Panel struct {
	loop   *Loop
	view   View
	logger *slog.Logger

	State    *State
	Confirm  *Confirmation
	Toaster  *Toaster
	Upload   *UploadController
	Progress *ProgressTracker
	Products *ProductController
	Webhooks *WebhookController
}

// New assembles a panel. Call Start once the loop is running.
func New(loop *Loop, backend Backend, view View, opts Options) *Panel {
	if opts.PageSize <= 0 {
		opts.PageSize = api.DefaultPageSize
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	if opts.TerminalDelay <= 0 {
		opts.TerminalDelay = DefaultTerminalDelay
	}
	if opts.Prompter == nil {
		opts.Prompter = PrompterFunc(func(string) bool { return false })
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := NewState()
	toaster := NewToaster(loop, view, opts.ToastDuration, opts.ToastFade)
	confirm := NewConfirmation(view)

	p := &Panel{
		loop:    loop,
		view:    view,
		logger:  logger.With("component", "panel"),
		State:   state,
		Confirm: confirm,
		Toaster: toaster,
	}

	p.Products = &ProductController{
		loop:     loop,
		backend:  backend,
		view:     view,
		toaster:  toaster,
		confirm:  confirm,
		state:    state,
		search:   NewDebouncer(loop, opts.SearchDebounce),
		pageSize: opts.PageSize,
		logger:   logger.With("component", "products"),
	}
	p.Webhooks = &WebhookController{
		loop:     loop,
		backend:  backend,
		view:     view,
		toaster:  toaster,
		prompter: opts.Prompter,
		state:    state,
		logger:   logger.With("component", "webhooks"),
	}
	p.Progress = &ProgressTracker{
		loop:       loop,
		backend:    backend,
		view:       view,
		toaster:    toaster,
		delay:      opts.TerminalDelay,
		onComplete: p.Products.Load,
		logger:     logger.With("component", "progress"),
	}
	p.Upload = &UploadController{
		loop:    loop,
		backend: backend,
		toaster: toaster,
		tracker: p.Progress,
		logger:  logger.With("component", "upload"),
	}

	return p
}

// Start performs the initial product and webhook loads.
func (p *Panel) Start() {
	p.loop.Post(func() {
		p.logger.Debug("initial load")
		p.Products.Load()
		p.Webhooks.Load()
	})
}

// Dispatch runs action on the loop.
func (p *Panel) Dispatch(action Action) bool {
	return p.loop.Post(func() {
		p.logger.Debug("dispatch", "action", action.name())
		action.apply(p)
	})
}

// DispatchWait is Dispatch returning a channel closed once action has run. It
// is closed at once if the loop has stopped.
func (p *Panel) DispatchWait(action Action) <-chan struct{} {
	done := make(chan struct{})
	if !p.loop.Post(func() {
		defer close(done)
		p.logger.Debug("dispatch", "action", action.name())
		action.apply(p)
	}) {
		close(done)
	}
	return done
}

// Action is a user interaction addressed to a controller.
type Action interface {
	name() string
	apply(p *Panel)
}

type (
	UploadFile         struct{ Path string }
	SearchProducts     struct{ Term string }
	FilterProducts     struct{ Status string }
	ChangePage         struct{ Page int }
	ReloadProducts     struct{}
	AddProduct         struct{}
	EditProduct        struct{ ID int64 }
	SubmitProduct      struct{ Form ProductForm }
	CloseProductForm   struct{}
	DeleteProduct      struct{ ID int64 }
	BulkDeleteProducts struct{}
	ConfirmDialog      struct{}
	CancelDialog       struct{}
	ReloadWebhooks     struct{}
	AddWebhook         struct{}
	EditWebhook        struct{ ID int64 }
	SubmitWebhook      struct{ Form WebhookForm }
	CloseWebhookForm   struct{}
	DeleteWebhook      struct{ ID int64 }
	TestWebhook        struct{ ID int64 }
)

func (a UploadFile) name() string         { return "upload" }
func (a SearchProducts) name() string     { return "search" }
func (a FilterProducts) name() string     { return "filter" }
func (a ChangePage) name() string         { return "page" }
func (a ReloadProducts) name() string     { return "products.reload" }
func (a AddProduct) name() string         { return "products.add" }
func (a EditProduct) name() string        { return "products.edit" }
func (a SubmitProduct) name() string      { return "products.submit" }
func (a CloseProductForm) name() string   { return "products.close" }
func (a DeleteProduct) name() string      { return "products.delete" }
func (a BulkDeleteProducts) name() string { return "products.delete_all" }
func (a ConfirmDialog) name() string      { return "confirm.yes" }
func (a CancelDialog) name() string       { return "confirm.no" }
func (a ReloadWebhooks) name() string     { return "webhooks.reload" }
func (a AddWebhook) name() string         { return "webhooks.add" }
func (a EditWebhook) name() string        { return "webhooks.edit" }
func (a SubmitWebhook) name() string      { return "webhooks.submit" }
func (a CloseWebhookForm) name() string   { return "webhooks.close" }
func (a DeleteWebhook) name() string      { return "webhooks.delete" }
func (a TestWebhook) name() string        { return "webhooks.test" }

func (a UploadFile) apply(p *Panel)         { p.Upload.Upload(a.Path) }
func (a SearchProducts) apply(p *Panel)     { p.Products.Search(a.Term) }
func (a FilterProducts) apply(p *Panel)     { p.Products.FilterStatus(a.Status) }
func (a ChangePage) apply(p *Panel)         { p.Products.ChangePage(a.Page) }
func (a ReloadProducts) apply(p *Panel)     { p.Products.Load() }
func (a AddProduct) apply(p *Panel)         { p.Products.OpenCreate() }
func (a EditProduct) apply(p *Panel)        { p.Products.Edit(a.ID) }
func (a SubmitProduct) apply(p *Panel)      { p.Products.Submit(a.Form) }
func (a CloseProductForm) apply(p *Panel)   { p.Products.CloseForm() }
func (a DeleteProduct) apply(p *Panel)      { p.Products.Delete(a.ID) }
func (a BulkDeleteProducts) apply(p *Panel) { p.Products.BulkDelete() }
func (a ConfirmDialog) apply(p *Panel)      { p.Confirm.Confirm() }
func (a CancelDialog) apply(p *Panel)       { p.Confirm.Cancel() }
func (a ReloadWebhooks) apply(p *Panel)     { p.Webhooks.Load() }
func (a AddWebhook) apply(p *Panel)         { p.Webhooks.OpenCreate() }
func (a EditWebhook) apply(p *Panel)        { p.Webhooks.Edit(a.ID) }
func (a SubmitWebhook) apply(p *Panel)      { p.Webhooks.Submit(a.Form) }
func (a CloseWebhookForm) apply(p *Panel)   { p.Webhooks.CloseForm() }
func (a DeleteWebhook) apply(p *Panel)      { p.Webhooks.Delete(a.ID) }
func (a TestWebhook) apply(p *Panel)        { p.Webhooks.Test(a.ID) }
