// ABOUTME: Rendering surface the controllers draw on, plus the blocking yes/no prompter
// ABOUTME: Form and toast value types passed between controllers and views

package panel

import "github.com/2389/catalog-panel/internal/api"

// Severity classifies a toast.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Toast is one transient notification.
type Toast struct {
	ID       string
	Severity Severity
	Message  string
}

// ProductForm is the product modal's content. Price and Quantity hold the raw
// text the user typed; they are parsed on submit.
type ProductForm struct {
	Title       string
	SKU         string
	SKULocked   bool
	Name        string
	Description string
	Price       string
	Quantity    string
	IsActive    bool
}

// WebhookForm is the webhook modal's content.
type WebhookForm struct {
	Title     string
	URL       string
	EventType string
	IsEnabled bool
}

// View renders panel state. Every method is called on the loop goroutine.
type View interface {
	RenderProducts(products []api.Product)
	RenderPagination(p Pagination)
	ShowProductForm(form ProductForm)
	HideProductForm()

	RenderWebhooks(hooks []api.Webhook)
	ShowWebhookForm(form WebhookForm)
	HideWebhookForm()

	ShowProgress()
	UpdateProgress(percentage float64, status string)
	HideProgress()

	ShowConfirm(message string)
	HideConfirm()

	ShowToast(t Toast)
	FadeToast(id string)
	RemoveToast(id string)
}

// Prompter asks a yes/no question and blocks until it is answered. It is the
// native confirm() used by webhook deletion, separate from Confirmation.
type Prompter interface {
	Confirm(message string) bool
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(message string) bool

// Confirm implements Prompter.
func (f PrompterFunc) Confirm(message string) bool {
	return f(message)
}
