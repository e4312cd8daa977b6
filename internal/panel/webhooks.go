// ABOUTME: Webhook controller: list, create/update via form, delete, and test-fire
// ABOUTME: Delete asks the blocking Prompter rather than the confirmation dialog

package panel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/catalog-panel/internal/api"
)

// WebhookController manages the webhook table and form.
type WebhookController struct {
	loop     *Loop
	backend  Backend
	view     View
	toaster  *Toaster
	prompter Prompter
	state    *State
	logger   *slog.Logger

	hooks []api.Webhook
}

// Current returns the most recently rendered webhooks.
func (c *WebhookController) Current() []api.Webhook {
	return c.hooks
}

// Load fetches and renders every webhook.
func (c *WebhookController) Load() {
	Go(c.loop, func(ctx context.Context) ([]api.Webhook, error) {
		return c.backend.ListWebhooks(ctx)
	}, func(hooks []api.Webhook, err error) {
		if err != nil {
			c.logger.Warn("loading webhooks failed", "error", err)
			c.toaster.Error("Error loading webhooks: " + err.Error())
			return
		}
		c.hooks = hooks
		c.view.RenderWebhooks(hooks)
	})
}

// OpenCreate shows an empty webhook form.
func (c *WebhookController) OpenCreate() {
	c.state.EditWebhook(nil)
	c.view.ShowWebhookForm(WebhookForm{
		Title:     "Add Webhook",
		EventType: api.EventProductCreated,
		IsEnabled: true,
	})
}

// Edit loads the webhook list, finds id, and shows it in the form. An unknown
// id does nothing.
func (c *WebhookController) Edit(id int64) {
	Go(c.loop, func(ctx context.Context) (*api.Webhook, error) {
		return c.backend.FindWebhook(ctx, id)
	}, func(w *api.Webhook, err error) {
		if err != nil {
			c.toaster.Error("Error loading webhook: " + err.Error())
			return
		}
		if w == nil {
			c.logger.Debug("webhook not found for edit", "id", id)
			return
		}

		c.state.EditWebhook(&w.ID)
		c.view.ShowWebhookForm(WebhookForm{
			Title:     "Edit Webhook",
			URL:       w.URL,
			EventType: w.EventType,
			IsEnabled: w.IsEnabled,
		})
	})
}

// CloseForm hides the webhook form.
func (c *WebhookController) CloseForm() {
	c.view.HideWebhookForm()
}

// Submit creates or updates depending on the editing id.
func (c *WebhookController) Submit(form WebhookForm) {
	in := api.WebhookInput{
		URL:       strings.TrimSpace(form.URL),
		EventType: form.EventType,
		IsEnabled: form.IsEnabled,
	}

	var editing *int64
	if c.state.EditingWebhookID != nil {
		id := *c.state.EditingWebhookID
		editing = &id
	}

	Go(c.loop, func(ctx context.Context) (*api.Webhook, error) {
		if editing == nil {
			return c.backend.CreateWebhook(ctx, in)
		}
		return c.backend.UpdateWebhook(ctx, *editing, in)
	}, func(_ *api.Webhook, err error) {
		if err != nil {
			c.logger.Warn("saving webhook failed", "error", err)
			c.toaster.Error(failureText(err, "Error saving webhook", true))
			return
		}

		if editing == nil {
			c.toaster.Success("Webhook created!")
		} else {
			c.toaster.Success("Webhook updated!")
		}
		c.view.HideWebhookForm()
		c.Load()
	})
}

// Delete asks the prompter and, if accepted, deletes webhook id. The loop is
// blocked while the question is open.
func (c *WebhookController) Delete(id int64) {
	if !c.prompter.Confirm("Are you sure you want to delete this webhook?") {
		return
	}

	c.logger.Info("deleting webhook", "id", id)
	Go(c.loop, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.backend.DeleteWebhook(ctx, id)
	}, func(_ struct{}, err error) {
		if err != nil {
			c.toaster.Error(failureText(err, "Error deleting webhook", false))
			return
		}
		c.toaster.Success("Webhook deleted!")
		c.Load()
	})
}

// Test asks the backend to fire a test payload at webhook id.
func (c *WebhookController) Test(id int64) {
	Go(c.loop, func(ctx context.Context) (*api.WebhookTestResult, error) {
		return c.backend.TestWebhook(ctx, id)
	}, func(res *api.WebhookTestResult, err error) {
		if err != nil {
			c.toaster.Error(failureText(err, "Webhook test failed", true))
			return
		}
		c.toaster.Success(fmt.Sprintf("Webhook test successful! Status: %d", res.StatusCode))
	})
}
