// ABOUTME: Webhook endpoints: list, create, update, delete, and test-fire
// ABOUTME: There is no single-webhook GET; callers find by id in the list

package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListWebhooks fetches every registered webhook.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var list WebhookList
	if err := c.doJSON(ctx, http.MethodGet, "/webhooks", nil, &list); err != nil {
		return nil, err
	}
	if list.Webhooks == nil {
		list.Webhooks = []Webhook{}
	}
	return list.Webhooks, nil
}

// FindWebhook loads the list and returns the webhook with the given id, or
// nil if it is not registered.
func (c *Client) FindWebhook(ctx context.Context, id int64) (*Webhook, error) {
	hooks, err := c.ListWebhooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range hooks {
		if hooks[i].ID == id {
			return &hooks[i], nil
		}
	}
	return nil, nil
}

// CreateWebhook registers a webhook.
func (c *Client) CreateWebhook(ctx context.Context, in WebhookInput) (*Webhook, error) {
	var w Webhook
	if err := c.doJSON(ctx, http.MethodPost, "/webhooks", in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWebhook replaces webhook id.
func (c *Client) UpdateWebhook(ctx context.Context, id int64, in WebhookInput) (*Webhook, error) {
	var w Webhook
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/webhooks/%d", id), in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWebhook removes webhook id.
func (c *Client) DeleteWebhook(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/webhooks/%d", id), nil, nil)
}

// TestWebhook asks the backend to fire a test payload at webhook id.
func (c *Client) TestWebhook(ctx context.Context, id int64) (*WebhookTestResult, error) {
	var res WebhookTestResult
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/webhooks/%d/test", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
