// ABOUTME: Outbound webhook delivery for product change events and test pings
// ABOUTME: Posts {event, data, timestamp} to enabled webhooks and stamps last_triggered_at

package fakeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/2389/catalog-panel/internal/store"
)

// webhookPayload is the body every webhook receives.
type webhookPayload struct {
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Delivery is the outcome of one webhook request.
type Delivery struct {
	StatusCode int
	Elapsed    time.Duration
}

// Notifier delivers events to webhooks. Notify is fire-and-forget; Wait
// blocks until in-flight deliveries finish.
type Notifier struct {
	store  store.Store
	client *http.Client
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewNotifier creates a Notifier that sends with client.
func NewNotifier(st store.Store, client *http.Client, logger *slog.Logger) *Notifier {
	return &Notifier{
		store:  st,
		client: client,
		logger: logger.With("component", "notifier"),
	}
}

// Notify sends event to every enabled webhook subscribed to it, in the
// background. A failing webhook does not affect the others.
func (n *Notifier) Notify(event string, data any) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx := context.Background()
		hooks, err := n.store.ListEnabledWebhooks(ctx, event)
		if err != nil {
			n.logger.Error("failed to list webhooks", "event", event, "error", err)
			return
		}

		for _, hook := range hooks {
			d, err := n.Send(ctx, hook, event, data)
			if err != nil {
				n.logger.Warn("webhook delivery failed", "url", hook.URL, "event", event, "error", err)
				continue
			}
			n.logger.Info("webhook sent", "url", hook.URL, "event", event, "status", d.StatusCode)
		}
	}()
}

// Send posts one payload to hook and records the trigger time when the
// request completes, whatever its status code.
func (n *Notifier) Send(ctx context.Context, hook *store.Webhook, event string, data any) (Delivery, error) {
	body, err := json.Marshal(webhookPayload{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000000"),
	})
	if err != nil {
		return Delivery{}, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		return Delivery{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		return Delivery{}, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)

	if err := n.store.TouchWebhook(ctx, hook.ID, time.Now()); err != nil {
		n.logger.Warn("failed to record webhook trigger", "id", hook.ID, "error", err)
	}

	return Delivery{StatusCode: resp.StatusCode, Elapsed: elapsed}, nil
}

// Wait blocks until background deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
