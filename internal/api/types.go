// ABOUTME: Wire types for the catalog backend REST and SSE surface
// ABOUTME: Products, webhooks, upload results, and import progress frames

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Progress statuses with special meaning. Any other status is free text.
const (
	StatusComplete = "complete"
	StatusError    = "error"
	StatusWaiting  = "waiting"
)

// DefaultProgressStatus is shown when a progress frame carries no status.
const DefaultProgressStatus = "Processing..."

// Timestamp decodes the ISO-8601 timestamps the backend emits, with or without
// a zone offset. A JSON null leaves it zero.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Product is a catalog entry as returned by the backend.
type Product struct {
	ID          int64      `json:"id"`
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   *Timestamp `json:"created_at,omitempty"`
	UpdatedAt   *Timestamp `json:"updated_at,omitempty"`
}

// ProductInput is the create/update payload. The backend ignores SKU on update.
type ProductInput struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	IsActive    bool    `json:"is_active"`
}

// ProductQuery selects a page of products. Status is "", "true" or "false".
type ProductQuery struct {
	Page    int
	PerPage int
	Search  string
	Status  string
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
}

// Webhook is a registered outbound notification target.
type Webhook struct {
	ID              int64      `json:"id"`
	URL             string     `json:"url"`
	EventType       string     `json:"event_type"`
	IsEnabled       bool       `json:"is_enabled"`
	LastTriggeredAt *Timestamp `json:"last_triggered_at"`
	CreatedAt       *Timestamp `json:"created_at,omitempty"`
	UpdatedAt       *Timestamp `json:"updated_at,omitempty"`
}

// WebhookInput is the create/update payload for a webhook.
type WebhookInput struct {
	URL       string `json:"url"`
	EventType string `json:"event_type"`
	IsEnabled bool   `json:"is_enabled"`
}

// WebhookList is the response of GET /api/webhooks.
type WebhookList struct {
	Webhooks []Webhook `json:"webhooks"`
}

// WebhookTestResult is the response of POST /api/webhooks/{id}/test.
type WebhookTestResult struct {
	Message      string  `json:"message"`
	StatusCode   int     `json:"status_code"`
	ResponseTime float64 `json:"response_time"`
}

// UploadResult is the response of POST /api/upload.
type UploadResult struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// MessageResult is the generic {"message": ...} response of deletes.
type MessageResult struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// ProgressEvent is one frame of the import progress stream.
type ProgressEvent struct {
	Progress   int     `json:"progress,omitempty"`
	Total      int     `json:"total,omitempty"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status,omitempty"`
	Message    string  `json:"message,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// StatusText returns the status, or DefaultProgressStatus when none was sent.
func (e ProgressEvent) StatusText() string {
	if e.Status == "" {
		return DefaultProgressStatus
	}
	return e.Status
}

// Terminal reports whether the frame ends the job.
func (e ProgressEvent) Terminal() bool {
	return e.Status == StatusComplete || e.Status == StatusError
}
