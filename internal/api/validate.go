// ABOUTME: Field validators shared by the client forms and the development backend
// ABOUTME: SKU charset, non-negative price/quantity, webhook URL shape, event types

package api

import (
	"fmt"
	"regexp"
	"strings"
)

// Webhook event types accepted by the backend.
const (
	EventProductCreated     = "product.created"
	EventProductUpdated     = "product.updated"
	EventProductDeleted     = "product.deleted"
	EventProductBulkDeleted = "product.bulk_deleted"
)

// EventTypes lists every valid webhook event type in display order.
var EventTypes = []string{
	EventProductCreated,
	EventProductUpdated,
	EventProductDeleted,
	EventProductBulkDeleted,
}

// MaxSKULength is the longest SKU the backend stores.
const MaxSKULength = 100

var (
	skuPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	urlPattern = regexp.MustCompile(`(?i)^https?://` +
		`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
		`localhost|` +
		`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+)$`)
)

// ValidSKU reports whether sku is 1-100 characters of letters, digits, '-' or '_'.
func ValidSKU(sku string) bool {
	if sku == "" || len(sku) > MaxSKULength {
		return false
	}
	return skuPattern.MatchString(sku)
}

// ValidWebhookURL reports whether raw looks like an http(s) URL with a host.
func ValidWebhookURL(raw string) bool {
	return raw != "" && urlPattern.MatchString(raw)
}

// ValidEventType reports whether eventType is one of EventTypes.
func ValidEventType(eventType string) bool {
	for _, e := range EventTypes {
		if e == eventType {
			return true
		}
	}
	return false
}

// ErrInvalidEventType builds the backend's message for an unknown event type.
func ErrInvalidEventType() error {
	return fmt.Errorf("Invalid event type. Must be one of: %s", strings.Join(EventTypes, ", "))
}

// Validate checks a product payload. It returns the first problem found.
func (in ProductInput) Validate() error {
	if !ValidSKU(in.SKU) {
		return fmt.Errorf("Invalid SKU")
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("Name is required")
	}
	if in.Price < 0 {
		return fmt.Errorf("Price must be non-negative")
	}
	if in.Quantity < 0 {
		return fmt.Errorf("Quantity must be non-negative")
	}
	return nil
}

// Validate checks a webhook payload. It returns the first problem found.
func (in WebhookInput) Validate() error {
	if !ValidWebhookURL(in.URL) {
		return fmt.Errorf("Invalid webhook URL")
	}
	if !ValidEventType(in.EventType) {
		return ErrInvalidEventType()
	}
	return nil
}
