// ABOUTME: Tests for shared product and webhook validators
// ABOUTME: Covers SKU charset, webhook URL shape, event types, and form payload checks

package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSKU(t *testing.T) {
	assert.True(t, ValidSKU("ABC-123_x"))
	assert.False(t, ValidSKU(""))
	assert.False(t, ValidSKU("has space"))
	assert.False(t, ValidSKU("semi;colon"))
	assert.False(t, ValidSKU(strings.Repeat("a", MaxSKULength+1)))
	assert.True(t, ValidSKU(strings.Repeat("a", MaxSKULength)))
}

func TestValidWebhookURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/hook", true},
		{"http://localhost:9000/hook", true},
		{"http://127.0.0.1/x?y=1", true},
		{"ftp://example.com", false},
		{"example.com/hook", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidWebhookURL(tt.url))
		})
	}
}

func TestProductInput_Validate(t *testing.T) {
	ok := ProductInput{SKU: "A1", Name: "Apple", Price: 1.5, Quantity: 2}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Price = -1
	assert.EqualError(t, bad.Validate(), "Price must be non-negative")

	bad = ok
	bad.Name = "  "
	assert.EqualError(t, bad.Validate(), "Name is required")

	bad = ok
	bad.SKU = "bad sku"
	assert.EqualError(t, bad.Validate(), "Invalid SKU")
}

func TestWebhookInput_Validate(t *testing.T) {
	ok := WebhookInput{URL: "https://example.com/h", EventType: EventProductCreated}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.EventType = "order.created"
	assert.EqualError(t, bad.Validate(),
		"Invalid event type. Must be one of: product.created, product.updated, product.deleted, product.bulk_deleted")

	bad = ok
	bad.URL = "not a url"
	assert.EqualError(t, bad.Validate(), "Invalid webhook URL")
}
