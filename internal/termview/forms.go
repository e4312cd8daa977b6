// ABOUTME: Field setters for editing product and webhook forms from typed commands
// ABOUTME: Locked SKUs and unknown event types are refused with an explanatory error

package termview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/panel"
)

// SetProductField assigns value to the named field of form.
func SetProductField(form *panel.ProductForm, field, value string) error {
	switch strings.ToLower(field) {
	case "sku":
		if form.SKULocked {
			return fmt.Errorf("sku cannot be changed once created")
		}
		if !api.ValidSKU(value) {
			return fmt.Errorf("sku may only contain letters, digits, '-' and '_'")
		}
		form.SKU = value
	case "name":
		form.Name = value
	case "description", "desc":
		form.Description = value
	case "price":
		form.Price = value
	case "quantity", "qty":
		form.Quantity = value
	case "active":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		form.IsActive = b
	default:
		return fmt.Errorf("unknown field %q (sku, name, description, price, quantity, active)", field)
	}
	return nil
}

// SetWebhookField assigns value to the named field of form.
func SetWebhookField(form *panel.WebhookForm, field, value string) error {
	switch strings.ToLower(field) {
	case "url":
		form.URL = value
	case "event", "event_type":
		if !api.ValidEventType(value) {
			return api.ErrInvalidEventType()
		}
		form.EventType = value
	case "enabled":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		form.IsEnabled = b
	default:
		return fmt.Errorf("unknown field %q (url, event, enabled)", field)
	}
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "on":
		return true, nil
	case "n", "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("expected yes or no, got %q", value)
	}
	return b, nil
}
