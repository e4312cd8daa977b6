// ABOUTME: Store interface and data types for catalog backend persistence
// ABOUTME: Defines Product, Webhook, filters, partial updates, and sentinel errors

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateSKU is returned when a product with the same SKU already exists
var ErrDuplicateSKU = errors.New("product with this SKU already exists")

// Product is a catalog entry.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	Price       float64
	Quantity    int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFilter selects products for ListProducts. A zero Limit means no limit.
type ProductFilter struct {
	Search string
	Active *bool
	Limit  int
	Offset int
}

// ProductUpdate carries the fields to change; nil fields are left alone.
// The SKU cannot be changed.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
	IsActive    *bool
}

// Webhook is a registered notification target.
type Webhook struct {
	ID              int64
	URL             string
	EventType       string
	IsEnabled       bool
	LastTriggeredAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WebhookUpdate carries the fields to change; nil fields are left alone.
type WebhookUpdate struct {
	URL       *string
	EventType *string
	IsEnabled *bool
}

// UpsertResult counts the outcome of an UpsertProducts batch.
type UpsertResult struct {
	Created int
	Updated int
}

// Store defines the persistence operations of the catalog backend.
type Store interface {
	// Products
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, int, error)
	UpdateProduct(ctx context.Context, id int64, update ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) (*Product, error)
	DeleteAllProducts(ctx context.Context) (int, error)
	UpsertProducts(ctx context.Context, products []*Product) (UpsertResult, error)

	// Webhooks
	CreateWebhook(ctx context.Context, w *Webhook) error
	GetWebhook(ctx context.Context, id int64) (*Webhook, error)
	ListWebhooks(ctx context.Context) ([]*Webhook, error)
	ListEnabledWebhooks(ctx context.Context, eventType string) ([]*Webhook, error)
	UpdateWebhook(ctx context.Context, id int64, update WebhookUpdate) (*Webhook, error)
	DeleteWebhook(ctx context.Context, id int64) error
	TouchWebhook(ctx context.Context, id int64, at time.Time) error

	Close() error
}
