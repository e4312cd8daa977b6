// ABOUTME: Product endpoints: paginated listing, single fetch, create, update, delete
// ABOUTME: Query strings are URL-encoded; status filter is passed through as is_active

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultPageSize is the page size the admin panel requests.
const DefaultPageSize = 50

// Encode renders the query string for GET /api/products.
func (q ProductQuery) Encode() string {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = DefaultPageSize
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("is_active", q.Status)
	}
	return v.Encode()
}

// ListProducts fetches one page of products.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var page ProductPage
	if err := c.doJSON(ctx, http.MethodGet, "/products?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	if page.Products == nil {
		page.Products = []Product{}
	}
	return &page, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct creates a product and returns it as stored.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var p Product
	if err := c.doJSON(ctx, http.MethodPost, "/products", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct replaces the mutable fields of product id.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	var p Product
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct deletes product id.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// DeleteAllProducts deletes every product and returns the backend's summary.
func (c *Client) DeleteAllProducts(ctx context.Context) (*MessageResult, error) {
	var res MessageResult
	if err := c.doJSON(ctx, http.MethodDelete, "/products", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
