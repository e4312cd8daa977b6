// ABOUTME: Product catalog controller: paginated list, debounced search, status filter
// ABOUTME: Create/update through the product form, delete and bulk delete behind confirmation

package panel

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2389/catalog-panel/internal/api"
)

// DefaultSearchDebounce is the quiet period before a search reloads the list.
const DefaultSearchDebounce = 500 * time.Millisecond

// ProductController manages the product table and form.
type ProductController struct {
	loop     *Loop
	backend  Backend
	view     View
	toaster  *Toaster
	confirm  *Confirmation
	state    *State
	search   *Debouncer
	pageSize int
	logger   *slog.Logger

	page *api.ProductPage
}

// Current returns the most recently rendered page, or nil before the first load.
func (c *ProductController) Current() *api.ProductPage {
	return c.page
}

// Load fetches the page selected by the current state and renders it.
// Responses to superseded requests are discarded.
func (c *ProductController) Load() {
	seq := c.state.nextListSeq()
	q := c.state.Query(c.pageSize)

	Go(c.loop, func(ctx context.Context) (*api.ProductPage, error) {
		return c.backend.ListProducts(ctx, q)
	}, func(page *api.ProductPage, err error) {
		if !c.state.latestList(seq) {
			c.logger.Debug("dropping stale product page", "seq", seq, "page", q.Page, "search", q.Search)
			return
		}
		if err != nil {
			c.logger.Warn("loading products failed", "error", err)
			c.toaster.Error("Error loading products: " + err.Error())
			return
		}

		c.page = page
		c.view.RenderProducts(page.Products)
		c.view.RenderPagination(PageWindow(page.Page, page.TotalPages))
	})
}

// Search schedules a reload with term once typing pauses.
func (c *ProductController) Search(term string) {
	c.search.Trigger(func() {
		c.state.SetSearch(term)
		c.Load()
	})
}

// FilterStatus applies a status filter and reloads from page 1.
func (c *ProductController) FilterStatus(status string) {
	if err := c.state.SetStatus(status); err != nil {
		c.toaster.Error(err.Error())
		return
	}
	c.Load()
}

// ChangePage moves to page n and reloads.
func (c *ProductController) ChangePage(n int) {
	if n < 1 {
		return
	}
	c.state.SetPage(n)
	c.Load()
}

// OpenCreate shows an empty product form.
func (c *ProductController) OpenCreate() {
	c.state.EditProduct(nil)
	c.view.ShowProductForm(ProductForm{
		Title:    "Add Product",
		IsActive: true,
	})
}

// Edit fetches product id and shows it in the form with the SKU locked.
func (c *ProductController) Edit(id int64) {
	Go(c.loop, func(ctx context.Context) (*api.Product, error) {
		return c.backend.GetProduct(ctx, id)
	}, func(p *api.Product, err error) {
		if err != nil {
			c.toaster.Error("Error loading product: " + err.Error())
			return
		}

		c.state.EditProduct(&p.ID)
		c.view.ShowProductForm(ProductForm{
			Title:       "Edit Product",
			SKU:         p.SKU,
			SKULocked:   true,
			Name:        p.Name,
			Description: p.Description,
			Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
			Quantity:    strconv.Itoa(p.Quantity),
			IsActive:    p.IsActive,
		})
	})
}

// CloseForm hides the product form. The editing id is left as is.
func (c *ProductController) CloseForm() {
	c.view.HideProductForm()
}

// Submit creates the product when no edit is in progress, otherwise updates
// the product being edited.
func (c *ProductController) Submit(form ProductForm) {
	in, err := form.input()
	if err != nil {
		c.toaster.Error(err.Error())
		return
	}

	var editing *int64
	if c.state.EditingProductID != nil {
		id := *c.state.EditingProductID
		editing = &id
	}

	Go(c.loop, func(ctx context.Context) (*api.Product, error) {
		if editing == nil {
			return c.backend.CreateProduct(ctx, in)
		}
		return c.backend.UpdateProduct(ctx, *editing, in)
	}, func(_ *api.Product, err error) {
		if err != nil {
			c.logger.Warn("saving product failed", "error", err)
			c.toaster.Error(failureText(err, "Error saving product", true))
			return
		}

		if editing == nil {
			c.toaster.Success("Product created!")
		} else {
			c.toaster.Success("Product updated!")
		}
		c.view.HideProductForm()
		c.Load()
	})
}

// Delete asks for confirmation, then deletes product id.
func (c *ProductController) Delete(id int64) {
	c.confirm.Open("Are you sure you want to delete this product?", func() {
		c.logger.Info("deleting product", "id", id)
		Go(c.loop, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.backend.DeleteProduct(ctx, id)
		}, func(_ struct{}, err error) {
			if err != nil {
				c.toaster.Error(failureText(err, "Error deleting product", false))
				return
			}
			c.toaster.Success("Product deleted!")
			c.Load()
		})
	})
}

// BulkDelete asks for confirmation, then deletes every product.
func (c *ProductController) BulkDelete() {
	c.confirm.Open("⚠️ Are you sure you want to delete ALL products? This action cannot be undone!", func() {
		c.logger.Info("deleting all products")
		Go(c.loop, func(ctx context.Context) (*api.MessageResult, error) {
			return c.backend.DeleteAllProducts(ctx)
		}, func(res *api.MessageResult, err error) {
			if err != nil {
				c.toaster.Error(failureText(err, "Error deleting products", false))
				return
			}
			c.toaster.Success(res.Message)
			c.Load()
		})
	})
}

// input parses the form's text fields into a request payload.
func (f ProductForm) input() (api.ProductInput, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return api.ProductInput{}, fmt.Errorf("Price must be a number")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil {
		return api.ProductInput{}, fmt.Errorf("Quantity must be a whole number")
	}

	return api.ProductInput{
		SKU:         strings.TrimSpace(f.SKU),
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Quantity:    quantity,
		IsActive:    f.IsActive,
	}, nil
}

// failureText picks the toast text for a failed request. Backend errors show
// their detail when useDetail is set and the fallback otherwise; transport
// errors show the error text.
func failureText(err error, fallback string, useDetail bool) string {
	if api.IsAPIError(err) {
		if useDetail {
			return api.DetailOr(err, fallback)
		}
		return fallback
	}
	return "Error: " + err.Error()
}
