// ABOUTME: Product handlers for the development backend
// ABOUTME: Paginated search listing, CRUD with SKU uniqueness, bulk delete, and change notifications

package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/store"
)

// MaxPerPage is the largest page size the listing accepts.
const MaxPerPage = 100

func toAPIProduct(p *store.Product) api.Product {
	return api.Product{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		IsActive:    p.IsActive,
		CreatedAt:   &api.Timestamp{Time: p.CreatedAt},
		UpdatedAt:   &api.Timestamp{Time: p.UpdatedAt},
	}
}

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// handleListProducts handles GET /api/products.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err == nil && page < 1 {
		err = errors.New("page must be at least 1")
	}
	if err != nil {
		sendJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	perPage, err := queryInt(r, "per_page", api.DefaultPageSize)
	if err == nil && (perPage < 1 || perPage > MaxPerPage) {
		err = fmt.Errorf("per_page must be between 1 and %d", MaxPerPage)
	}
	if err != nil {
		sendJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	filter := store.ProductFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			sendJSONError(w, http.StatusUnprocessableEntity, "is_active must be true or false")
			return
		}
		filter.Active = &active
	}

	products, total, err := s.store.ListProducts(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := api.ProductPage{
		Products:   make([]api.Product, 0, len(products)),
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}
	for _, p := range products {
		resp.Products = append(resp.Products, toAPIProduct(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetProduct handles GET /api/products/{id}.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendJSONError(w, http.StatusNotFound, "Product not found")
		return
	}

	p, err := s.store.GetProduct(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		sendJSONError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get product", "id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toAPIProduct(p))
}

// handleCreateProduct handles POST /api/products.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	in := api.ProductInput{IsActive: true}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		sendJSONError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	in.SKU = strings.TrimSpace(in.SKU)
	if err := in.Validate(); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &store.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		IsActive:    in.IsActive,
	}
	err := s.store.CreateProduct(r.Context(), p)
	if errors.Is(err, store.ErrDuplicateSKU) {
		sendJSONError(w, http.StatusBadRequest, "Product with this SKU already exists")
		return
	}
	if err != nil {
		s.logger.Error("failed to create product", "sku", in.SKU, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := toAPIProduct(p)
	s.notifier.Notify(api.EventProductCreated, out)
	writeJSON(w, http.StatusOK, out)
}

// productUpdateRequest is the PUT body; absent fields are left unchanged and
// any SKU sent is ignored.
type productUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	IsActive    *bool    `json:"is_active"`
}

func (req productUpdateRequest) validate() error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return errors.New("Name is required")
	}
	if req.Price != nil && *req.Price < 0 {
		return errors.New("Price must be non-negative")
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return errors.New("Quantity must be non-negative")
	}
	return nil
}

// handleUpdateProduct handles PUT /api/products/{id}.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendJSONError(w, http.StatusNotFound, "Product not found")
		return
	}

	var req productUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.store.UpdateProduct(r.Context(), id, store.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		IsActive:    req.IsActive,
	})
	if errors.Is(err, store.ErrNotFound) {
		sendJSONError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to update product", "id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := toAPIProduct(p)
	s.notifier.Notify(api.EventProductUpdated, out)
	writeJSON(w, http.StatusOK, out)
}

// handleDeleteProduct handles DELETE /api/products/{id}.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendJSONError(w, http.StatusNotFound, "Product not found")
		return
	}

	p, err := s.store.DeleteProduct(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		sendJSONError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to delete product", "id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.notifier.Notify(api.EventProductDeleted, toAPIProduct(p))
	writeJSON(w, http.StatusOK, api.MessageResult{Message: "Product deleted successfully"})
}

// handleDeleteAllProducts handles DELETE /api/products.
func (s *Server) handleDeleteAllProducts(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.DeleteAllProducts(r.Context())
	if err != nil {
		s.logger.Error("failed to delete products", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.notifier.Notify(api.EventProductBulkDeleted, map[string]int{"count": count})
	writeJSON(w, http.StatusOK, api.MessageResult{
		Message: fmt.Sprintf("Deleted %d products successfully", count),
		Count:   count,
	})
}
