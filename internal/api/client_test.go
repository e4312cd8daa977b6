// ABOUTME: Tests for the catalog REST client against httptest servers
// ABOUTME: Covers query encoding, auth header, error decoding, uploads, and webhooks

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestProductQuery_Encode(t *testing.T) {
	tests := []struct {
		name  string
		query ProductQuery
		want  string
	}{
		{
			name:  "defaults",
			query: ProductQuery{},
			want:  "page=1&per_page=50",
		},
		{
			name:  "search is escaped",
			query: ProductQuery{Page: 2, PerPage: 50, Search: "red & blue"},
			want:  "page=2&per_page=50&search=red+%26+blue",
		},
		{
			name:  "status filter",
			query: ProductQuery{Page: 1, PerPage: 10, Status: "false"},
			want:  "is_active=false&page=1&per_page=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Encode())
		})
	}
}

func TestListProducts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, http.StatusOK, map[string]any{
			"products": []map[string]any{
				{"id": 1, "sku": "SKU-1", "name": "Widget", "description": nil, "price": 9.5, "quantity": 3, "is_active": true,
					"created_at": "2024-05-01T10:00:00.123456+00:00", "updated_at": "2024-05-01T10:00:00"},
			},
			"total":       1,
			"page":        1,
			"per_page":    50,
			"total_pages": 1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.ListProducts(context.Background(), ProductQuery{Page: 1, PerPage: 50, Search: "wid"})
	require.NoError(t, err)

	assert.Equal(t, "page=1&per_page=50&search=wid", gotQuery)
	require.Len(t, page.Products, 1)
	p := page.Products[0]
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "SKU-1", p.SKU)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, 9.5, p.Price)
	require.NotNil(t, p.CreatedAt)
	assert.Equal(t, 2024, p.CreatedAt.Year())
	require.NotNil(t, p.UpdatedAt)
	assert.Equal(t, 10, p.UpdatedAt.Hour())
	assert.Equal(t, 1, page.TotalPages)
}

func TestListProducts_EmptyListIsNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"products": nil, "page": 1, "total_pages": 0})
	}))
	defer srv.Close()

	page, err := New(srv.URL).ListProducts(context.Background(), ProductQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, http.StatusOK, map[string]any{"webhooks": []any{}})
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithToken("secret-token")).ListWebhooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestClient_APIErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{"detail": "Product with this SKU already exists"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateProduct(context.Background(), ProductInput{SKU: "A", Name: "A"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Product with this SKU already exists", apiErr.Detail)
	assert.Equal(t, "Product with this SKU already exists", DetailOr(err, "Error saving product"))
	assert.True(t, IsAPIError(err))
}

func TestClient_APIErrorStructuredDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "price"}, "msg": "field required"}},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateProduct(context.Background(), ProductInput{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Detail, "field required")
}

func TestClient_APIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteProduct(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, "unexpected status 500", err.Error())
	assert.Equal(t, "Error deleting product", DetailOr(err, "Error deleting product"))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).ListWebhooks(context.Background())
	require.Error(t, err)
	assert.False(t, IsAPIError(err))
	assert.Equal(t, "fallback", DetailOr(err, "fallback"))
}

func TestProductMutations(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				require.NoError(t, json.Unmarshal(data, &c.body))
			}
		}
		calls = append(calls, c)

		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/api/products":
			writeJSON(t, w, http.StatusOK, map[string]any{"message": "Deleted 3 products successfully", "count": 3})
		case r.Method == http.MethodDelete:
			writeJSON(t, w, http.StatusOK, map[string]any{"message": "Product deleted successfully"})
		default:
			writeJSON(t, w, http.StatusOK, map[string]any{"id": 7, "sku": "SKU-7", "name": "Seven", "price": 7.0})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	in := ProductInput{SKU: "SKU-7", Name: "Seven", Price: 7, Quantity: 2, IsActive: true}

	created, err := c.CreateProduct(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	_, err = c.UpdateProduct(ctx, 7, in)
	require.NoError(t, err)

	require.NoError(t, c.DeleteProduct(ctx, 7))

	res, err := c.DeleteAllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, "Deleted 3 products successfully", res.Message)

	require.Len(t, calls, 4)
	assert.Equal(t, call{method: http.MethodPost, path: "/api/products", body: calls[0].body}, calls[0])
	assert.Equal(t, "SKU-7", calls[0].body["sku"])
	assert.Equal(t, true, calls[0].body["is_active"])
	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, "/api/products/7", calls[1].path)
	assert.Equal(t, http.MethodDelete, calls[2].method)
	assert.Equal(t, "/api/products/7", calls[2].path)
	assert.Equal(t, "/api/products", calls[3].path)
}

func TestWebhooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/webhooks":
			writeJSON(t, w, http.StatusOK, map[string]any{"webhooks": []map[string]any{
				{"id": 2, "url": "https://a.example.com/hook", "event_type": "product.created", "is_enabled": true, "last_triggered_at": nil},
				{"id": 3, "url": "https://b.example.com/hook", "event_type": "product.deleted", "is_enabled": false, "last_triggered_at": "2024-06-01T08:30:00"},
			}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/webhooks/3/test":
			writeJSON(t, w, http.StatusOK, map[string]any{"message": "Webhook test successful", "status_code": 200, "response_time": 0.12})
		case r.Method == http.MethodPost && r.URL.Path == "/api/webhooks/9/test":
			writeJSON(t, w, http.StatusNotFound, map[string]any{"detail": "Webhook not found"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	hooks, err := c.ListWebhooks(ctx)
	require.NoError(t, err)
	require.Len(t, hooks, 2)
	assert.Nil(t, hooks[0].LastTriggeredAt)
	require.NotNil(t, hooks[1].LastTriggeredAt)
	assert.Equal(t, 8, hooks[1].LastTriggeredAt.Hour())

	found, err := c.FindWebhook(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "product.deleted", found.EventType)

	missing, err := c.FindWebhook(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	res, err := c.TestWebhook(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	_, err = c.TestWebhook(ctx, 9)
	assert.Equal(t, "Webhook not found", DetailOr(err, "Webhook test failed"))
}

func TestUploadFile(t *testing.T) {
	var gotName, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName = hdr.Filename
		gotContent = string(data)

		writeJSON(t, w, http.StatusAccepted, map[string]any{
			"message": "File uploaded successfully. Processing started.",
			"task_id": "abc123",
		})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("sku,name,price\nA,Apple,1.00\n"), 0644))

	res, err := New(srv.URL).UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.TaskID)
	assert.Equal(t, "products.csv", gotName)
	assert.Equal(t, "sku,name,price\nA,Apple,1.00\n", gotContent)
}

func TestUpload_RejectedByServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(t, w, http.StatusBadRequest, map[string]any{"detail": "Missing required headers: price"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Upload(context.Background(), "bad.csv", strings.NewReader("sku,name\n"))
	assert.Equal(t, "Missing required headers: price", DetailOr(err, "Upload failed"))
}

func TestIsCSVName(t *testing.T) {
	assert.True(t, IsCSVName("products.csv"))
	assert.False(t, IsCSVName("products.CSV"))
	assert.False(t, IsCSVName("products.xlsx"))
	assert.False(t, IsCSVName("csv"))
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
		zero    bool
	}{
		{in: `null`, zero: true},
		{in: `""`, zero: true},
		{in: `"2024-01-02T03:04:05Z"`},
		{in: `"2024-01-02T03:04:05.123456+00:00"`},
		{in: `"2024-01-02T03:04:05.123456"`},
		{in: `"yesterday"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.in), &ts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.zero, ts.IsZero())
		})
	}

	out, err := json.Marshal(Timestamp{Time: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02T03:04:05Z"`, string(out))
}
