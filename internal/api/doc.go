// Package api is the HTTP client for the catalog backend.
//
// # Overview
//
// The backend exposes a REST surface for products and webhooks plus a
// server-sent events stream for CSV import progress, all under /api:
//
//   - POST   /api/upload                 multipart CSV upload, returns a task id
//   - GET    /api/progress/{task_id}     text/event-stream of ProgressEvent frames
//   - GET    /api/products               paginated, searchable, filterable list
//   - GET    /api/products/{id}          single product
//   - POST   /api/products               create
//   - PUT    /api/products/{id}          update
//   - DELETE /api/products/{id}          delete one
//   - DELETE /api/products               delete all
//   - GET    /api/webhooks               list
//   - POST   /api/webhooks               create
//   - PUT    /api/webhooks/{id}          update
//   - DELETE /api/webhooks/{id}          delete
//   - POST   /api/webhooks/{id}/test     fire a test payload
//
// # Errors
//
// Non-2xx responses are returned as *APIError carrying the status code and the
// backend's "detail" message. Anything else (dial failures, broken streams,
// undecodable bodies) is a transport error wrapped with %w:
//
//	var apiErr *api.APIError
//	if errors.As(err, &apiErr) {
//	    fmt.Println(apiErr.Detail)
//	}
//
// Nothing is retried.
//
// # Usage
//
//	c := api.New("http://localhost:8000", api.WithToken(token))
//	page, err := c.ListProducts(ctx, api.ProductQuery{Page: 1, PerPage: 50})
package api
