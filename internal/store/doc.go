// Package store provides persistent storage for the development catalog backend
// using SQLite.
//
// # Architecture
//
// Store is the interface the HTTP layer depends on. SQLiteStore implements it on
// modernc.org/sqlite, so no cgo toolchain is needed. The schema is created on
// open; the path ":memory:" gives a throwaway database for tests and demos.
//
// # Data Models
//
//   - Product: catalog entry keyed by a SKU that is unique ignoring case
//   - Webhook: outbound notification target for one product event type
//
// Listing is newest first. Product search matches SKU, name and description
// case-insensitively.
//
// # CSV Imports
//
// UpsertProducts applies one batch of imported rows in a single transaction,
// updating rows whose SKU already exists and inserting the rest.
//
// # Errors
//
//   - ErrNotFound: the requested row does not exist
//   - ErrDuplicateSKU: a product with the same SKU (ignoring case) exists
package store
