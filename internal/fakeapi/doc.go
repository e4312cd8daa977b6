// Package fakeapi implements a development catalog backend that serves the
// same /api surface the admin panel consumes.
//
// Products and webhooks persist through a store.Store. CSV uploads are parsed
// up front and imported by a background job that reports progress into a
// ProgressStore; GET /api/progress/{task_id} streams those frames as
// Server-Sent Events until the job completes or fails. Product changes are
// delivered to enabled webhooks by a Notifier.
//
// When Options.Verifier is set every route requires a bearer token.
package fakeapi
