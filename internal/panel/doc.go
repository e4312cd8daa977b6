// Package panel implements the catalog admin panel independent of any UI toolkit.
//
// # Overview
//
// Every controller runs on a single Loop goroutine. Network calls are started
// with Go, run on their own goroutines, and post their results back to the
// loop, so controller state is never shared between goroutines. Rendering goes
// through the View interface; internal/termview provides a terminal View.
//
// The controllers are:
//
//   - UploadController: refuses names without a ".csv" suffix, uploads the
//     file, and hands the returned task id to the ProgressTracker.
//   - ProgressTracker: follows the task's SSE stream, updates the progress
//     bar, and on "complete" reloads the product list after a short delay.
//   - ProductController: paginated list with debounced search and a status
//     filter, create/update through ProductForm, delete and bulk delete behind
//     the Confirmation dialog.
//   - WebhookController: list, create/update through WebhookForm, test-fire,
//     and delete behind the blocking Prompter.
//   - Confirmation: one pending callback, overwritten by later opens.
//   - Toaster: success and error toasts that fade and are removed.
//
// Product list responses carry a sequence number; a response to a request that
// has since been superseded is dropped instead of overwriting newer results.
//
// # Usage
//
//	loop := panel.NewLoop(ctx, logger)
//	p := panel.New(loop, api.New(baseURL), view, panel.Options{Logger: logger})
//	p.Start()
//	go loop.Run()
//
//	p.Dispatch(panel.SearchProducts{Term: "widget"})
//	p.Dispatch(panel.DeleteProduct{ID: 7})
//	p.Dispatch(panel.ConfirmDialog{})
package panel
