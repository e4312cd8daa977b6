// ABOUTME: Progress tracker: follows one import task's SSE stream and drives the progress bar
// ABOUTME: Closes on complete/error, hides the bar after a delay; never reconnects

package panel

import (
	"log/slog"
	"time"

	"github.com/2389/catalog-panel/internal/api"
)

// DefaultTerminalDelay is how long the finished progress bar stays visible.
const DefaultTerminalDelay = 2 * time.Second

// ProgressTracker renders import progress. Concurrent uploads each get their
// own stream and share the one progress bar.
type ProgressTracker struct {
	loop       *Loop
	backend    Backend
	view       View
	toaster    *Toaster
	delay      time.Duration
	onComplete func()
	logger     *slog.Logger

	active int
}

// Active returns the number of open progress streams.
func (p *ProgressTracker) Active() int {
	return p.active
}

// Track shows the progress UI and follows taskID until it ends.
func (p *ProgressTracker) Track(taskID string) {
	p.active++
	p.view.ShowProgress()
	go p.follow(taskID)
}

// follow reads the stream off-loop and posts every frame back.
func (p *ProgressTracker) follow(taskID string) {
	ctx := p.loop.Context()
	logger := p.logger.With("task_id", taskID)

	stream, err := p.backend.OpenProgress(ctx, taskID)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("opening progress stream failed", "error", err)
			p.loop.Post(p.connectionLost)
		}
		return
	}
	defer stream.Close()

	for {
		ev, err := stream.Recv()
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("progress stream failed", "error", err)
				p.loop.Post(p.connectionLost)
			}
			return
		}

		logger.Debug("progress", "percentage", ev.Percentage, "status", ev.Status)
		p.loop.Post(func() { p.handle(ev) })
		if ev.Terminal() {
			return
		}
	}
}

func (p *ProgressTracker) handle(ev api.ProgressEvent) {
	p.view.UpdateProgress(ev.Percentage, ev.StatusText())

	switch ev.Status {
	case api.StatusComplete:
		p.active--
		msg := ev.Message
		if msg == "" {
			msg = "Import completed successfully!"
		}
		p.toaster.Success(msg)
		p.loop.After(p.delay, func() {
			p.view.HideProgress()
			if p.onComplete != nil {
				p.onComplete()
			}
		})
	case api.StatusError:
		p.active--
		msg := ev.Error
		if msg == "" {
			msg = "Import failed"
		}
		p.toaster.Error(msg)
		p.loop.After(p.delay, p.view.HideProgress)
	}
}

func (p *ProgressTracker) connectionLost() {
	p.active--
	p.toaster.Error("Connection error. Please refresh the page.")
}
