// ABOUTME: Server-Sent Events handler streaming import progress for one task
// ABOUTME: Polls the progress store, emits waiting frames for unknown tasks, stops on terminal status

package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2389/catalog-panel/internal/api"
)

// handleProgress handles GET /api/progress/{task_id}.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")

	// Check streaming support before sending (fail fast)
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("streaming not supported")
		sendJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(s.opts.ProgressInterval)
	defer ticker.Stop()

	for {
		event, found := s.progress.Get(taskID)
		if !found {
			event = api.ProgressEvent{Status: api.StatusWaiting}
		}
		if err := writeSSEData(w, event); err != nil {
			s.logger.Debug("progress stream closed", "task_id", taskID, "error", err)
			return
		}
		flusher.Flush()

		if found && event.Terminal() {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// writeSSEData writes v as a single unnamed SSE data frame.
func writeSSEData(w http.ResponseWriter, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
