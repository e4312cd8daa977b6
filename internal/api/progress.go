// ABOUTME: Import progress stream over SSE (GET /api/progress/{task_id})
// ABOUTME: Recv-style reader; the caller closes it on a terminal frame

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

// ErrStreamClosed is returned by Recv when the server ends the stream.
var ErrStreamClosed = errors.New("progress stream closed")

// ProgressStream is an open progress subscription for one import task.
type ProgressStream struct {
	TaskID string

	body      io.ReadCloser
	reader    *sseReader
	logger    *slog.Logger
	closeOnce sync.Once
}

// OpenProgress opens the progress stream for taskID.
func (c *Client) OpenProgress(ctx context.Context, taskID string) (*ProgressStream, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/progress/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opening progress stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	c.logger.Debug("progress stream opened", "task_id", taskID)
	return &ProgressStream{
		TaskID: taskID,
		body:   resp.Body,
		reader: newSSEReader(resp.Body),
		logger: c.logger.With("task_id", taskID),
	}, nil
}

// Recv blocks until the next progress frame. Frames with an event name other
// than "message" or "progress" are skipped, as are frames whose data is not a
// progress object. Only transport failures end the stream.
func (s *ProgressStream) Recv() (ProgressEvent, error) {
	for {
		ev, err := s.reader.Next()
		if errors.Is(err, io.EOF) {
			return ProgressEvent{}, ErrStreamClosed
		}
		if err != nil {
			return ProgressEvent{}, fmt.Errorf("reading progress stream: %w", err)
		}
		if ev.Event != "message" && ev.Event != "progress" {
			continue
		}

		var pe ProgressEvent
		if err := json.Unmarshal([]byte(ev.Data), &pe); err != nil {
			s.logger.Warn("skipping unparsable progress frame", "error", err, "data", ev.Data)
			continue
		}
		return pe, nil
	}
}

// Close releases the connection. It is safe to call more than once.
func (s *ProgressStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.body.Close()
	})
	return err
}
