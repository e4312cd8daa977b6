// ABOUTME: Minimal text/event-stream reader used by the progress stream
// ABOUTME: Accumulates data lines until a blank line, then yields one event

package api

import (
	"bufio"
	"io"
	"strings"
)

// maxEventSize bounds a single SSE line.
const maxEventSize = 1024 * 1024

// sseEvent is a parsed Server-Sent Event.
type sseEvent struct {
	Event string
	ID    string
	Data  string
}

// sseReader yields events from a text/event-stream body.
type sseReader struct {
	scanner *bufio.Scanner
}

func newSSEReader(r io.Reader) *sseReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxEventSize)
	return &sseReader{scanner: scanner}
}

// Next returns the next event. It returns io.EOF when the stream ends cleanly,
// including when it ends in the middle of an undelivered event.
func (r *sseReader) Next() (sseEvent, error) {
	var ev sseEvent
	var dataLines []string

	for r.scanner.Scan() {
		line := r.scanner.Text()

		// Empty line signals end of event
		if line == "" {
			if len(dataLines) == 0 {
				ev = sseEvent{}
				continue
			}
			if ev.Event == "" {
				ev.Event = "message"
			}
			ev.Data = strings.Join(dataLines, "\n")
			return ev, nil
		}

		// Comment / keepalive
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			ev.Event = value
		case "data":
			dataLines = append(dataLines, value)
		case "id":
			ev.ID = value
		}
	}

	if err := r.scanner.Err(); err != nil {
		return sseEvent{}, err
	}
	return sseEvent{}, io.EOF
}
