// ABOUTME: Blocking yes/no prompter fed by the TUI's input loop
// ABOUTME: While a question is open the next input line is its answer

package termview

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
)

// Prompter implements panel.Prompter on a terminal. Confirm blocks the caller
// until Answer delivers a line or ctx ends.
type Prompter struct {
	ctx     context.Context
	out     io.Writer
	answers chan string
	asked   chan struct{}
	asking  atomic.Bool
}

// NewPrompter creates a prompter writing questions to out.
func NewPrompter(ctx context.Context, out io.Writer) *Prompter {
	return &Prompter{
		ctx:     ctx,
		out:     out,
		answers: make(chan string, 1),
		asked:   make(chan struct{}, 1),
	}
}

// Confirm prints message and waits for an answer. Only "y" and "yes" accept.
func (p *Prompter) Confirm(message string) bool {
	select {
	case <-p.answers:
	default:
	}
	p.asking.Store(true)
	defer p.asking.Store(false)

	yellow.Fprintf(p.out, "  ? %s [y/N] ", message)

	select {
	case p.asked <- struct{}{}:
	default:
	}

	select {
	case ans := <-p.answers:
		return IsYes(ans)
	case <-p.ctx.Done():
		return false
	}
}

// Asked signals each time Confirm starts waiting. Drain it with Forget before
// triggering a question so an old signal is not mistaken for the new one.
func (p *Prompter) Asked() <-chan struct{} {
	return p.asked
}

// Forget drops a pending Asked signal.
func (p *Prompter) Forget() {
	select {
	case <-p.asked:
	default:
	}
}

// Asking reports whether Confirm is waiting for an answer.
func (p *Prompter) Asking() bool {
	return p.asking.Load()
}

// Answer delivers line to a waiting Confirm. It reports false when nothing is
// waiting.
func (p *Prompter) Answer(line string) bool {
	// Claim the question so a line after the answer is not taken as well.
	if !p.asking.CompareAndSwap(true, false) {
		return false
	}
	select {
	case p.answers <- line:
		return true
	default:
		return false
	}
}

// IsYes reports whether line is an affirmative answer.
func IsYes(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
