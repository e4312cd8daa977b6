// ABOUTME: Yes/no confirmation dialog state machine used before destructive actions
// ABOUTME: Closed or open with one pending callback; later opens overwrite earlier ones

package panel

// Confirmation holds at most one pending action awaiting the user's answer.
// It is owned by the loop goroutine.
type Confirmation struct {
	view    View
	message string
	pending func()
	gen     uint64
}

// NewConfirmation creates a closed dialog rendering through view.
func NewConfirmation(view View) *Confirmation {
	return &Confirmation{view: view}
}

// Open shows message and stores fn, replacing any pending callback.
func (c *Confirmation) Open(message string, fn func()) {
	c.message = message
	c.pending = fn
	c.gen++
	c.view.ShowConfirm(message)
}

// IsOpen reports whether a callback is pending.
func (c *Confirmation) IsOpen() bool {
	return c.pending != nil
}

// Message returns the text of the open dialog, or "" when closed.
func (c *Confirmation) Message() string {
	return c.message
}

// Confirm runs the pending callback, then closes. It is a no-op when closed.
// A dialog reopened by the callback stays open.
func (c *Confirmation) Confirm() {
	fn := c.pending
	if fn == nil {
		return
	}
	gen := c.gen
	fn()
	if c.gen == gen {
		c.Cancel()
	}
}

// Cancel closes the dialog without running the callback.
func (c *Confirmation) Cancel() {
	c.pending = nil
	c.message = ""
	c.view.HideConfirm()
}
