// ABOUTME: Notification toaster: appends severity-tagged messages that fade then disappear
// ABOUTME: No stacking limit and no coalescing of duplicates

package panel

import (
	"time"

	"github.com/google/uuid"
)

// Default toast timings.
const (
	DefaultToastDuration = 4 * time.Second
	DefaultToastFade     = 300 * time.Millisecond
)

// Toaster shows toasts on a View and retires them on loop timers.
type Toaster struct {
	loop     *Loop
	view     View
	duration time.Duration
	fade     time.Duration
	active   []Toast
}

// NewToaster creates a toaster. Zero durations use the defaults.
func NewToaster(loop *Loop, view View, duration, fade time.Duration) *Toaster {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	if fade <= 0 {
		fade = DefaultToastFade
	}
	return &Toaster{loop: loop, view: view, duration: duration, fade: fade}
}

// Success shows a success toast.
func (t *Toaster) Success(message string) {
	t.Notify(SeveritySuccess, message)
}

// Error shows an error toast.
func (t *Toaster) Error(message string) {
	t.Notify(SeverityError, message)
}

// Notify appends a toast and schedules its fade and removal.
func (t *Toaster) Notify(severity Severity, message string) Toast {
	toast := Toast{
		ID:       uuid.NewString(),
		Severity: severity,
		Message:  message,
	}
	t.active = append(t.active, toast)
	t.view.ShowToast(toast)

	t.loop.After(t.duration, func() {
		t.view.FadeToast(toast.ID)
		t.loop.After(t.fade, func() {
			t.remove(toast.ID)
		})
	})
	return toast
}

// Active returns the toasts currently on screen, oldest first.
func (t *Toaster) Active() []Toast {
	out := make([]Toast, len(t.active))
	copy(out, t.active)
	return out
}

func (t *Toaster) remove(id string) {
	for i, toast := range t.active {
		if toast.ID == id {
			t.active = append(t.active[:i], t.active[i+1:]...)
			break
		}
	}
	t.view.RemoveToast(id)
}
