// ABOUTME: Thread-safe TTL store for import task progress frames
// ABOUTME: Size-limited with oldest-first eviction; polled by the SSE progress handler

package fakeapi

import (
	"container/list"
	"sync"
	"time"

	"github.com/2389/catalog-panel/internal/api"
)

// Progress retention defaults.
const (
	DefaultProgressTTL     = time.Hour
	DefaultProgressMaxSize = 1024
)

// progressEntry stores the latest frame and list element for a task.
type progressEntry struct {
	event     api.ProgressEvent
	timestamp time.Time
	element   *list.Element
}

// ProgressStore keeps the latest progress frame per task for a limited time.
// Uses a doubly-linked list to maintain update order for O(1) eviction.
type ProgressStore struct {
	mu      sync.RWMutex
	tasks   map[string]*progressEntry
	order   *list.List // task IDs, least recently updated at front
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// NewProgressStore creates a store that forgets tasks ttl after their last
// update. A background goroutine periodically cleans up expired entries.
func NewProgressStore(ttl time.Duration, maxSize int) *ProgressStore {
	p := &ProgressStore{
		tasks:   make(map[string]*progressEntry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go p.cleanup()
	return p
}

// SetProgress records that processed of total items are done.
func (p *ProgressStore) SetProgress(taskID string, processed int, status string, total int) {
	percentage := 0
	if total > 0 {
		percentage = processed * 100 / total
	}
	p.put(taskID, api.ProgressEvent{
		Progress:   processed,
		Total:      total,
		Percentage: float64(percentage),
		Status:     status,
	})
}

// SetError marks the task failed.
func (p *ProgressStore) SetError(taskID, message string) {
	p.put(taskID, api.ProgressEvent{
		Status: api.StatusError,
		Error:  message,
	})
}

// SetComplete marks the task finished.
func (p *ProgressStore) SetComplete(taskID, message string) {
	p.put(taskID, api.ProgressEvent{
		Progress:   100,
		Percentage: 100,
		Status:     api.StatusComplete,
		Message:    message,
	})
}

// Get returns the latest frame for the task if it exists and has not expired.
func (p *ProgressStore) Get(taskID string) (api.ProgressEvent, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.tasks[taskID]
	if !ok || time.Since(entry.timestamp) >= p.ttl {
		return api.ProgressEvent{}, false
	}
	return entry.event, true
}

// Delete forgets a task.
func (p *ProgressStore) Delete(taskID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, ok := p.tasks[taskID]; ok {
		p.order.Remove(entry.element)
		delete(p.tasks, taskID)
	}
}

// put stores the frame, evicting the stalest task if the store is full.
func (p *ProgressStore) put(taskID string, event api.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()

	// If task already exists, replace the frame and move to back
	if entry, exists := p.tasks[taskID]; exists {
		entry.event = event
		entry.timestamp = now
		p.order.MoveToBack(entry.element)
		return
	}

	if len(p.tasks) >= p.maxSize {
		p.evictOldest()
	}

	elem := p.order.PushBack(taskID)
	p.tasks[taskID] = &progressEntry{
		event:     event,
		timestamp: now,
		element:   elem,
	}
}

// evictOldest removes the least recently updated task.
// Must be called with mu held.
func (p *ProgressStore) evictOldest() {
	front := p.order.Front()
	if front == nil {
		return
	}

	taskID, _ := front.Value.(string)
	p.order.Remove(front)
	delete(p.tasks, taskID)
}

// cleanup runs in a background goroutine, periodically removing expired entries.
func (p *ProgressStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.runCleanup()
		case <-p.done:
			return
		}
	}
}

// runCleanup removes all expired entries from the store.
func (p *ProgressStore) runCleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	for taskID, entry := range p.tasks {
		if now.Sub(entry.timestamp) > p.ttl {
			p.order.Remove(entry.element)
			delete(p.tasks, taskID)
		}
	}
}

// Close stops the background cleanup goroutine. It is safe to call multiple times.
func (p *ProgressStore) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		close(p.done)
		p.closed = true
	}
}
