// ABOUTME: Tests for the import progress store
// ABOUTME: Covers frame shapes, TTL expiry, eviction order, and idempotent Close

package fakeapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/catalog-panel/internal/api"
)

func TestProgressStore_Frames(t *testing.T) {
	p := NewProgressStore(time.Hour, 10)
	defer p.Close()

	p.SetProgress("t1", 25, "Processed 25/100 products...", 100)
	ev, ok := p.Get("t1")
	require.True(t, ok)
	assert.Equal(t, 25, ev.Progress)
	assert.Equal(t, 100, ev.Total)
	assert.Equal(t, 25.0, ev.Percentage)
	assert.False(t, ev.Terminal())

	p.SetProgress("t1", 1, "Processed 1/3 products...", 3)
	ev, _ = p.Get("t1")
	assert.Equal(t, 33.0, ev.Percentage, "percentage truncates")

	p.SetComplete("t1", "done")
	ev, _ = p.Get("t1")
	assert.Equal(t, api.StatusComplete, ev.Status)
	assert.Equal(t, "done", ev.Message)
	assert.Equal(t, 100.0, ev.Percentage)

	p.SetError("t2", "boom")
	ev, _ = p.Get("t2")
	assert.Equal(t, api.StatusError, ev.Status)
	assert.Equal(t, "boom", ev.Error)
	assert.True(t, ev.Terminal())

	p.Delete("t2")
	_, ok = p.Get("t2")
	assert.False(t, ok)
}

func TestProgressStore_ZeroTotal(t *testing.T) {
	p := NewProgressStore(time.Hour, 10)
	defer p.Close()

	p.SetProgress("t", 5, "Processing...", 0)
	ev, ok := p.Get("t")
	require.True(t, ok)
	assert.Zero(t, ev.Percentage)
}

func TestProgressStore_Expiry(t *testing.T) {
	p := NewProgressStore(20*time.Millisecond, 10)
	defer p.Close()

	p.SetProgress("t", 1, "Processing...", 2)
	_, ok := p.Get("t")
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = p.Get("t")
	assert.False(t, ok, "expired frames are not returned")

	p.runCleanup()
	p.mu.RLock()
	assert.Empty(t, p.tasks)
	assert.Zero(t, p.order.Len())
	p.mu.RUnlock()
}

func TestProgressStore_EvictsStalest(t *testing.T) {
	p := NewProgressStore(time.Hour, 2)
	defer p.Close()

	p.SetProgress("a", 0, "a", 1)
	p.SetProgress("b", 0, "b", 1)
	p.SetProgress("a", 1, "a again", 1) // a is now the freshest
	p.SetProgress("c", 0, "c", 1)

	_, ok := p.Get("b")
	assert.False(t, ok, "b was least recently updated")
	_, ok = p.Get("a")
	assert.True(t, ok)
	_, ok = p.Get("c")
	assert.True(t, ok)
}

func TestProgressStore_CloseTwice(t *testing.T) {
	p := NewProgressStore(time.Hour, 1)
	p.Close()
	p.Close()
}
