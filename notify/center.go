package notify

import (
	"sync"
	"time"

	"github.com/rustyeddy/quantdesk/id"
)

// MaxHistory bounds the notification history; the oldest entries are
// dropped first.
const MaxHistory = 200

// Center keeps the notification history and forwards events to a toast
// sink while notifications are enabled.
type Center struct {
	mu sync.RWMutex
	// items is oldest first.
	items   []Notification
	enabled bool
	forward Sink
	now     func() time.Time
}

func NewCenter(enabled bool, forward Sink) *Center {
	return &Center{
		enabled: enabled,
		forward: forward,
		now:     time.Now,
	}
}

func (c *Center) Notify(title, message string, sev Severity) {
	n := Notification{
		ID:       id.New(),
		Title:    title,
		Message:  message,
		Severity: sev,
		Time:     c.now(),
	}

	c.mu.Lock()
	if len(c.items) >= MaxHistory {
		copy(c.items, c.items[1:])
		c.items = c.items[:len(c.items)-1]
	}
	c.items = append(c.items, n)
	forward, enabled := c.forward, c.enabled
	c.mu.Unlock()

	if enabled && forward != nil {
		forward.Notify(title, message, sev)
	}
}

func (c *Center) SetEnabled(on bool) {
	c.mu.Lock()
	c.enabled = on
	c.mu.Unlock()
}

// All returns the history, newest first.
func (c *Center) All() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Notification, len(c.items))
	for i, n := range c.items {
		out[len(out)-1-i] = n
	}
	return out
}

func (c *Center) Unread() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, it := range c.items {
		if !it.Read {
			n++
		}
	}
	return n
}

func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}

func (c *Center) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
