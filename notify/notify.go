package notify

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Level string

const (
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notification is what a failed network call becomes by the time a view sees
// it: a human-readable, dismissible message. Underlying cached data keeps
// being displayed alongside it.
type Notification struct {
	Level       Level
	Message     string
	Dismissible bool
	CreatedAt   time.Time
}

// Center collects notifications and fans them out to listeners. Errors are
// converted at the call site that issued the request; nothing escapes as an
// uncaught failure that would crash a view.
type Center struct {
	mu        sync.Mutex
	items     []Notification
	listeners []func(Notification)
}

func NewCenter() *Center {
	return &Center{}
}

func (c *Center) Push(n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	listeners := make([]func(Notification), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(n)
	}
}

// PushError converts a request error into a user-facing notification with
// some context about what was being attempted.
func (c *Center) PushError(err error, context string) {
	c.Push(Notification{
		Level:       Error,
		Message:     context + ": " + errors.Cause(err).Error(),
		Dismissible: true,
	})
}

func (c *Center) Subscribe(listener func(Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Notification, len(c.items))
	copy(items, c.items)
	return items
}

// Dismiss drops the notification at idx, counting from the oldest.
func (c *Center) Dismiss(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.items) || !c.items[idx].Dismissible {
		return
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}
