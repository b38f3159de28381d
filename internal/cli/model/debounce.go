package model

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is the quiet period before a suggestion fetch starts.
const DefaultDebounce = 200 * time.Millisecond

// debounceFiredMsg is sent when a scheduled fetch timer expires.
type debounceFiredMsg struct {
	gen   uint64
	query string
}

// Debouncer restarts a single timer on every keystroke. Only the timer of
// the latest generation is honored.
type Debouncer struct {
	delay time.Duration
	gen   uint64
}

// NewDebouncer creates a debouncer. A non-positive delay fires immediately.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule invalidates any pending timer and starts a new one for query.
func (d *Debouncer) Schedule(query string) tea.Cmd {
	d.gen++
	gen := d.gen
	if d.delay <= 0 {
		return func() tea.Msg { return debounceFiredMsg{gen: gen, query: query} }
	}
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return debounceFiredMsg{gen: gen, query: query}
	})
}

// Cancel invalidates any pending timer.
func (d *Debouncer) Cancel() {
	d.gen++
}

// fired reports whether msg belongs to the latest scheduled timer.
func (d *Debouncer) fired(msg debounceFiredMsg) bool {
	return msg.gen == d.gen
}
