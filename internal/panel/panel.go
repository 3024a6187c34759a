// Package panel owns the single feed panel of a running application.
package panel

import (
	"fmt"
	"sync"
)

// Panel is an open feed view.
type Panel interface {
	// Reveal brings the panel back to the foreground.
	Reveal()
	// Dispose closes the panel. Done is closed once it has shut down.
	Dispose()
	Done() <-chan struct{}
}

// Opener creates a new panel.
type Opener func() (Panel, error)

// Manager holds at most one panel. Opening while a panel is alive reveals it.
type Manager struct {
	mu      sync.Mutex
	open    Opener
	current Panel
}

func NewManager(open Opener) *Manager {
	return &Manager{open: open}
}

// Open returns the live panel, creating it if needed. created reports
// whether a new panel was made; otherwise the existing one was revealed.
func (m *Manager) Open() (p Panel, created bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Reveal()
		return m.current, false, nil
	}

	p, err = m.open()
	if err != nil {
		return nil, false, fmt.Errorf("opening panel: %w", err)
	}
	m.current = p
	go m.forget(p)
	return p, true, nil
}

// Current returns the live panel or nil.
func (m *Manager) Current() Panel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Dispose closes the live panel, if any.
func (m *Manager) Dispose() {
	m.mu.Lock()
	p := m.current
	m.current = nil
	m.mu.Unlock()

	if p != nil {
		p.Dispose()
	}
}

func (m *Manager) forget(p Panel) {
	<-p.Done()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == p {
		m.current = nil
	}
}
