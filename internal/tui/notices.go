package tui

import tea "github.com/charmbracelet/bubbletea"

// Notices delivers host notifications to the UI. It implements
// juejin.Notifier.
type Notices struct {
	ch chan string
}

func NewNotices(buffer int) *Notices {
	if buffer < 1 {
		buffer = 1
	}
	return &Notices{ch: make(chan string, buffer)}
}

// Notify never blocks the caller; a notice is dropped when the UI is too far
// behind to show it.
func (n *Notices) Notify(message string) {
	select {
	case n.ch <- message:
	default:
	}
}

func (n *Notices) wait() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{text: <-n.ch}
	}
}
