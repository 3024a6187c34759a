package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Panel is a running TUI program.
type Panel struct {
	prog *tea.Program
	done chan struct{}

	mu  sync.Mutex
	err error
}

// Start runs the UI in the background. With no program options it takes over
// the terminal's alternate screen.
func Start(opts RunOpts, programOpts ...tea.ProgramOption) *Panel {
	if len(programOpts) == 0 {
		programOpts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	p := &Panel{
		prog: tea.NewProgram(NewApp(opts), programOpts...),
		done: make(chan struct{}),
	}
	go func() {
		_, err := p.prog.Run()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	}()
	return p
}

func (p *Panel) Reveal() {
	go p.prog.Send(revealMsg{})
}

func (p *Panel) Dispose() {
	p.prog.Quit()
}

func (p *Panel) Done() <-chan struct{} {
	return p.done
}

// Err is the error the program exited with, valid once Done is closed.
func (p *Panel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
