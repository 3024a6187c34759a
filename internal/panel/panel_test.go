package panel

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	mu       sync.Mutex
	reveals  int
	disposed bool
	done     chan struct{}
	once     sync.Once
}

func newFakePanel() *fakePanel { return &fakePanel{done: make(chan struct{})} }

func (p *fakePanel) Reveal() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reveals++
}

func (p *fakePanel) Dispose() {
	p.mu.Lock()
	p.disposed = true
	p.mu.Unlock()
	p.once.Do(func() { close(p.done) })
}

func (p *fakePanel) Done() <-chan struct{} { return p.done }

func (p *fakePanel) revealCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reveals
}

func TestOpenTwiceRevealsExisting(t *testing.T) {
	var created []*fakePanel
	m := NewManager(func() (Panel, error) {
		p := newFakePanel()
		created = append(created, p)
		return p, nil
	})

	first, isNew, err := m.Open()
	require.NoError(t, err)
	assert.True(t, isNew)

	second, isNew, err := m.Open()
	require.NoError(t, err)
	assert.False(t, isNew)

	assert.Same(t, first, second)
	assert.Len(t, created, 1)
	assert.Equal(t, 1, created[0].revealCount())
}

func TestOpenAfterPanelClosedCreatesNew(t *testing.T) {
	count := 0
	m := NewManager(func() (Panel, error) {
		count++
		return newFakePanel(), nil
	})

	p, _, err := m.Open()
	require.NoError(t, err)
	p.Dispose()

	require.Eventually(t, func() bool { return m.Current() == nil }, time.Second, 5*time.Millisecond)

	_, isNew, err := m.Open()
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, 2, count)
}

func TestManagerDispose(t *testing.T) {
	fp := newFakePanel()
	m := NewManager(func() (Panel, error) { return fp, nil })

	m.Dispose()
	_, _, err := m.Open()
	require.NoError(t, err)
	m.Dispose()

	assert.True(t, fp.disposed)
	assert.Nil(t, m.Current())
}

func TestOpenError(t *testing.T) {
	m := NewManager(func() (Panel, error) { return nil, errors.New("no tty") })
	_, _, err := m.Open()
	assert.ErrorContains(t, err, "no tty")
	assert.Nil(t, m.Current())
}
