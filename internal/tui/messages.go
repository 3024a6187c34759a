package tui

import (
	"github.com/matheuskafuri/jjfeed/internal/bridge"
	"github.com/matheuskafuri/jjfeed/internal/cache"
)

// envelopeMsg carries one reply received from the host.
type envelopeMsg struct {
	env bridge.Envelope
}

type bridgeClosedMsg struct{}

// noticeMsg is a user-facing notification raised by the host.
type noticeMsg struct {
	text string
}

// flashMsg is a transient status line produced by the UI itself.
type flashMsg struct {
	text string
}

type clearFlashMsg struct {
	id int
}

type actionErrMsg struct {
	err error
}

type visitedMsg struct {
	kind cache.Kind
	ids  map[string]bool
}

type updateAvailableMsg struct {
	version string
}

// revealMsg brings the feeds screen to the front.
type revealMsg struct{}
