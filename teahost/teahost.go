// Package teahost bridges a running BubbleTea program to a keygrip Recorder.
//
// The bridge translates tea messages into recorder events and keeps track of
// the two things terminal input does not carry on its own: the last known
// pointer position (key messages have none) and key releases (terminals only
// deliver presses, so releases are synthesized for the confirm/cancel set).
//
// Typical wiring inside a model's Update:
//
//	case tea.KeyMsg:
//		host.Forward(msg)
//	case tea.MouseMsg:
//		host.Forward(msg)
//	case tea.WindowSizeMsg:
//		host.SetViewport(keygrip.Rect{Width: msg.Width, Height: msg.Height})
package teahost

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranos/keygrip"
)

// Host forwards BubbleTea input into a recorder.
type Host struct {
	recorder *keygrip.Recorder

	mu       sync.Mutex
	viewport keygrip.Rect
	pointerX int
	pointerY int
}

// New creates a host bridge with an initial viewport. Construct the host
// first, hand its Viewport method to RecorderConfig.Viewport, then Attach the
// recorder once it exists.
func New(viewport keygrip.Rect) *Host {
	return &Host{viewport: viewport}
}

// Attach binds the host to the recorder it forwards into. Split from New so
// the host's Viewport method can be handed to RecorderConfig before the
// recorder exists.
func (h *Host) Attach(rec *keygrip.Recorder) *Host {
	h.recorder = rec
	return h
}

// Viewport returns the current viewport region. It matches the signature of
// RecorderConfig.Viewport.
func (h *Host) Viewport() keygrip.Rect {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewport
}

// SetViewport updates the viewport region, typically on tea.WindowSizeMsg.
func (h *Host) SetViewport(r keygrip.Rect) {
	h.mu.Lock()
	h.viewport = r
	h.mu.Unlock()
}

// Forward translates one BubbleTea message into recorder events and
// dispatches them. It returns true if the message produced at least one
// event; other message types are ignored.
func (h *Host) Forward(msg tea.Msg) bool {
	if h.recorder == nil {
		return false
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		h.mu.Lock()
		h.pointerX, h.pointerY = msg.X, msg.Y
		h.mu.Unlock()
		return h.recorder.Dispatch(keygrip.EventFromMouse(msg))

	case tea.KeyMsg:
		h.mu.Lock()
		x, y := h.pointerX, h.pointerY
		h.mu.Unlock()

		ev := keygrip.EventFromKey(msg, x, y)
		sent := h.recorder.Dispatch(ev)

		// Terminals never report key releases; the confirm/cancel set only
		// acts on release, so fake one right behind the press.
		if keygrip.IsStopKey(ev.Key) {
			release := ev
			release.Action = keygrip.Release
			sent = h.recorder.Dispatch(release) || sent
		}
		return sent
	}

	return false
}
