package keygrip

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Action distinguishes press, release and key-repeat input events.
type Action int

const (
	Press Action = iota
	Release
	Repeat
)

func (a Action) String() string {
	switch a {
	case Press:
		return "press"
	case Release:
		return "release"
	case Repeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Key is a symbolic key code as reported by the host. Mouse buttons share the
// key namespace, mirroring how most windowing hosts deliver them.
type Key string

const (
	KeyLeftMouse  Key = "leftmouse"
	KeyRightMouse Key = "rightmouse"
	KeyReturn     Key = "return"
	KeyEscape     Key = "escape"
	KeySpace      Key = "space"
)

// Event is one raw input event from the host: a key or button transition
// with its modifier flags and the pointer position at the time it fired.
type Event struct {
	Key    Key
	Action Action
	Shift  bool
	Ctrl   bool
	Alt    bool
	Meta   bool
	X      int
	Y      int
}

// Rect is a viewport region in host window coordinates, used to test pointer
// containment when deciding whether a trigger press counts.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the point (x, y) falls inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// EventFromKey converts a bubbletea key message into a recorder event.
//
// Terminal keyboards only ever report presses, so the returned event always
// has Action Press; hosts that need release semantics for the confirm/cancel
// set synthesize them (see the teahost package). The pointer position is
// supplied by the caller because key messages carry none.
func EventFromKey(msg tea.KeyMsg, x, y int) Event {
	ev := Event{Action: Press, X: x, Y: y}

	switch msg.Type {
	case tea.KeyEnter:
		ev.Key = KeyReturn
	case tea.KeyEsc:
		ev.Key = KeyEscape
	case tea.KeySpace:
		ev.Key = KeySpace
	case tea.KeyRunes:
		if len(msg.Runes) > 0 {
			ev.Key = Key(string(msg.Runes[0]))
		}
	default:
		ev.Key = Key(msg.String())
	}

	ev.Alt = msg.Alt
	return ev
}

// EventFromMouse converts a bubbletea mouse message into a recorder event.
// Only the primary and secondary buttons are mapped; everything else is
// returned with an empty key and will never match a binding or the stop set.
func EventFromMouse(msg tea.MouseMsg) Event {
	ev := Event{X: msg.X, Y: msg.Y, Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt}

	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Key = KeyLeftMouse
	case tea.MouseButtonRight:
		ev.Key = KeyRightMouse
	}

	switch msg.Action {
	case tea.MouseActionPress:
		ev.Action = Press
	case tea.MouseActionRelease:
		ev.Action = Release
	default:
		ev.Action = Repeat
	}

	return ev
}
