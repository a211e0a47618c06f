package keygrip

import "time"

// Session holds the per-enable recording state: whether a manipulation is in
// progress, which kind, and the last value written per channel.
//
// A session is created on Enable, reset on every start and stop transition
// and torn down on Disable. It is owned by the recorder's loop goroutine and
// is never touched from anywhere else, so it needs no locking.
type Session struct {
	active bool
	kind   Kind
	last   map[ChannelKey]float64
	take   *Take
}

func newSession() *Session {
	return &Session{
		kind: KindNone,
		last: make(map[ChannelKey]float64),
		take: newTake(time.Now()),
	}
}

// Active reports whether a manipulation is currently in progress.
func (s *Session) Active() bool { return s.active }

// Kind returns the active manipulation kind, or KindNone.
func (s *Session) Kind() Kind { return s.kind }

// Last returns the last recorded value for a channel, if any. It implements
// the History interface consumed by Detect.
func (s *Session) Last(key ChannelKey) (float64, bool) {
	v, ok := s.last[key]
	return v, ok
}

// begin enters the Active state for kind, clearing last-value memory so the
// first sample of the new gesture always writes.
func (s *Session) begin(kind Kind) {
	s.active = true
	s.kind = kind
	s.last = make(map[ChannelKey]float64)
}

// end leaves the Active state and clears last-value memory.
func (s *Session) end() {
	s.active = false
	s.kind = KindNone
	s.last = make(map[ChannelKey]float64)
}

// remember records the value just written for a channel.
func (s *Session) remember(key ChannelKey, value float64) {
	s.last[key] = value
}
