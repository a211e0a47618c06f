package keygrip

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/keygrip/outtake"
)

// RecorderConfig wires a Recorder to its host collaborators.
//
// Scene, Rig, Anim and Bindings are the host-owned data the recorder samples
// and writes; Refresher and Notifier receive its side effects. Any of them
// may be nil: a nil collaborator degrades to a recorded no-op, never a panic,
// because the loop is best-effort by design.
type RecorderConfig struct {
	Scene    Scene
	Rig      Rig
	Anim     AnimationData
	Bindings BindingProvider

	Refresher Refresher
	Notifier  Notifier

	// Viewport returns the active viewport region for pointer containment.
	// Nil means an unbounded viewport (every press is inside).
	Viewport func() Rect

	// Settings is consulted for the tick interval at Enable and for the
	// threshold on every tick. Nil means DefaultSettings.
	Settings func() Settings

	// Logger receives structured lifecycle and write logs. Nil means no-op.
	Logger *zap.Logger

	// Outtakes collects skipped samples for post-take review. Nil means a
	// fresh reel with the default policy.
	Outtakes *outtake.Reel

	// EventBuffer sizes the input event queue. Zero means 64.
	EventBuffer int
}

// Recorder owns the sample loop and the session lifecycle.
//
// The loop is single-threaded and cooperative: one goroutine owns the
// session and interleaves raw input events with fixed-interval ticks, so no
// locking guards the recording state itself. The recorder assumes it is the
// only writer mutating the host's animation curves while enabled; that
// single-writer contract is the host's to honor.
//
// Lifecycle: Disabled -> Idle -> Active -> Idle -> ... -> Disabled. Enable
// on an already-enabled recorder is an implicit disable-then-enable, so at
// most one tick source is ever registered.
type Recorder struct {
	scene     Scene
	rig       Rig
	anim      AnimationData
	bindings  BindingProvider
	refresher Refresher
	notifier  Notifier
	viewport  func() Rect
	settings  func() Settings
	logger    *zap.Logger
	reel      *outtake.Reel

	events        chan Event
	droppedEvents atomic.Int64

	mu      sync.Mutex // guards lifecycle state only, never the session
	enabled bool
	stop    chan struct{}
	done    chan struct{}

	takeMu   sync.Mutex
	lastTake *Take
}

// unboundBindings is the provider used when the host configures none; no
// manipulation kind can ever start.
type unboundBindings struct{}

func (unboundBindings) Lookup(Kind) (TriggerBinding, bool) { return TriggerBinding{}, false }

type nopRefresher struct{}

func (nopRefresher) RefreshView()   {}
func (nopRefresher) RedrawEditors() {}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

// unboundedViewport accepts every pointer position.
func unboundedViewport() Rect {
	const big = 1 << 30
	return Rect{X: -big, Y: -big, Width: 2 * big, Height: 2 * big}
}

// NewRecorder creates a recorder in the Disabled state. Nothing runs until
// Enable is called.
func NewRecorder(cfg RecorderConfig) *Recorder {
	r := &Recorder{
		scene:     cfg.Scene,
		rig:       cfg.Rig,
		anim:      cfg.Anim,
		bindings:  cfg.Bindings,
		refresher: cfg.Refresher,
		notifier:  cfg.Notifier,
		viewport:  cfg.Viewport,
		settings:  cfg.Settings,
		logger:    cfg.Logger,
		reel:      cfg.Outtakes,
	}

	if r.bindings == nil {
		r.bindings = unboundBindings{}
	}
	if r.refresher == nil {
		r.refresher = nopRefresher{}
	}
	if r.notifier == nil {
		r.notifier = nopNotifier{}
	}
	if r.viewport == nil {
		r.viewport = unboundedViewport
	}
	if r.settings == nil {
		r.settings = DefaultSettings
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.reel == nil {
		r.reel = outtake.NewReel("recorder", nil)
	}

	buffer := cfg.EventBuffer
	if buffer <= 0 {
		buffer = 64
	}
	r.events = make(chan Event, buffer)

	return r
}

// Enable starts the sample loop: a fresh session, a single ticker registered
// at the configured interval, and one goroutine that owns both. Enabling an
// already-enabled recorder restarts it, which guarantees at most one tick
// source exists and leaves the session freshly reset.
func (r *Recorder) Enable() {
	r.mu.Lock()
	if r.enabled {
		r.stopLoopLocked()
	}

	// Drop input queued while disabled; a new session starts clean.
drain:
	for {
		select {
		case <-r.events:
		default:
			break drain
		}
	}

	settings := r.settings().Clamp()
	session := newSession()
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.enabled = true
	go r.run(session, settings, r.stop, r.done)
	r.mu.Unlock()

	r.logger.Info("realtime keyframe recorder enabled",
		zap.Float64("interval_s", settings.Interval),
		zap.Float64("threshold", settings.Threshold))
	r.notifier.Notify("Realtime Keyframe Recorder Enabled")
}

// Disable tears the loop down: the ticker is unregistered, the session is
// destroyed and the goroutine has fully exited by the time Disable returns.
// Disabling a recorder that is not enabled is a no-op.
func (r *Recorder) Disable() {
	r.mu.Lock()
	if !r.enabled {
		r.mu.Unlock()
		return
	}
	r.stopLoopLocked()
	r.mu.Unlock()

	r.logger.Info("realtime keyframe recorder disabled")
	r.notifier.Notify("Realtime Keyframe Recorder Disabled")
}

// stopLoopLocked stops the running loop and waits for it to finish. Callers
// hold r.mu.
func (r *Recorder) stopLoopLocked() {
	close(r.stop)
	<-r.done
	r.enabled = false
}

// Toggle flips the recorder between enabled and disabled and returns the new
// state, matching the single toggle control a host panel exposes.
func (r *Recorder) Toggle() bool {
	if r.Enabled() {
		r.Disable()
		return false
	}
	r.Enable()
	return true
}

// Enabled reports the recorder's status flag, readable by an external
// control surface.
func (r *Recorder) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Dispatch offers one raw input event to the loop without blocking. Events
// offered while the recorder is disabled, or while the buffer is full, are
// dropped and counted.
func (r *Recorder) Dispatch(ev Event) bool {
	select {
	case r.events <- ev:
		return true
	default:
		r.droppedEvents.Add(1)
		return false
	}
}

// DroppedEvents returns how many input events were dropped on the floor.
func (r *Recorder) DroppedEvents() int64 {
	return r.droppedEvents.Load()
}

// Outtakes returns the reel collecting this recorder's skipped samples.
func (r *Recorder) Outtakes() *outtake.Reel {
	return r.reel
}

// LastTake returns the most recently finished take, if any.
func (r *Recorder) LastTake() (*Take, bool) {
	r.takeMu.Lock()
	defer r.takeMu.Unlock()
	if r.lastTake == nil {
		return nil, false
	}
	return r.lastTake, true
}

func (r *Recorder) finishTake(session *Session) {
	session.take.Ended = time.Now()
	r.takeMu.Lock()
	r.lastTake = session.take
	r.takeMu.Unlock()
}

// run is the poll-and-dispatch loop. It is the only goroutine that touches
// the session; each tick runs to completion before the next can fire, so a
// tick always observes the latest session state, never a stale snapshot.
func (r *Recorder) run(session *Session, settings Settings, stop, done chan struct{}) {
	defer close(done)
	defer r.finishTake(session)

	ticker := time.NewTicker(settings.TickInterval())
	defer ticker.Stop()

	writer := NewWriter(r.anim, session, r.reel, r.logger)

	for {
		select {
		case <-stop:
			return
		case ev := <-r.events:
			r.dispatchEvent(session, ev)
		case <-ticker.C:
			r.tick(session, writer)
		}
	}
}

// dispatchEvent forwards one input event through the classifier and applies
// the resulting session transition, if any.
func (r *Recorder) dispatchEvent(session *Session, ev Event) {
	c := Classify(ev, r.viewport(), r.bindings)
	switch c.Transition {
	case StartTransition:
		session.begin(c.Kind)
		r.logger.Debug("manipulation started", zap.Stringer("kind", c.Kind))
	case StopTransition:
		if session.Active() {
			r.logger.Debug("manipulation stopped", zap.Stringer("kind", session.Kind()))
		}
		session.end()
	}
}

// tick runs one sample pass: while a manipulation is active, detect changed
// channels, write keyframes for them, then request the batched view refresh
// and the throttled editor redraw.
func (r *Recorder) tick(session *Session, writer *Writer) {
	if !session.Active() {
		return
	}

	if r.scene == nil || r.rig == nil {
		r.reel.Record(outtake.NewSkip("rig", "no scene or rig to sample", nil))
		return
	}

	// Threshold is read fresh each tick so tuning it mid-gesture applies
	// immediately; the interval stays fixed until the next Enable.
	threshold := r.settings().Clamp().Threshold
	frame := r.scene.CurrentFrame()

	for _, change := range Detect(session.Kind(), r.rig, session, threshold) {
		writer.Write(change.Key, frame, change.Value)
	}

	r.refresher.RefreshView()
	if frame%redrawThrottle == 0 {
		r.refresher.RedrawEditors()
	}
}
