// Package memrig provides an in-memory rig, scene and animation store that
// satisfy keygrip's collaborator interfaces.
//
// The real rig and animation data belong to a host application; memrig is the
// stand-in used by keygrip's own tests and by the pose-demo example. Pose and
// scene state are internally synchronized so a UI goroutine can read and
// nudge them while the recorder loop samples; curve contents follow the
// recorder's single-writer contract and are only safe to inspect in full once
// the recorder is disabled.
package memrig

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/teranos/keygrip"
)

// Bone is a mutable in-memory bone pose, safe for concurrent reads and
// adjustments.
type Bone struct {
	name string
	mode keygrip.RotationMode

	mu  sync.Mutex
	loc [3]float64
	rot []float64
	scl [3]float64
}

// NewBone creates a bone at rest: identity rotation for the given mode and
// unit scale.
func NewBone(name string, mode keygrip.RotationMode) *Bone {
	b := &Bone{
		name: name,
		mode: mode,
		scl:  [3]float64{1, 1, 1},
	}
	if mode == keygrip.RotationQuaternion {
		b.rot = []float64{1, 0, 0, 0}
	} else {
		b.rot = []float64{0, 0, 0}
	}
	return b
}

func (b *Bone) Name() string                       { return b.name }
func (b *Bone) RotationMode() keygrip.RotationMode { return b.mode }

func (b *Bone) Location() [3]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loc
}

func (b *Bone) Rotation() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float64, len(b.rot))
	copy(out, b.rot)
	return out
}

func (b *Bone) Scale() [3]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scl
}

// SetLocation sets one location component.
func (b *Bone) SetLocation(index int, value float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loc[index] = value
}

// SetRotation sets one rotation component.
func (b *Bone) SetRotation(index int, value float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rot[index] = value
}

// SetScale sets one scale component.
func (b *Bone) SetScale(index int, value float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scl[index] = value
}

// Adjust nudges one component of one channel path by delta, the way an
// interactive manipulation drags a value around.
func (b *Bone) Adjust(path keygrip.ChannelPath, index int, delta float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch path {
	case keygrip.PathLocation:
		b.loc[index] += delta
	case keygrip.PathRotationEuler, keygrip.PathRotationQuaternion:
		b.rot[index] += delta
	case keygrip.PathScale:
		b.scl[index] += delta
	}
}

// Rig is an ordered in-memory bone collection.
type Rig struct {
	bones []*Bone
}

// NewRig creates a rig holding the given bones.
func NewRig(bones ...*Bone) *Rig {
	return &Rig{bones: bones}
}

// Add appends a bone to the rig.
func (r *Rig) Add(b *Bone) {
	r.bones = append(r.bones, b)
}

// Bones implements keygrip.Rig.
func (r *Rig) Bones() []keygrip.Bone {
	out := make([]keygrip.Bone, len(r.bones))
	for i, b := range r.bones {
		out[i] = b
	}
	return out
}

// Curve is an in-memory keyframe curve ordered by frame.
//
// Structural changes (Insert) and the Len counter are synchronized; the
// keyframe contents themselves belong to the recorder loop while it runs.
type Curve struct {
	// DefaultHandle is the handle type newly inserted keyframes receive.
	DefaultHandle keygrip.HandleType

	mu   sync.Mutex
	keys []keygrip.Keyframe

	// Counters for assertions; read them after the recorder is disabled.
	FastInserts int
	FullInserts int
	Updates     int
}

// NewCurve creates an empty curve whose new keyframes default to auto-clamped
// handles.
func NewCurve() *Curve {
	return &Curve{DefaultHandle: keygrip.HandleAutoClamped}
}

// Insert implements keygrip.Curve. An existing keyframe at frame has its
// value overwritten and keeps its handle types; otherwise a new keyframe is
// inserted in frame order with the curve's default handles.
func (c *Curve) Insert(frame int, value float64, fast bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fast {
		c.FastInserts++
	} else {
		c.FullInserts++
		c.Updates++
	}

	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Frame >= frame })
	if i < len(c.keys) && c.keys[i].Frame == frame {
		c.keys[i].Value = value
		return
	}

	kf := keygrip.Keyframe{
		Frame:       frame,
		Value:       value,
		HandleLeft:  c.DefaultHandle,
		HandleRight: c.DefaultHandle,
	}
	c.keys = append(c.keys, keygrip.Keyframe{})
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = kf
}

// KeyframeAt implements keygrip.Curve. The returned pointer aliases the
// curve's storage and is valid until the next Insert.
func (c *Curve) KeyframeAt(frame int) *keygrip.Keyframe {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Frame >= frame })
	if i < len(c.keys) && c.keys[i].Frame == frame {
		return &c.keys[i]
	}
	return nil
}

// Keyframes implements keygrip.Curve.
func (c *Curve) Keyframes() []keygrip.Keyframe {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]keygrip.Keyframe, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the keyframe count. Safe to call from a UI goroutine while the
// recorder is writing.
func (c *Curve) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

// Update implements keygrip.Curve by counting tangent recomputes.
func (c *Curve) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Updates++
}

type curveKey struct {
	bone  string
	path  keygrip.ChannelPath
	index int
}

// Anim is an in-memory animation store. Curves are registered up front;
// lookups afterwards are read-only and need no locking.
type Anim struct {
	curves map[curveKey]*Curve
}

// NewAnim creates an empty animation store.
func NewAnim() *Anim {
	return &Anim{curves: make(map[curveKey]*Curve)}
}

// AddCurve creates (or returns) the curve for a channel. Only channels added
// here exist; keygrip never creates curves on its own.
func (a *Anim) AddCurve(bone string, path keygrip.ChannelPath, index int) *Curve {
	key := curveKey{bone: bone, path: path, index: index}
	if c, ok := a.curves[key]; ok {
		return c
	}
	c := NewCurve()
	a.curves[key] = c
	return c
}

// Lookup returns the concrete curve for a channel, or nil.
func (a *Anim) Lookup(bone string, path keygrip.ChannelPath, index int) *Curve {
	return a.curves[curveKey{bone: bone, path: path, index: index}]
}

// Curve implements keygrip.AnimationData. A channel without a curve returns
// a true nil interface, never a typed nil.
func (a *Anim) Curve(bone string, path keygrip.ChannelPath, index int) keygrip.Curve {
	c, ok := a.curves[curveKey{bone: bone, path: path, index: index}]
	if !ok {
		return nil
	}
	return c
}

// Scene is an in-memory time cursor.
type Scene struct {
	Frame int64
}

// CurrentFrame implements keygrip.Scene.
func (s *Scene) CurrentFrame() int {
	return int(atomic.LoadInt64(&s.Frame))
}

// Advance moves the time cursor forward by n frames.
func (s *Scene) Advance(n int) {
	atomic.AddInt64(&s.Frame, int64(n))
}

// SetFrame jumps the time cursor to an absolute frame.
func (s *Scene) SetFrame(frame int) {
	atomic.StoreInt64(&s.Frame, int64(frame))
}

// Refresher counts refresh requests. The counters are atomic because the
// recorder loop fires them from its own goroutine.
type Refresher struct {
	views   atomic.Int64
	redraws atomic.Int64
}

func (r *Refresher) RefreshView()   { r.views.Add(1) }
func (r *Refresher) RedrawEditors() { r.redraws.Add(1) }

// ViewRefreshes returns how many general view refreshes were requested.
func (r *Refresher) ViewRefreshes() int64 { return r.views.Load() }

// EditorRedraws returns how many timeline/curve-editor redraws were requested.
func (r *Refresher) EditorRedraws() int64 { return r.redraws.Load() }

// Notifier collects status notifications.
type Notifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *Notifier) Notify(status string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, status)
}

// Messages returns everything notified so far.
func (n *Notifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}
