// Package keygrip records animation keyframes in real time while a user
// manipulates an articulated skeletal rig.
//
// Keygrip watches a stream of low-level input events, works out which kind of
// manipulation (translate, rotate or scale) is in progress, and samples the
// rig on a fixed-interval tick. Whenever a tracked channel drifts past a
// configurable threshold, a keyframe is written at the current frame and the
// interpolation handles around it are kept consistent. Like its namesake on a
// film set, keygrip never operates the camera itself - the scene, the rig and
// the animation curves all belong to the host and are only ever borrowed.
//
// Basic usage:
//
//	rec := keygrip.NewRecorder(keygrip.RecorderConfig{
//		Scene:    scene,
//		Rig:      rig,
//		Anim:     anim,
//		Bindings: bindings,
//	})
//
//	rec.Enable()
//	defer rec.Disable()
//
//	// feed raw input events from the host loop
//	rec.Dispatch(keygrip.Event{Key: keygrip.Key("g"), Action: keygrip.Press, X: 120, Y: 80})
package keygrip

// Kind identifies which class of rig edit is currently being performed.
// Exactly one kind is active at a time; KindNone means no manipulation is in
// progress.
type Kind int

const (
	KindNone Kind = iota
	KindTranslate
	KindRotate
	KindScale
)

func (k Kind) String() string {
	switch k {
	case KindTranslate:
		return "translate"
	case KindRotate:
		return "rotate"
	case KindScale:
		return "scale"
	default:
		return "none"
	}
}

// ChannelPath names one animatable property of a bone. Which rotation path
// applies to a bone depends on its rotation mode.
type ChannelPath string

const (
	PathLocation           ChannelPath = "location"
	PathRotationEuler      ChannelPath = "rotation_euler"
	PathRotationQuaternion ChannelPath = "rotation_quaternion"
	PathScale              ChannelPath = "scale"
)

// ChannelKey identifies one scalar animatable component of one bone property,
// e.g. the X component of a bone's location. It is the unit the recorder
// tracks last-written values by.
type ChannelKey struct {
	Bone  string
	Path  ChannelPath
	Index int
}

// RotationMode selects which rotation representation a bone animates.
type RotationMode int

const (
	RotationEuler RotationMode = iota
	RotationQuaternion
)

// HandleType is the interpolation-tangent mode of one side of a keyframe.
type HandleType int

const (
	HandleFree HandleType = iota
	HandleVector
	HandleAligned
	HandleAuto
	// HandleAutoClamped auto-computes smooth, overshoot-clamped tangents.
	// The writer keeps it paired: if one side of a keyframe is auto-clamped,
	// both sides must be.
	HandleAutoClamped
)

func (h HandleType) String() string {
	switch h {
	case HandleFree:
		return "free"
	case HandleVector:
		return "vector"
	case HandleAligned:
		return "aligned"
	case HandleAuto:
		return "auto"
	case HandleAutoClamped:
		return "auto_clamped"
	default:
		return "unknown"
	}
}

// Keyframe is a recorded (frame, value) sample on a channel's curve together
// with its interpolation handle metadata.
type Keyframe struct {
	Frame       int
	Value       float64
	HandleLeft  HandleType
	HandleRight HandleType
}

// Scene exposes the host's time cursor. Keyframes are written at whatever
// frame the cursor sits on when a sample fires.
type Scene interface {
	// CurrentFrame returns the integer frame the time cursor is on.
	CurrentFrame() int
}

// Bone exposes the live pose of one bone in the rig.
//
// Rotation returns 3 components when the bone animates Euler angles and 4
// when it animates a quaternion; RotationMode says which applies.
type Bone interface {
	Name() string
	Location() [3]float64
	Rotation() []float64
	Scale() [3]float64
	RotationMode() RotationMode
}

// Rig is an ordered collection of bones. The recorder reads it fresh on every
// tick and never holds on to the returned slice.
type Rig interface {
	Bones() []Bone
}

// Curve is one keyframe-bearing animation curve owned by the host.
//
// KeyframeAt returns a pointer into the curve's storage so the writer can
// adjust handle types in place; the pointer is only valid until the next
// Insert on the same curve.
type Curve interface {
	// Insert adds or overwrites the keyframe at frame. A fast insert defers
	// any global curve-consistency recompute.
	Insert(frame int, value float64, fast bool)
	// KeyframeAt returns the keyframe exactly at frame, or nil.
	KeyframeAt(frame int) *Keyframe
	// Keyframes returns every keyframe on the curve in frame order.
	Keyframes() []Keyframe
	// Update recomputes interpolation tangents after handle changes.
	Update()
}

// AnimationData resolves channels to curves. A channel exists only if a
// keyframe-bearing curve for that path and component already does; the
// recorder never asks the host to create one.
type AnimationData interface {
	// Curve returns the curve for (bone, path, index), or nil if the channel
	// has never been animated.
	Curve(bone string, path ChannelPath, index int) Curve
}

// Refresher receives the recorder's view-refresh side effects. RefreshView is
// requested once per active tick; RedrawEditors only on throttled frames.
type Refresher interface {
	RefreshView()
	RedrawEditors()
}

// Notifier receives human-readable status notifications on state transitions.
type Notifier interface {
	Notify(status string)
}

// channelValues returns the live component values of path on b.
func channelValues(b Bone, path ChannelPath) []float64 {
	switch path {
	case PathLocation:
		loc := b.Location()
		return loc[:]
	case PathRotationEuler, PathRotationQuaternion:
		return b.Rotation()
	case PathScale:
		scl := b.Scale()
		return scl[:]
	default:
		return nil
	}
}
