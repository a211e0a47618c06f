package keygrip

import (
	"go.uber.org/zap"

	"github.com/teranos/keygrip/outtake"
)

// redrawThrottle bounds UI-refresh cost during rapid sampling: timeline and
// curve-editor redraws are only requested on frames whose index is a multiple
// of this factor. It never affects keyframe data.
const redrawThrottle = 5

// WriteResult says what a single channel write did.
type WriteResult int

const (
	// WriteSkipped means the channel had no pre-existing curve; nothing was
	// written and last-value memory was left alone.
	WriteSkipped WriteResult = iota
	// WriteInserted means a keyframe was inserted or overwritten.
	WriteInserted
)

// Writer inserts keyframes and keeps interpolation handle types consistent on
// the touched keyframe and its immediate temporal neighbors.
//
// The writer only keeps up with channels that are already animated: if no
// keyframe-bearing curve exists for a channel, the write is a recorded no-op,
// never an error and never a curve creation.
type Writer struct {
	anim    AnimationData
	session *Session
	reel    *outtake.Reel
	logger  *zap.Logger
}

// NewWriter creates a keyframe writer bound to one session's memory.
func NewWriter(anim AnimationData, session *Session, reel *outtake.Reel, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reel == nil {
		reel = outtake.NewReel("writer", nil)
	}
	return &Writer{
		anim:    anim,
		session: session,
		reel:    reel,
		logger:  logger,
	}
}

// Write records value for the channel at frame.
//
// Effects, in order: a fast keyframe insert that defers any global curve
// recompute, last-value memory update, then handle normalization across the
// keyframes at frame-1, frame and frame+1. The bounded three-keyframe window
// refreshes only the tangents a single new sample could visibly change, not
// the whole curve.
func (w *Writer) Write(key ChannelKey, frame int, value float64) WriteResult {
	if w.anim == nil {
		w.reel.Record(outtake.NewFlub("rig", "no animation data to write into", outtake.Context{
			"bone": key.Bone,
			"path": string(key.Path),
		}))
		return WriteSkipped
	}

	curve := w.anim.Curve(key.Bone, key.Path, key.Index)
	if curve == nil {
		w.reel.Record(outtake.NewSkip("channel", "channel has no keyframe-bearing curve", outtake.Context{
			"bone":  key.Bone,
			"path":  string(key.Path),
			"index": key.Index,
		}))
		return WriteSkipped
	}

	curve.Insert(frame, value, true)
	w.session.remember(key, value)
	w.session.take.record(key, Keyframe{Frame: frame, Value: value})
	w.normalizeHandles(curve, frame)

	w.logger.Debug("keyframe written",
		zap.String("bone", key.Bone),
		zap.String("path", string(key.Path)),
		zap.Int("index", key.Index),
		zap.Int("frame", frame),
		zap.Float64("value", value))

	return WriteInserted
}

// normalizeHandles enforces auto-clamp pairing on the keyframe at frame and
// its immediate neighbors: if either handle of a touched keyframe is
// auto-clamped, both handles are forced to auto-clamped and the curve's
// tangents are recomputed for that keyframe.
func (w *Writer) normalizeHandles(curve Curve, frame int) {
	for _, f := range [3]int{frame - 1, frame, frame + 1} {
		kf := curve.KeyframeAt(f)
		if kf == nil {
			continue
		}
		if kf.HandleLeft == HandleAutoClamped || kf.HandleRight == HandleAutoClamped {
			kf.HandleLeft = HandleAutoClamped
			kf.HandleRight = HandleAutoClamped
			curve.Update()
		}
	}
}
