package keygrip

import "math"

// History exposes the last recorded value per channel. *Session implements it;
// tests can substitute a fixture.
type History interface {
	Last(key ChannelKey) (float64, bool)
}

// Change identifies one channel whose live value drifted far enough from its
// last recorded value to earn a keyframe, together with the value to write.
type Change struct {
	Key   ChannelKey
	Value float64
}

// kindPath returns the channel path and component count that kind animates on
// bone b. Rotation follows the bone's current rotation mode: 4 quaternion
// components or 3 Euler ones, never both.
func kindPath(kind Kind, b Bone) (ChannelPath, int) {
	switch kind {
	case KindTranslate:
		return PathLocation, 3
	case KindRotate:
		if b.RotationMode() == RotationQuaternion {
			return PathRotationQuaternion, 4
		}
		return PathRotationEuler, 3
	case KindScale:
		return PathScale, 3
	default:
		return "", 0
	}
}

// Detect scans every bone channel belonging to the active manipulation kind
// and flags the ones that crossed the significance threshold.
//
// A channel is flagged when it has no recorded value yet, or when the live
// value differs from the last recorded one by strictly more than threshold;
// a delta exactly equal to the threshold does not trigger. Detect reads the
// rig and history fresh on every call and mutates nothing, so switching kind
// or threshold mid-gesture takes effect on the next tick. KindNone flags
// nothing.
func Detect(kind Kind, rig Rig, history History, threshold float64) []Change {
	if kind == KindNone || rig == nil {
		return nil
	}

	var changes []Change
	for _, bone := range rig.Bones() {
		path, count := kindPath(kind, bone)
		if count == 0 {
			continue
		}

		values := channelValues(bone, path)
		for index := 0; index < count && index < len(values); index++ {
			key := ChannelKey{Bone: bone.Name(), Path: path, Index: index}
			current := values[index]

			last, ok := history.Last(key)
			if !ok || math.Abs(current-last) > threshold {
				changes = append(changes, Change{Key: key, Value: current})
			}
		}
	}
	return changes
}
