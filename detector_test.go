package keygrip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBone is a plain-struct bone pose for detector tests.
type fakeBone struct {
	name string
	mode RotationMode
	loc  [3]float64
	rot  []float64
	scl  [3]float64
}

func (b *fakeBone) Name() string               { return b.name }
func (b *fakeBone) RotationMode() RotationMode { return b.mode }
func (b *fakeBone) Location() [3]float64       { return b.loc }
func (b *fakeBone) Rotation() []float64        { return b.rot }
func (b *fakeBone) Scale() [3]float64          { return b.scl }

type fakeRig []*fakeBone

func (r fakeRig) Bones() []Bone {
	out := make([]Bone, len(r))
	for i, b := range r {
		out[i] = b
	}
	return out
}

// mapHistory substitutes for a session's last-value memory.
type mapHistory map[ChannelKey]float64

func (h mapHistory) Last(key ChannelKey) (float64, bool) {
	v, ok := h[key]
	return v, ok
}

func quatBone(name string) *fakeBone {
	return &fakeBone{
		name: name,
		mode: RotationQuaternion,
		rot:  []float64{1, 0, 0, 0},
		scl:  [3]float64{1, 1, 1},
	}
}

func eulerBone(name string) *fakeBone {
	return &fakeBone{
		name: name,
		mode: RotationEuler,
		rot:  []float64{0, 0, 0},
		scl:  [3]float64{1, 1, 1},
	}
}

func TestDetect_ThresholdIsStrict(t *testing.T) {
	bone := eulerBone("arm")
	bone.loc = [3]float64{1.0, 2.0, 3.0}
	rig := fakeRig{bone}

	threshold := 0.5
	history := mapHistory{
		{Bone: "arm", Path: PathLocation, Index: 0}: 0.4, // delta 0.6 > threshold
		{Bone: "arm", Path: PathLocation, Index: 1}: 1.5, // delta exactly threshold
		{Bone: "arm", Path: PathLocation, Index: 2}: 2.9, // delta 0.1 under
	}

	changes := Detect(KindTranslate, rig, history, threshold)

	assert.Len(t, changes, 1)
	assert.Equal(t, ChannelKey{Bone: "arm", Path: PathLocation, Index: 0}, changes[0].Key)
	assert.Equal(t, 1.0, changes[0].Value)
}

func TestDetect_UnseenChannelAlwaysFlagged(t *testing.T) {
	bone := eulerBone("arm")
	rig := fakeRig{bone}

	// Empty history: the first sample of a gesture writes every channel of
	// the active kind, even at rest.
	changes := Detect(KindTranslate, rig, mapHistory{}, 0.0001)

	assert.Len(t, changes, 3)
}

func TestDetect_RotationFollowsBoneMode(t *testing.T) {
	quat := quatBone("hips")
	euler := eulerBone("arm")
	rig := fakeRig{quat, euler}

	changes := Detect(KindRotate, rig, mapHistory{}, 0.0001)

	var quatKeys, eulerKeys int
	for _, c := range changes {
		switch c.Key.Path {
		case PathRotationQuaternion:
			assert.Equal(t, "hips", c.Key.Bone)
			quatKeys++
		case PathRotationEuler:
			assert.Equal(t, "arm", c.Key.Bone)
			eulerKeys++
		default:
			t.Fatalf("unexpected path %q for rotate", c.Key.Path)
		}
	}
	assert.Equal(t, 4, quatKeys, "quaternion bones expose w,x,y,z")
	assert.Equal(t, 3, eulerKeys, "euler bones expose x,y,z")
}

func TestDetect_OnlyActiveKindChannels(t *testing.T) {
	bone := eulerBone("arm")
	bone.loc = [3]float64{5, 5, 5}
	bone.rot = []float64{1, 1, 1}
	rig := fakeRig{bone}

	changes := Detect(KindScale, rig, mapHistory{}, 0.0001)

	for _, c := range changes {
		assert.Equal(t, PathScale, c.Key.Path)
	}
	assert.Len(t, changes, 3)
}

func TestDetect_KindNoneAndNilRig(t *testing.T) {
	rig := fakeRig{eulerBone("arm")}

	assert.Nil(t, Detect(KindNone, rig, mapHistory{}, 0.0001))
	assert.Nil(t, Detect(KindTranslate, nil, mapHistory{}, 0.0001))
}

func TestDetect_IsPure(t *testing.T) {
	bone := eulerBone("arm")
	bone.scl = [3]float64{2, 2, 2}
	rig := fakeRig{bone}
	history := mapHistory{
		{Bone: "arm", Path: PathScale, Index: 0}: 1,
		{Bone: "arm", Path: PathScale, Index: 1}: 1,
		{Bone: "arm", Path: PathScale, Index: 2}: 1,
	}

	first := Detect(KindScale, rig, history, 0.5)
	second := Detect(KindScale, rig, history, 0.5)

	// Detection never updates last-value memory; writing does. Until a write
	// happens the same drift keeps being reported.
	assert.Equal(t, first, second)
	assert.Len(t, second, 3)
}
