package keygrip

import "testing"

func benchRig(bones int) fakeRig {
	rig := make(fakeRig, 0, bones)
	for i := 0; i < bones; i++ {
		b := quatBone("bone")
		rig = append(rig, b)
	}
	return rig
}

func BenchmarkClassify(b *testing.B) {
	ev := Event{Key: Key("g"), Action: Press, X: 10, Y: 10}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Classify(ev, testViewport, testBindings)
	}
}

func BenchmarkDetect(b *testing.B) {
	rig := benchRig(32)
	history := mapHistory{}
	// Seed history so the steady-state path (compare, no change) dominates.
	for _, c := range Detect(KindRotate, rig, history, DefaultThreshold) {
		history[c.Key] = c.Value
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Detect(KindRotate, rig, history, DefaultThreshold)
	}
}

func BenchmarkWriterWrite(b *testing.B) {
	key := ChannelKey{Bone: "arm", Path: PathLocation, Index: 0}
	curve := newFakeCurve()
	anim := fakeAnim{key: curve}
	w := NewWriter(anim, newSession(), nil, nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Write(key, i%60, float64(i))
	}
}

func BenchmarkDispatch(b *testing.B) {
	r := NewRecorder(RecorderConfig{Settings: fastSettings})
	r.Enable()
	defer r.Disable()

	ev := Event{Key: Key("z"), Action: Press, X: 1, Y: 1}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Dispatch(ev)
	}
}
