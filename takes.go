package keygrip

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Take is the recorded outcome of one enable/disable cycle: every channel
// that received keyframes and the samples that were written to it, in order.
// The recorder keeps the take alongside the session so a finished recording
// can be reported on or compared against a previous one.
type Take struct {
	Started  time.Time
	Ended    time.Time
	Channels map[ChannelKey][]Keyframe
}

func newTake(started time.Time) *Take {
	return &Take{
		Started:  started,
		Channels: make(map[ChannelKey][]Keyframe),
	}
}

// record notes one written keyframe. A second write on the same frame
// overwrites the earlier sample, matching what the curve itself does.
func (t *Take) record(key ChannelKey, kf Keyframe) {
	samples := t.Channels[key]
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].Frame == kf.Frame {
			samples[i] = kf
			return
		}
	}
	t.Channels[key] = append(samples, kf)
}

// ChannelKeys returns the recorded channels in a stable order.
func (t *Take) ChannelKeys() []ChannelKey {
	keys := make([]ChannelKey, 0, len(t.Channels))
	for key := range t.Channels {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Bone != b.Bone {
			return a.Bone < b.Bone
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Index < b.Index
	})
	return keys
}

// KeyframeCount returns the total number of samples across all channels.
func (t *Take) KeyframeCount() int {
	total := 0
	for _, samples := range t.Channels {
		total += len(samples)
	}
	return total
}

// Duration returns how long the take ran, or how long it has been running if
// it has not ended yet.
func (t *Take) Duration() time.Duration {
	if t.Ended.IsZero() {
		return time.Since(t.Started)
	}
	return t.Ended.Sub(t.Started)
}

// ScriptSupervisor checks continuity between two recorded takes, the way a
// script supervisor checks continuity between shots. It is intended for
// regression-testing recording setups: re-run the same gesture and confirm
// the curves came out the same within tolerance.
type ScriptSupervisor struct {
	tolerance float64 // Max per-sample value drift before a sample counts as different
}

// NewScriptSupervisor creates a take-consistency validator.
func NewScriptSupervisor(tolerance float64) *ScriptSupervisor {
	return &ScriptSupervisor{tolerance: tolerance}
}

// ValidateConsistency compares a current take against a baseline take.
//
// The takes must cover the same channel set; within each channel, samples are
// matched by frame and their values compared against the tolerance. The
// returned error describes the first channel that drifted and by how much.
func (ss *ScriptSupervisor) ValidateConsistency(baseline, current *Take) error {
	if len(baseline.Channels) != len(current.Channels) {
		return fmt.Errorf("take drift: baseline has %d channels, current has %d",
			len(baseline.Channels), len(current.Channels))
	}

	for _, key := range baseline.ChannelKeys() {
		currentSamples, ok := current.Channels[key]
		if !ok {
			return fmt.Errorf("take drift: channel %s.%s[%d] missing from current take",
				key.Bone, key.Path, key.Index)
		}

		drift := ss.channelDrift(baseline.Channels[key], currentSamples)
		if drift > 0 {
			return fmt.Errorf("take drift detected on %s.%s[%d]: %.2f%% of samples differ (tolerance: %g)",
				key.Bone, key.Path, key.Index, drift*100, ss.tolerance)
		}
	}

	return nil
}

// channelDrift returns the fraction of samples that differ between two
// recordings of the same channel. Mismatched sample counts count as total
// drift.
func (ss *ScriptSupervisor) channelDrift(baseline, current []Keyframe) float64 {
	if len(baseline) != len(current) {
		return 1.0
	}
	if len(baseline) == 0 {
		return 0
	}

	byFrame := make(map[int]float64, len(current))
	for _, kf := range current {
		byFrame[kf.Frame] = kf.Value
	}

	different := 0
	for _, kf := range baseline {
		value, ok := byFrame[kf.Frame]
		if !ok || math.Abs(value-kf.Value) > ss.tolerance {
			different++
		}
	}

	return float64(different) / float64(len(baseline))
}
