package keygrip

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/keygrip/outtake"
)

func sampleTake(t *testing.T) *Take {
	t.Helper()
	take := newTake(time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC))
	take.Ended = take.Started.Add(3 * time.Second)

	loc := ChannelKey{Bone: "arm", Path: PathLocation, Index: 0}
	rot := ChannelKey{Bone: "hips", Path: PathRotationQuaternion, Index: 1}
	for f := 1; f <= 5; f++ {
		take.record(loc, Keyframe{Frame: f, Value: float64(f) * 0.1,
			HandleLeft: HandleAutoClamped, HandleRight: HandleAutoClamped})
	}
	take.record(rot, Keyframe{Frame: 1, Value: 0.7})
	return take
}

func TestBuildReport_SummarizesChannels(t *testing.T) {
	take := sampleTake(t)
	reel := outtake.NewReel("recorder", nil)
	reel.Record(outtake.NewSkip("channel", "arm scale had no curve", nil))

	g := NewReportGenerator(t.TempDir())
	report := g.BuildReport("walk-cycle", take, reel)

	assert.Equal(t, "walk-cycle", report.TakeName)
	assert.Equal(t, "20260314_103000", report.Timestamp)
	assert.True(t, report.Clean)

	require.Len(t, report.Channels, 2)
	assert.Equal(t, "arm", report.Channels[0].Bone)
	assert.Equal(t, 5, report.Channels[0].Keyframes)
	assert.InDelta(t, 0.5, report.Channels[0].LastValue, 1e-9)

	require.Len(t, report.Plots, 2)
	assert.True(t, strings.HasPrefix(string(report.Plots[0].DataURL), "data:image/png;base64,"))

	require.Len(t, report.Outtakes, 1)
	assert.Contains(t, report.Outtakes[0], "arm scale had no curve")
}

func TestGenerateReport_WritesTimestampedIndex(t *testing.T) {
	dir := t.TempDir()
	take := sampleTake(t)

	g := NewReportGenerator(dir)
	report := g.BuildReport("walk-cycle", take, nil)
	require.NoError(t, g.GenerateReport(report))

	path := filepath.Join(dir, "walk-cycle", "20260314_103000", "index.html")
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	html := string(content)
	assert.Contains(t, html, "walk-cycle")
	assert.Contains(t, html, "take-metadata")
	assert.Contains(t, html, `"channelCount": 2`)
	assert.Contains(t, html, `"keyframeCount": 6`)
	assert.Contains(t, html, "data:image/png;base64,")
}

func TestGenerateReport_EscapesHostileNames(t *testing.T) {
	dir := t.TempDir()
	take := newTake(time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC))
	take.Ended = take.Started.Add(time.Second)
	take.record(ChannelKey{Bone: "<script>alert('x')</script>", Path: PathLocation, Index: 0},
		Keyframe{Frame: 1, Value: 1})

	g := NewReportGenerator(dir)
	report := g.BuildReport("take<1>", take, nil)
	require.NoError(t, g.GenerateReport(report))

	content, err := os.ReadFile(filepath.Join(dir, "take<1>", "20260314_110000", "index.html"))
	require.NoError(t, err)

	html := string(content)
	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestGenerateDashboard_IndexesReports(t *testing.T) {
	dir := t.TempDir()
	g := NewReportGenerator(dir)

	take := sampleTake(t)
	require.NoError(t, g.GenerateReport(g.BuildReport("walk-cycle", take, nil)))

	second := newTake(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	second.Ended = second.Started.Add(time.Second)
	second.record(ChannelKey{Bone: "arm", Path: PathScale, Index: 0}, Keyframe{Frame: 1, Value: 1})
	require.NoError(t, g.GenerateReport(g.BuildReport("idle-sway", second, nil)))

	require.NoError(t, GenerateDashboard(dir))

	content, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	html := string(content)
	assert.Contains(t, html, "walk-cycle")
	assert.Contains(t, html, "idle-sway")
}

func TestScanTakeReports_ReadsEmbeddedMetadata(t *testing.T) {
	dir := t.TempDir()
	g := NewReportGenerator(dir)
	require.NoError(t, g.GenerateReport(g.BuildReport("walk-cycle", sampleTake(t), nil)))

	entries, err := scanTakeReports(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "walk-cycle", entries[0].TakeName)
	assert.Equal(t, "20260314_103000", entries[0].Timestamp)
	assert.Equal(t, 2, entries[0].ChannelCount)
	assert.Equal(t, 6, entries[0].KeyframeCount)
	assert.True(t, entries[0].Clean)
}

func TestScanTakeReports_IgnoresNonTimestampedDirs(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "notes", "misc")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "index.html"), []byte("<html></html>"), 0o644))

	entries, err := scanTakeReports(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
