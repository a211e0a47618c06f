package keygrip

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_ClampRanges(t *testing.T) {
	cases := []struct {
		name string
		in   Settings
		want Settings
	}{
		{"zero falls back to defaults", Settings{}, Settings{Interval: 0.1, Threshold: 0.0001}},
		{"below range", Settings{Interval: 0.001, Threshold: 1e-9}, Settings{Interval: 0.01, Threshold: 0.000001}},
		{"above range", Settings{Interval: 5, Threshold: 7}, Settings{Interval: 1.0, Threshold: 1.0}},
		{"in range untouched", Settings{Interval: 0.25, Threshold: 0.01}, Settings{Interval: 0.25, Threshold: 0.01}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Clamp())
		})
	}
}

func TestSettings_TickInterval(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, DefaultSettings().TickInterval())
	assert.Equal(t, 50*time.Millisecond, Settings{Interval: 0.05}.TickInterval())
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygrip.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
interval = 0.05
threshold = 0.01
`), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Settings{Interval: 0.05, Threshold: 0.01}, s)
}

func TestLoadSettings_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygrip.toml")
	require.NoError(t, os.WriteFile(path, []byte(`interval = 0.5`), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, s.Interval)
	assert.Equal(t, DefaultThreshold, s.Threshold)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_OutOfRangeValuesAreClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygrip.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
interval = 99.0
threshold = -3.0
`), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, MaxInterval, s.Interval)
	assert.Equal(t, MinThreshold, s.Threshold)
}
