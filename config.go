package keygrip

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Declared ranges for the two user-tunable values. Out-of-range inputs are
// clamped at this boundary and never reach the sample loop.
const (
	DefaultInterval = 0.1
	MinInterval     = 0.01
	MaxInterval     = 1.0

	DefaultThreshold = 0.0001
	MinThreshold     = 0.000001
	MaxThreshold     = 1.0
)

// Settings holds the recorder's two numeric configuration values.
//
// Interval is the sample period in seconds; Threshold is the minimum change
// in a channel value that earns a new keyframe. The interval is fixed when
// the tick source is registered on Enable, while the threshold is re-read on
// every tick so adjusting it mid-gesture takes effect immediately.
type Settings struct {
	Interval  float64 `toml:"interval"`
	Threshold float64 `toml:"threshold"`
}

// DefaultSettings returns the recorder's out-of-the-box tuning: a 0.1s sample
// period and a 0.0001 change threshold.
func DefaultSettings() Settings {
	return Settings{
		Interval:  DefaultInterval,
		Threshold: DefaultThreshold,
	}
}

// Clamp forces both values into their declared ranges. A zero value reads as
// "unset" and falls back to the default rather than the range minimum.
func (s Settings) Clamp() Settings {
	if s.Interval == 0 {
		s.Interval = DefaultInterval
	}
	if s.Threshold == 0 {
		s.Threshold = DefaultThreshold
	}

	if s.Interval < MinInterval {
		s.Interval = MinInterval
	} else if s.Interval > MaxInterval {
		s.Interval = MaxInterval
	}

	if s.Threshold < MinThreshold {
		s.Threshold = MinThreshold
	} else if s.Threshold > MaxThreshold {
		s.Threshold = MaxThreshold
	}

	return s
}

// TickInterval returns the sample period as a duration.
func (s Settings) TickInterval() time.Duration {
	return time.Duration(s.Interval * float64(time.Second))
}

// LoadSettings reads settings from a TOML file, filling unset values with
// defaults and clamping the rest into range.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to load settings %s: %w", path, err)
	}
	return s.Clamp(), nil
}
