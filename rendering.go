package keygrip

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PlotConfig defines the visual parameters for curve snapshots.
type PlotConfig struct {
	Width      int        // Image width in pixels
	Height     int        // Image height in pixels
	Background color.RGBA // Background color
	Foreground color.RGBA // Curve and label color
	Accent     color.RGBA // Marker color for auto-clamped keyframes
	OutputDir  string     // Directory to save snapshots
}

// DefaultPlotConfig returns defaults sized for a report thumbnail.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Width:      640,
		Height:     240,
		Background: color.RGBA{20, 20, 24, 255},
		Foreground: color.RGBA{220, 220, 220, 255},
		Accent:     color.RGBA{255, 170, 40, 255},
	}
}

// CurvePlot renders a channel's keyframes to a PNG snapshot.
//
// A headless recorder has no curve editor to tag for redraw, so the plot is
// the reviewable stand-in: every keyframe is marked (auto-clamped ones in the
// accent color), consecutive keyframes are joined with straight segments, and
// the channel key is printed as a label.
type CurvePlot struct {
	config PlotConfig
	font   font.Face
}

// NewCurvePlot creates a plotter with the given configuration.
func NewCurvePlot(config PlotConfig) *CurvePlot {
	if config.OutputDir != "" {
		os.MkdirAll(config.OutputDir, 0755)
	}

	return &CurvePlot{
		config: config,
		font:   basicfont.Face7x13,
	}
}

// Plot renders the keyframes of one channel into an image.
func (p *CurvePlot) Plot(key ChannelKey, frames []Keyframe) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.config.Width, p.config.Height))

	for y := 0; y < p.config.Height; y++ {
		for x := 0; x < p.config.Width; x++ {
			img.Set(x, y, p.config.Background)
		}
	}

	p.drawLabel(img, fmt.Sprintf("%s.%s[%d]  %d keys", key.Bone, key.Path, key.Index, len(frames)))

	if len(frames) == 0 {
		return img
	}

	xs, ys := p.project(frames)
	for i := 1; i < len(frames); i++ {
		p.drawSegment(img, xs[i-1], ys[i-1], xs[i], ys[i])
	}
	for i, kf := range frames {
		markerColor := p.config.Foreground
		if kf.HandleLeft == HandleAutoClamped && kf.HandleRight == HandleAutoClamped {
			markerColor = p.config.Accent
		}
		p.drawMarker(img, xs[i], ys[i], markerColor)
	}

	return img
}

// Capture renders the channel and saves it as a PNG under the output
// directory.
func (p *CurvePlot) Capture(filename string, key ChannelKey, frames []Keyframe) error {
	img := p.Plot(key, frames)

	path := filename
	if p.config.OutputDir != "" {
		path = p.config.OutputDir + "/" + filename
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// project maps frames to pixel coordinates, padding the value range so a flat
// curve still draws mid-plot instead of on an edge.
func (p *CurvePlot) project(frames []Keyframe) (xs, ys []int) {
	const margin = 12

	minFrame, maxFrame := frames[0].Frame, frames[len(frames)-1].Frame
	minVal, maxVal := frames[0].Value, frames[0].Value
	for _, kf := range frames {
		if kf.Value < minVal {
			minVal = kf.Value
		}
		if kf.Value > maxVal {
			maxVal = kf.Value
		}
	}
	frameSpan := float64(maxFrame - minFrame)
	if frameSpan == 0 {
		frameSpan = 1
	}
	valueSpan := maxVal - minVal
	if valueSpan == 0 {
		valueSpan = 1
		minVal -= 0.5
	}

	plotW := float64(p.config.Width - 2*margin)
	plotH := float64(p.config.Height - 2*margin)

	xs = make([]int, len(frames))
	ys = make([]int, len(frames))
	for i, kf := range frames {
		xs[i] = margin + int(float64(kf.Frame-minFrame)/frameSpan*plotW)
		ys[i] = p.config.Height - margin - int((kf.Value-minVal)/valueSpan*plotH)
	}
	return xs, ys
}

// drawSegment draws a straight line between two keyframe markers.
func (p *CurvePlot) drawSegment(img *image.RGBA, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, p.config.Foreground)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawMarker draws a filled square centered on a keyframe.
func (p *CurvePlot) drawMarker(img *image.RGBA, x, y int, c color.RGBA) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			img.Set(x+dx, y+dy, c)
		}
	}
}

// drawLabel prints the channel label in the top-left corner.
func (p *CurvePlot) drawLabel(img *image.RGBA, label string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(p.config.Foreground),
		Face: p.font,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(4 << 6),
			Y: fixed.Int26_6(14 << 6),
		},
	}
	drawer.DrawString(label)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
