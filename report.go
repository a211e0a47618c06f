package keygrip

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/teranos/keygrip/outtake"
)

//go:embed html_templates/take_report.html
var takeReportTemplate string

// TakeReport is the complete, human-reviewable record of one take.
type TakeReport struct {
	TakeName  string           `json:"take_name"`
	Timestamp string           `json:"timestamp"`
	Duration  time.Duration    `json:"duration"`
	Clean     bool             `json:"clean"`
	Channels  []ChannelSummary `json:"channels"`
	Outtakes  []string         `json:"outtakes"`
	Plots     []PlotEntry      `json:"plots"`
}

// ChannelSummary summarizes one channel's recorded samples.
type ChannelSummary struct {
	Bone      string  `json:"bone"`
	Path      string  `json:"path"`
	Index     int     `json:"index"`
	Keyframes int     `json:"keyframes"`
	LastValue float64 `json:"last_value"`
}

// PlotEntry is one embedded curve snapshot.
type PlotEntry struct {
	Label   string       `json:"label"`
	DataURL template.URL `json:"data_url"` // Base64 data URL for inline embedding
}

// takeMetadata is the structured block embedded in report HTML so the
// dashboard can index reports without scraping markup.
type takeMetadata struct {
	TakeName      string `json:"takeName"`
	Duration      string `json:"duration"`
	ChannelCount  int    `json:"channelCount"`
	KeyframeCount int    `json:"keyframeCount"`
	Timestamp     string `json:"timestamp"`
	Clean         bool   `json:"clean"`
	ReportType    string `json:"reportType"`
}

// ReportGenerator writes HTML take reports with inline curve snapshots.
type ReportGenerator struct {
	outputDir     string
	plotter       *CurvePlot
	templateCache map[string]*template.Template
}

// NewReportGenerator creates a report generator writing under outputDir.
func NewReportGenerator(outputDir string) *ReportGenerator {
	return &ReportGenerator{
		outputDir:     outputDir,
		plotter:       NewCurvePlot(DefaultPlotConfig()),
		templateCache: make(map[string]*template.Template),
	}
}

// WithPlotConfig overrides the curve snapshot appearance.
func (g *ReportGenerator) WithPlotConfig(config PlotConfig) *ReportGenerator {
	config.OutputDir = "" // plots are embedded, never written standalone
	g.plotter = NewCurvePlot(config)
	return g
}

// BuildReport assembles a TakeReport from a finished take and its outtake
// reel, rendering one curve snapshot per recorded channel.
func (g *ReportGenerator) BuildReport(name string, take *Take, reel *outtake.Reel) TakeReport {
	report := TakeReport{
		TakeName:  name,
		Timestamp: take.Started.Format("20060102_150405"),
		Duration:  take.Duration(),
		Clean:     reel == nil || reel.Clean(),
	}

	for _, key := range take.ChannelKeys() {
		samples := take.Channels[key]
		summary := ChannelSummary{
			Bone:      key.Bone,
			Path:      string(key.Path),
			Index:     key.Index,
			Keyframes: len(samples),
		}
		if len(samples) > 0 {
			summary.LastValue = samples[len(samples)-1].Value
		}
		report.Channels = append(report.Channels, summary)

		label := fmt.Sprintf("%s.%s[%d]", key.Bone, key.Path, key.Index)
		dataURL, err := g.plotDataURL(key, samples)
		if err != nil {
			if reel != nil {
				reel.Record(outtake.NewSkip("render", "curve snapshot failed", outtake.Context{
					"channel": label,
					"error":   err.Error(),
				}))
			}
			continue
		}
		report.Plots = append(report.Plots, PlotEntry{Label: label, DataURL: dataURL})
	}

	if reel != nil {
		for _, o := range reel.Flubs() {
			report.Outtakes = append(report.Outtakes, o.DetailedString())
		}
		for _, o := range reel.Skips() {
			report.Outtakes = append(report.Outtakes, o.DetailedString())
		}
	}

	return report
}

// GenerateReport writes the take report as index.html under a timestamped
// directory, the layout the dashboard scanner expects.
func (g *ReportGenerator) GenerateReport(report TakeReport) error {
	dir := filepath.Join(g.outputDir, report.TakeName, report.Timestamp)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	reportPath := filepath.Join(dir, "index.html")
	file, err := os.Create(reportPath)
	if err != nil {
		return err
	}
	defer file.Close()

	keyframes := 0
	for _, ch := range report.Channels {
		keyframes += ch.Keyframes
	}

	data := struct {
		TakeReport
		Metadata takeMetadata
	}{
		TakeReport: report,
		Metadata: takeMetadata{
			TakeName:      report.TakeName,
			Duration:      report.Duration.String(),
			ChannelCount:  len(report.Channels),
			KeyframeCount: keyframes,
			Timestamp:     report.Timestamp,
			Clean:         report.Clean,
			ReportType:    "take",
		},
	}

	return g.getMainTemplate().Execute(file, data)
}

// getMainTemplate returns the HTML template for take reports.
func (g *ReportGenerator) getMainTemplate() *template.Template {
	if tmpl, exists := g.templateCache["take"]; exists {
		return tmpl
	}

	tmpl := template.Must(template.New("take").Parse(takeReportTemplate))
	g.templateCache["take"] = tmpl
	return tmpl
}

// plotDataURL renders one channel's curve and encodes it as an inline PNG
// data URL, so reports stay single-file and portable.
func (g *ReportGenerator) plotDataURL(key ChannelKey, frames []Keyframe) (template.URL, error) {
	img := g.plotter.Plot(key, frames)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode curve snapshot: %w", err)
	}

	dataURL := fmt.Sprintf("data:image/png;base64,%s",
		base64.StdEncoding.EncodeToString(buf.Bytes()))
	return template.URL(dataURL), nil
}
