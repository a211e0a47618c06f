package keygrip

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed html_templates/dashboard.html
var dashboardTemplate string

// DashboardEntry represents a single take report on the dashboard.
type DashboardEntry struct {
	TakeName      string    `json:"take_name"`
	Timestamp     string    `json:"timestamp"`
	Clean         bool      `json:"clean"`
	ChannelCount  int       `json:"channel_count"`
	KeyframeCount int       `json:"keyframe_count"`
	Duration      string    `json:"duration"`
	ReportPath    string    `json:"report_path"`
	RelativePath  string    `json:"relative_path"`
	CreatedAt     time.Time `json:"created_at"`
}

// GenerateDashboard creates a central dashboard HTML file indexing every take
// report found under baseDir.
func GenerateDashboard(baseDir string) error {
	entries, err := scanTakeReports(baseDir)
	if err != nil {
		return fmt.Errorf("failed to scan take reports: %w", err)
	}

	dashboardPath := filepath.Join(baseDir, "index.html")
	file, err := os.Create(dashboardPath)
	if err != nil {
		return fmt.Errorf("failed to create dashboard file: %w", err)
	}
	defer file.Close()

	tmpl := template.Must(template.New("dashboard").Parse(dashboardTemplate))

	dashboardData := struct {
		Reports     []DashboardEntry
		GeneratedAt time.Time
	}{
		Reports:     entries,
		GeneratedAt: time.Now(),
	}

	if err := tmpl.Execute(file, dashboardData); err != nil {
		return fmt.Errorf("failed to execute dashboard template: %w", err)
	}

	return nil
}

// scanTakeReports finds all take reports in the base directory.
func scanTakeReports(baseDir string) ([]DashboardEntry, error) {
	var entries []DashboardEntry

	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Take reports live at <take name>/<timestamp>/index.html.
		if info.Name() == "index.html" && path != filepath.Join(baseDir, "index.html") {
			dir := filepath.Dir(path)
			timestamp := filepath.Base(dir)

			if _, err := time.Parse("20060102_150405", timestamp); err == nil {
				takeName := filepath.Base(filepath.Dir(dir))

				entry := DashboardEntry{
					TakeName:     takeName,
					Timestamp:    timestamp,
					ReportPath:   path,
					RelativePath: relativePath(baseDir, path),
					CreatedAt:    info.ModTime(),
				}

				// Structured JSON metadata beats scraping the markup.
				if meta, err := extractReportMetadata(path); err == nil {
					entry.Clean = meta.Clean
					entry.ChannelCount = meta.ChannelCount
					entry.KeyframeCount = meta.KeyframeCount
					entry.Duration = meta.Duration
					entry.TakeName = meta.TakeName
				}

				entries = append(entries, entry)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Sort by creation time (newest first)
	for i := 0; i < len(entries)-1; i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].CreatedAt.After(entries[i].CreatedAt) {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}

	return entries, nil
}

// extractReportMetadata reads the embedded JSON metadata block from a report.
func extractReportMetadata(htmlPath string) (*takeMetadata, error) {
	content, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil, err
	}
	return extractFromJSON(string(content))
}

// extractFromJSON extracts take metadata from the embedded JSON script block.
func extractFromJSON(htmlContent string) (*takeMetadata, error) {
	start := strings.Index(htmlContent, `<script type="application/json" id="take-metadata">`)
	if start == -1 {
		return nil, fmt.Errorf("no JSON metadata found")
	}

	jsonStart := strings.Index(htmlContent[start:], "{")
	if jsonStart == -1 {
		return nil, fmt.Errorf("no JSON opening brace found in metadata")
	}
	start = jsonStart + start

	scriptEnd := strings.Index(htmlContent[start:], "</script>")
	if scriptEnd == -1 {
		return nil, fmt.Errorf("no script closing tag found")
	}
	end := scriptEnd + start

	if end <= start {
		return nil, fmt.Errorf("malformed JSON metadata")
	}

	jsonStr := strings.TrimSpace(htmlContent[start:end])

	var metadata takeMetadata
	if err := json.Unmarshal([]byte(jsonStr), &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse JSON metadata: %w", err)
	}

	return &metadata, nil
}

// relativePath returns a relative path from base to target.
func relativePath(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}
