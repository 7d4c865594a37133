// Package report hands the pipeline's output tables to the presentation
// layer as JSON files. Writes are atomic (temp file plus rename) so a
// crashed run never leaves a half-written table behind; a manifest ties the
// files of one run together.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/routemind/routemind/internal/config"
	"github.com/routemind/routemind/internal/pipeline"
)

// Table file names consumed by the presentation layer.
const (
	RankingFile      = "destination_ranking.json"
	SegmentationFile = "segmentation.json"
	ForecastsFile    = "forecasts.json"
	WindowFile       = "forecast_window.json"
	ManifestFile     = "manifest.json"
)

const (
	filePermissions os.FileMode = 0o644
	dirPermissions  os.FileMode = 0o755
)

// Manifest describes one run's output set. NoDataForPeriod marks a
// legitimately empty near-term window, which the presentation layer renders
// as "no data for this period" rather than an error.
type Manifest struct {
	RunID           string         `json:"run_id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Today           string         `json:"today"`
	WindowStart     string         `json:"window_start"`
	WindowEnd       string         `json:"window_end"`
	TopDestinations int            `json:"top_destinations"`
	Rows            map[string]int `json:"rows"`
	NoDataForPeriod bool           `json:"no_data_for_period"`
}

// Writer persists one run's tables to an output directory
type Writer struct {
	dir             string
	topDestinations int
}

// NewWriter creates a report writer for the given output directory.
// topDestinations is recorded in the manifest as the presentation layer's
// display cut for the ranking chart.
func NewWriter(dir string, topDestinations int) *Writer {
	return &Writer{dir: dir, topDestinations: topDestinations}
}

// Write persists the four output tables and the manifest. Files land only
// on success of their own write; the manifest is written last so its
// presence marks a complete set.
func (w *Writer) Write(result *pipeline.Result) error {
	if err := os.MkdirAll(w.dir, dirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tables := []struct {
		name string
		data interface{}
	}{
		{RankingFile, result.Ranking},
		{SegmentationFile, result.Segmentation.Rows()},
		{ForecastsFile, result.Forecasts},
		{WindowFile, result.Window},
	}
	for _, table := range tables {
		if err := w.writeJSON(table.name, table.data); err != nil {
			return err
		}
	}

	manifest := Manifest{
		RunID:           result.RunID,
		GeneratedAt:     result.GeneratedAt,
		Today:           result.Today.Format(config.DateLayout),
		WindowStart:     result.WindowStart.Format(config.DateLayout),
		WindowEnd:       result.WindowStart.AddDate(0, 0, result.WindowDays-1).Format(config.DateLayout),
		TopDestinations: w.topDestinations,
		Rows: map[string]int{
			RankingFile:      len(result.Ranking),
			SegmentationFile: 4,
			ForecastsFile:    len(result.Forecasts),
			WindowFile:       len(result.Window),
		},
		NoDataForPeriod: len(result.Window) == 0,
	}
	return w.writeJSON(ManifestFile, manifest)
}

// writeJSON marshals data and writes it atomically under the output dir.
func (w *Writer) writeJSON(name string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, filePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename %s: %w", name, err)
	}

	return nil
}
