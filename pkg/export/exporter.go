// Package export writes the dataset and a PNG snapshot of every view state
// to a directory
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/logger"
	"github.com/raykavin/chainpulse/pkg/plot"
	"github.com/raykavin/chainpulse/pkg/view"
	"github.com/schollz/progressbar/v3"
)

// DatasetFile is the name of the CSV written next to the snapshots
const DatasetFile = "dataset.csv"

// Exporter renders snapshots of a dataset
type Exporter struct {
	log      logger.Logger
	layout   view.Layout
	width    int
	height   int
	states   []view.State
	progress io.Writer
}

// Option is a function type for configuring the exporter
type Option func(*Exporter)

// WithLayout sets the chart geometry
func WithLayout(layout view.Layout) Option {
	return func(e *Exporter) {
		e.layout = layout
	}
}

// WithSize sets the snapshot dimensions in pixels
func WithSize(width, height int) Option {
	return func(e *Exporter) {
		e.width = width
		e.height = height
	}
}

// WithStates limits the export to the given states
func WithStates(states ...view.State) Option {
	return func(e *Exporter) {
		e.states = states
	}
}

// WithProgress redirects the progress bar, io.Discard hides it
func WithProgress(w io.Writer) Option {
	return func(e *Exporter) {
		e.progress = w
	}
}

// NewExporter creates an exporter for every view state
func NewExporter(log logger.Logger, options ...Option) *Exporter {
	e := &Exporter{
		log:      log,
		layout:   view.DefaultLayout(),
		width:    1280,
		height:   640,
		states:   view.AllStates(),
		progress: os.Stderr,
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// FileName returns the snapshot file name of state, e.g.
// "raw_price-value.png" or "normalized_none.png"
func FileName(state view.State) string {
	visible := state.Visibility.Members()
	names := make([]string, len(visible))
	for i, id := range visible {
		names[i] = string(id)
	}

	suffix := strings.Join(names, "-")
	if suffix == "" {
		suffix = "none"
	}

	return fmt.Sprintf("%s_%s.png", state.Mode, suffix)
}

// Export writes the dataset CSV and one PNG per state into dir and returns
// the written paths
func (e *Exporter) Export(ctx context.Context, ds *core.Dataset, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	written := make([]string, 0, len(e.states)+1)

	csvPath := filepath.Join(dir, DatasetFile)
	if err := writeDataset(csvPath, ds); err != nil {
		return nil, err
	}
	written = append(written, csvPath)

	e.log.Infof("Rendering %d snapshots of %d dates", len(e.states), ds.Len())

	progressBar := progressbar.NewOptions(len(e.states),
		progressbar.OptionSetWriter(e.progress),
		progressbar.OptionSetDescription("snapshots"),
		progressbar.OptionShowCount(),
	)

	for _, state := range e.states {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		content, err := plot.RenderPNG(view.BuildConfig(ds, state, e.layout), e.width, e.height)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", state.Key(), err)
		}

		path := filepath.Join(dir, FileName(state))
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)

		if err := progressBar.Add(1); err != nil {
			e.log.Warnf("Failed to update progress bar: %s", err.Error())
		}
	}

	if err := progressBar.Close(); err != nil {
		e.log.Warnf("Failed to close progress bar: %s", err.Error())
	}

	e.log.Info("Done!")
	return written, nil
}

func writeDataset(path string, ds *core.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := plot.WriteCSV(file, ds); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
