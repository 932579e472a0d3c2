package plot

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/dataset"
	"github.com/raykavin/chainpulse/pkg/logger"
	"github.com/raykavin/chainpulse/pkg/storage"
	"github.com/raykavin/chainpulse/pkg/view"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Chart serves the metric comparison chart
type Chart struct {
	sync.RWMutex
	port           int
	debug          bool
	layout         view.Layout
	dataset        *core.Dataset
	loaded         bool
	loadedAt       time.Time
	cache          *storage.SnapshotCache
	snapshotWidth  int
	snapshotHeight int
	scriptContent  string
	indexHTML      *template.Template
	sessions       *SessionManager
	log            logger.Logger
}

// Option defines a function type for configuring a Chart instance
type Option func(*Chart)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(chart *Chart) {
		chart.port = port
	}
}

// WithDebug disables minification of the chart script
func WithDebug() Option {
	return func(chart *Chart) {
		chart.debug = true
	}
}

// WithLayout overrides the chart geometry
func WithLayout(layout view.Layout) Option {
	return func(chart *Chart) {
		chart.layout = layout
	}
}

// WithSnapshotCache caches rendered PNG snapshots
func WithSnapshotCache(cache *storage.SnapshotCache) Option {
	return func(chart *Chart) {
		chart.cache = cache
	}
}

// WithSnapshotSize sets the PNG snapshot dimensions in pixels
func WithSnapshotSize(width, height int) Option {
	return func(chart *Chart) {
		chart.snapshotWidth = width
		chart.snapshotHeight = height
	}
}

// WithDataset marks the chart as loaded with ds
func WithDataset(ds *core.Dataset) Option {
	return func(chart *Chart) {
		chart.dataset = ds
		chart.loaded = true
		chart.loadedAt = time.Now()
	}
}

// NewChart creates a new chart instance with the provided options
func NewChart(log logger.Logger, options ...Option) (*Chart, error) {
	chart := &Chart{
		port:           8080,
		layout:         view.DefaultLayout(),
		dataset:        dataset.Empty(),
		snapshotWidth:  1280,
		snapshotHeight: 640,
		log:            log,
	}

	for _, option := range options {
		option(chart)
	}

	chart.sessions = NewSessionManager(log, chart)

	var err error
	chart.indexHTML, err = template.ParseFS(staticFiles, "assets/chart.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	chartJS, err := staticFiles.ReadFile("assets/chart.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read chart.js: %w", err)
	}

	transpiled := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !chart.debug,
		MinifyIdentifiers: !chart.debug,
		MinifyWhitespace:  !chart.debug,
	})

	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpiled.Errors)
	}

	chart.scriptContent = string(transpiled.Code)

	return chart, nil
}

// Port returns the configured HTTP port
func (c *Chart) Port() int {
	return c.port
}

// Layout returns the chart geometry
func (c *Chart) Layout() view.Layout {
	return c.layout
}

// Dataset returns the loaded dataset and whether loading has finished
func (c *Chart) Dataset() (*core.Dataset, bool) {
	c.RLock()
	defer c.RUnlock()
	return c.dataset, c.loaded
}

// SetDataset publishes a freshly loaded dataset and pushes the new
// configuration to every open session
func (c *Chart) SetDataset(ds *core.Dataset) {
	if ds == nil {
		ds = dataset.Empty()
	}

	c.Lock()
	c.dataset = ds
	c.loaded = true
	c.loadedAt = time.Now()
	c.Unlock()

	c.sessions.Refresh()
}

// Load fetches the dataset in the background. A failed load leaves the chart
// empty.
func (c *Chart) Load(ctx context.Context, loader *dataset.Loader, source string) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		c.SetDataset(loader.LoadOrEmpty(ctx, source))
	}()

	return done
}

// Config derives the render configuration of state. While loading, it is
// built from an empty dataset.
func (c *Chart) Config(state view.State) (view.Config, bool) {
	ds, loaded := c.Dataset()
	return view.BuildConfig(ds, state, c.layout), loaded
}

// Snapshot renders state to PNG, through the cache when one is configured
func (c *Chart) Snapshot(state view.State) ([]byte, error) {
	render := func() ([]byte, error) {
		cfg, _ := c.Config(state)
		return RenderPNG(cfg, c.snapshotWidth, c.snapshotHeight)
	}

	c.RLock()
	loaded, generation := c.loaded, c.loadedAt.UnixNano()
	c.RUnlock()

	if c.cache == nil || !loaded {
		return render()
	}

	return c.cache.GetOrRender(fmt.Sprintf("%d/%s", generation, state.Key()), render)
}
