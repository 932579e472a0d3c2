package plot

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/raykavin/chainpulse/pkg/logger"
)

// ChartServer is a wrapper that combines a Chart with an HTTP server
type ChartServer struct {
	chart  *Chart
	server HTTPServer
	log    logger.Logger
}

// NewChartServer creates a new ChartServer
func NewChartServer(chart *Chart, server HTTPServer, log logger.Logger) *ChartServer {
	return &ChartServer{
		chart:  chart,
		server: server,
		log:    log,
	}
}

// Start registers the chart routes and serves until ctx is cancelled
func (cs *ChartServer) Start(ctx context.Context) error {
	cs.chart.RegisterHandlers(cs.server)

	port := cs.chart.Port()
	cs.log.Infof("Chart available at http://localhost:%d", port)
	return cs.server.Start(ctx, port)
}

// RegisterHandlers mounts every chart route on server
func (c *Chart) RegisterHandlers(server HTTPServer) {
	assets, _ := fs.Sub(staticFiles, "assets")

	server.RegisterFileServer("/assets/", http.FS(assets))
	server.RegisterHandler("/assets/chart.js", c.handleScript)
	server.RegisterHandler("/health", c.handleHealth)
	server.RegisterHandler("/data", c.handleData)
	server.RegisterHandler("/tooltip", c.handleTooltip)
	server.RegisterHandler("/export.csv", c.handleExport)
	server.RegisterHandler("/snapshot.png", c.handleSnapshot)
	server.RegisterHandler("/ws", c.sessions.HandleWebSocket)
	server.RegisterHandler("/", c.handleIndex)
}

// Handler returns the chart routes mounted on a fresh mux
func (c *Chart) Handler() http.Handler {
	server := NewStandardHTTPServer()
	c.RegisterHandlers(server)
	return server
}
