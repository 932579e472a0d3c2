package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raykavin/chainpulse"
	"github.com/raykavin/chainpulse/internal/config"
	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/dataset"
	"github.com/raykavin/chainpulse/pkg/export"
	"github.com/raykavin/chainpulse/pkg/logger/zerolog"
	"github.com/raykavin/chainpulse/pkg/metric"
	"github.com/raykavin/chainpulse/pkg/plot"
	"github.com/raykavin/chainpulse/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command line flags
var (
	configPath string

	// Summary command flags
	histogramOf string
	seed        int64

	// Export command flags
	outputDir string
	width     int
	height    int
)

func main() {
	v := config.New()

	rootCmd := &cobra.Command{
		Use:          "chainpulse",
		Short:        "Compare ATOM price with on-chain activity",
		Version:      "1.0.0",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (e.g. ./chainpulse.yaml)")
	rootCmd.PersistentFlags().StringP("data", "d", "", "Dataset path or URL (e.g. ./data/atom_metrics.csv)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntP("port", "p", 0, "HTTP port of the chart server")

	bindFlag(v, "data.source", rootCmd, "data")
	bindFlag(v, "log.level", rootCmd, "log-level")
	bindFlag(v, "server.port", rootCmd, "port")

	rootCmd.AddCommand(
		buildServeCmd(v),
		buildSummaryCmd(v),
		buildExportCmd(v),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bindFlag lets an explicitly set flag win over file and environment values
func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

func buildServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the chart server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v)
		},
	}
}

func buildSummaryCmd(v *viper.Viper) *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print statistics, correlations and a histogram of the dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd.Context(), v)
		},
	}

	summaryCmd.Flags().StringVar(&histogramOf, "histogram", string(core.MetricPrice), "Metric to plot as histogram")
	summaryCmd.Flags().Int64Var(&seed, "seed", 1, "Bootstrap random seed")

	return summaryCmd
}

func buildExportCmd(v *viper.Viper) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Render a PNG snapshot of every view state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), v)
		},
	}

	exportCmd.Flags().StringVarP(&outputDir, "dir", "o", "", "Output directory (e.g. ./out)")
	exportCmd.Flags().IntVar(&width, "width", 1280, "Snapshot width in pixels")
	exportCmd.Flags().IntVar(&height, "height", 640, "Snapshot height in pixels")
	if err := exportCmd.MarkFlagRequired("dir"); err != nil {
		panic(err)
	}

	return exportCmd
}

// setup reads the configuration and replaces the default logger
func setup(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, err
	}

	log, err := zerolog.New(cfg.LoggerOptions())
	if err != nil {
		return nil, err
	}
	chainpulse.DefaultLog = log

	return cfg, nil
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := setup(v)
	if err != nil {
		return err
	}
	log := chainpulse.DefaultLog

	ttl, _ := cfg.CacheTTL()
	cache, err := storage.FromMemory(ttl)
	if err != nil {
		return err
	}
	defer cache.Close()

	options := []plot.Option{
		plot.WithPort(cfg.Server.Port),
		plot.WithLayout(cfg.Layout()),
		plot.WithSnapshotCache(cache),
	}
	if cfg.Server.Debug {
		options = append(options, plot.WithDebug())
	}

	chart, err := plot.NewChart(log, options...)
	if err != nil {
		return err
	}

	loader := dataset.NewLoader(log, cfg.LoaderOptions()...)
	loaded := chart.Load(ctx, loader, cfg.Data.Source)

	go func() {
		start := time.Now()
		<-loaded
		ds, _ := chart.Dataset()
		log.WithFields(map[string]any{
			"source":  cfg.Data.Source,
			"dates":   ds.Len(),
			"elapsed": time.Since(start).String(),
		}).Info("Dataset ready")
	}()

	return plot.NewChartServer(chart, plot.NewStandardHTTPServer(), log).Start(ctx)
}

func runSummary(ctx context.Context, v *viper.Viper) error {
	cfg, err := setup(v)
	if err != nil {
		return err
	}

	id := core.MetricID(histogramOf)
	if !id.Valid() {
		return fmt.Errorf("--histogram: %w: %q", core.ErrUnknownMetric, histogramOf)
	}

	ds, err := dataset.NewLoader(chainpulse.DefaultLog, cfg.LoaderOptions()...).Load(ctx, cfg.Data.Source)
	if err != nil {
		return err
	}

	return metric.Fprint(os.Stdout, ds, metric.Summarize(ds, seed), id)
}

func runExport(ctx context.Context, v *viper.Viper) error {
	cfg, err := setup(v)
	if err != nil {
		return err
	}
	log := chainpulse.DefaultLog

	ds, err := dataset.NewLoader(log, cfg.LoaderOptions()...).Load(ctx, cfg.Data.Source)
	if err != nil {
		return err
	}

	written, err := export.NewExporter(log,
		export.WithLayout(cfg.Layout()),
		export.WithSize(width, height),
	).Export(ctx, ds, outputDir)
	if err != nil {
		return err
	}

	log.Infof("Wrote %d files to %s", len(written), outputDir)
	return nil
}
