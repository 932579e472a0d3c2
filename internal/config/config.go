// Package config handles application configuration management using Viper
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/dataset"
	"github.com/raykavin/chainpulse/pkg/logger/zerolog"
	"github.com/raykavin/chainpulse/pkg/scale"
	"github.com/raykavin/chainpulse/pkg/view"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// EnvPrefix prefixes every environment override, e.g. CHAINPULSE_SERVER_PORT
const EnvPrefix = "CHAINPULSE"

// Constants for configuration
const (
	DefaultDataSource = "./data/atom_metrics.csv"
	DefaultPort       = 8080
)

// Config holds the application configuration
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Server ServerConfig `mapstructure:"server"`
	Chart  ChartConfig  `mapstructure:"chart"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Log    LogConfig    `mapstructure:"log"`
}

// DataConfig locates and parses the dataset
type DataConfig struct {
	Source  string            `mapstructure:"source"`
	Columns map[string]string `mapstructure:"columns"`
	Timeout string            `mapstructure:"timeout"`
	Retries int               `mapstructure:"retries"`
}

// ServerConfig holds the chart server settings
type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

// ChartConfig overrides the chart geometry
type ChartConfig struct {
	Title        string                       `mapstructure:"title"`
	Subtitle     string                       `mapstructure:"subtitle"`
	LeftRange    scale.Interval               `mapstructure:"left_range"`
	Axes         map[string]view.AxisOverride `mapstructure:"axes"`
	LadderOffset float64                      `mapstructure:"ladder_offset"`
	Ticks        int                          `mapstructure:"ticks"`
}

// CacheConfig controls the snapshot cache
type CacheConfig struct {
	TTL string `mapstructure:"ttl"`
}

// LogConfig mirrors the logger options
type LogConfig struct {
	Level      string `mapstructure:"level"`
	TimeFormat string `mapstructure:"time_format"`
	Color      bool   `mapstructure:"color"`
	JSON       bool   `mapstructure:"json"`
}

// New creates a Viper instance with defaults and environment overrides
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	layout := view.DefaultLayout()
	columns := dataset.DefaultColumns()

	v.SetDefault("data.source", DefaultDataSource)
	v.SetDefault("data.columns.date", columns.Date)
	for _, id := range core.MetricIDs() {
		v.SetDefault("data.columns."+string(id), columns.Raw[id])
	}
	v.SetDefault("data.timeout", "30s")
	v.SetDefault("data.retries", 0)

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.debug", false)

	v.SetDefault("chart.title", layout.Title)
	v.SetDefault("chart.subtitle", layout.Subtitle)
	v.SetDefault("chart.left_range.min", layout.LeftRange.Min)
	v.SetDefault("chart.left_range.max", layout.LeftRange.Max)
	v.SetDefault("chart.ladder_offset", layout.LadderOffset)
	v.SetDefault("chart.ticks", layout.TickCount)

	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.time_format", "2006-01-02 15:04:05")
	v.SetDefault("log.color", true)
	v.SetDefault("log.json", false)
}

// Load reads the optional YAML file at path on top of the defaults and the
// environment
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values Viper cannot type-check
func (c *Config) Validate() error {
	if _, err := c.DataTimeout(); err != nil {
		return err
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Data.Retries < 0 {
		return fmt.Errorf("data.retries must not be negative, got %d", c.Data.Retries)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Chart.LeftRange.Span() <= 0 {
		return fmt.Errorf("chart.left_range must have min < max, got %v", c.Chart.LeftRange)
	}
	for name := range c.Chart.Axes {
		if !core.MetricID(name).Valid() {
			return fmt.Errorf("chart.axes: %w: %q", core.ErrUnknownMetric, name)
		}
	}
	for name := range c.Data.Columns {
		if name != "date" && !core.MetricID(name).Valid() {
			return fmt.Errorf("data.columns: %w: %q", core.ErrUnknownMetric, name)
		}
	}
	return nil
}

// DataTimeout parses data.timeout. Day and week units are accepted.
func (c *Config) DataTimeout() (time.Duration, error) {
	return parseDuration("data.timeout", c.Data.Timeout)
}

// CacheTTL parses cache.ttl. Zero disables expiry.
func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL)
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	d, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// Columns returns the CSV header mapping
func (c *Config) Columns() dataset.Columns {
	columns := dataset.DefaultColumns()
	if name, ok := c.Data.Columns["date"]; ok && name != "" {
		columns.Date = name
	}
	for _, id := range core.MetricIDs() {
		if name, ok := c.Data.Columns[string(id)]; ok && name != "" {
			columns.Raw[id] = name
		}
	}
	return columns
}

// LoaderOptions configures a dataset.Loader
func (c *Config) LoaderOptions() []dataset.Option {
	timeout, _ := c.DataTimeout()
	return []dataset.Option{
		dataset.WithColumns(c.Columns()),
		dataset.WithTimeout(timeout),
		dataset.WithRetries(c.Data.Retries),
	}
}

// Layout applies the chart overrides to the default geometry
func (c *Config) Layout() view.Layout {
	layout := view.DefaultLayout()
	layout.Title = c.Chart.Title
	layout.Subtitle = c.Chart.Subtitle

	if c.Chart.LeftRange.Span() > 0 {
		layout.LeftRange = c.Chart.LeftRange
	}
	if c.Chart.LadderOffset > 0 {
		layout.LadderOffset = c.Chart.LadderOffset
	}
	if c.Chart.Ticks > 0 {
		layout.TickCount = c.Chart.Ticks
	}
	for name, override := range c.Chart.Axes {
		layout.Axes[core.MetricID(name)] = override
	}

	return layout
}

// LoggerOptions converts the log section for the zerolog adapter
func (c *Config) LoggerOptions() zerolog.Options {
	return zerolog.Options{
		Level:      c.Log.Level,
		TimeFormat: c.Log.TimeFormat,
		Colored:    c.Log.Color,
		JSON:       c.Log.JSON,
	}
}
