package view

import (
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/format"
	"github.com/raykavin/chainpulse/pkg/scale"
	"github.com/samber/lo"
)

const (
	dimmedOpacity = 0.35
	dimmedScale   = 0.8
)

// Config is everything a renderer needs to draw one state of the chart
type Config struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Mode     DisplayMode   `json:"mode"`
	Legend   []LegendEntry `json:"legend"`
	Lines    []Line        `json:"lines"`
	XAxis    XAxis         `json:"x_axis"`
	YAxis    YAxis         `json:"y_axis"`
	Ladders  []Ladder      `json:"ladders"`
	Margin   Margin        `json:"margin"`
	Overlay  Overlay       `json:"overlay"`
}

// LegendEntry is one clickable legend item
type LegendEntry struct {
	Metric  core.MetricID `json:"metric"`
	Label   string        `json:"label"`
	Color   string        `json:"color"`
	Active  bool          `json:"active"`
	Opacity float64       `json:"opacity"`
	Scale   float64       `json:"scale"`
}

// Line is a drawn series
type Line struct {
	Metric core.MetricID `json:"metric"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
	Points []XY          `json:"points"`
}

// XY is a point in chart coordinates. Raw is kept for hover labels.
type XY struct {
	Time time.Time `json:"time"`
	Y    float64   `json:"y"`
	Raw  float64   `json:"raw"`
}

// XAxis is the time domain of the chart
type XAxis struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// YAxis is the native left axis
type YAxis struct {
	Min   float64      `json:"min"`
	Max   float64      `json:"max"`
	Ticks []scale.Tick `json:"ticks"`
}

// Ladder is a manually drawn right-side tick column for a secondary metric
type Ladder struct {
	Metric core.MetricID `json:"metric"`
	Color  string        `json:"color"`
	Offset float64       `json:"offset"`
	Active bool          `json:"active"`
	Ticks  []scale.Tick  `json:"ticks"`
}

// Margin is the plot padding in pixels
type Margin struct {
	Top    float64 `json:"top" mapstructure:"top"`
	Right  float64 `json:"right" mapstructure:"right"`
	Bottom float64 `json:"bottom" mapstructure:"bottom"`
	Left   float64 `json:"left" mapstructure:"left"`
}

// Overlay masks the plot edge. Normalized mode fades the right edge, raw mode
// leaves room for the ladders instead.
type Overlay struct {
	Fade      bool    `json:"fade"`
	FadeWidth float64 `json:"fade_width"`
}

// BuildConfig derives the render configuration of a state. It has no side
// effects; an empty dataset or an empty visibility set yields a config
// without lines.
func BuildConfig(ds *core.Dataset, state State, layout Layout) Config {
	if ds == nil {
		ds = &core.Dataset{}
	}

	cfg := Config{
		Title:    layout.Title,
		Subtitle: layout.Subtitle,
		Mode:     state.Mode,
		Legend:   legend(state.Visibility),
		Lines:    make([]Line, 0, state.Visibility.Len()),
		Ladders:  make([]Ladder, 0),
		XAxis:    XAxis{Start: ds.Start(), End: ds.End()},
		Margin:   layout.BaseMargin,
	}

	var (
		ticks = layout.tickCount()
		axes  = layout.RawAxes(ds)
	)

	value := func(_ core.MetricID, p core.Point) float64 {
		return p.Normalized
	}

	if state.Mode.Normalized() {
		unit := scale.Axis{Domain: scale.Interval{Min: 0, Max: 1}, Range: scale.Interval{Min: 0, Max: 1}}
		cfg.YAxis = YAxis{Min: 0, Max: 1, Ticks: unit.Ticks(ticks, format.Ratio)}
		cfg.Overlay = Overlay{Fade: true, FadeWidth: layout.FadeWidth}
	} else {
		primary := core.Primary().ID
		cfg.YAxis = YAxis{
			Min:   layout.LeftRange.Min,
			Max:   layout.LeftRange.Max,
			Ticks: axes[primary].Ticks(ticks, format.For(primary)),
		}
		cfg.Ladders = ladders(axes, state.Visibility, ticks, layout.LadderOffset)
		if n := len(cfg.Ladders); n > 0 {
			cfg.Margin.Right += cfg.Ladders[n-1].Offset + layout.LadderWidth
		}
		value = func(id core.MetricID, p core.Point) float64 {
			return axes[id].Scale(p.Raw)
		}
	}

	for _, series := range ds.Series {
		if !state.Visibility.Has(series.Metric.ID) || series.Len() == 0 {
			continue
		}

		cfg.Lines = append(cfg.Lines, Line{
			Metric: series.Metric.ID,
			Label:  series.Metric.Label,
			Color:  series.Metric.Color,
			Points: lo.Map(series.Points, func(p core.Point, _ int) XY {
				return XY{Time: p.Time, Y: value(series.Metric.ID, p), Raw: p.Raw}
			}),
		})
	}

	return cfg
}

func legend(visibility VisibilitySet) []LegendEntry {
	return lo.Map(core.Metrics(), func(m core.Metric, _ int) LegendEntry {
		entry := LegendEntry{
			Metric:  m.ID,
			Label:   m.Label,
			Color:   m.Color,
			Active:  visibility.Has(m.ID),
			Opacity: 1,
			Scale:   1,
		}
		if !entry.Active {
			entry.Opacity, entry.Scale = dimmedOpacity, dimmedScale
		}
		return entry
	})
}

func ladders(axes map[core.MetricID]scale.Axis, visibility VisibilitySet, ticks int, offset float64) []Ladder {
	secondary := lo.Filter(core.Metrics(), func(m core.Metric, _ int) bool {
		return !m.ID.IsPrimary()
	})

	return lo.Map(secondary, func(m core.Metric, i int) Ladder {
		return Ladder{
			Metric: m.ID,
			Color:  m.Color,
			Offset: float64(i) * offset,
			Active: visibility.Has(m.ID),
			Ticks:  axes[m.ID].Ticks(ticks, format.For(m.ID)),
		}
	})
}
