package view

import (
	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/scale"
)

// AxisOverride pins the domain or visual range of a metric in raw mode. Zero
// intervals fall back to the defaults.
type AxisOverride struct {
	Domain scale.Interval `mapstructure:"domain"`
	Range  scale.Interval `mapstructure:"range"`
}

// Layout holds the static chart geometry
type Layout struct {
	Title        string
	Subtitle     string
	LeftRange    scale.Interval
	Axes         map[core.MetricID]AxisOverride
	TickCount    int
	LadderOffset float64
	LadderWidth  float64
	BaseMargin   Margin
	FadeWidth    float64
}

// DefaultLayout returns the geometry used when nothing is configured
func DefaultLayout() Layout {
	return Layout{
		Title:        "Analyzing the Relationship Between User Activity, Trading Volume, and ATOM Price",
		Subtitle:     "An intuitive view to compare on-chain activity and market reactions in real time",
		LeftRange:    scale.Interval{Min: 2.4, Max: 5.4},
		Axes:         map[core.MetricID]AxisOverride{},
		TickCount:    6,
		LadderOffset: 72,
		LadderWidth:  64,
		BaseMargin:   Margin{Top: 24, Right: 32, Bottom: 40, Left: 64},
		FadeWidth:    48,
	}
}

// RawAxes derives the raw-mode axis of every metric. The primary metric is
// drawn on the left range; secondary metrics use their override range or the
// left range. Domains default to each series' observed extrema.
func (l Layout) RawAxes(ds *core.Dataset) map[core.MetricID]scale.Axis {
	axes := make(map[core.MetricID]scale.Axis, len(core.MetricIDs()))

	for _, id := range core.MetricIDs() {
		override := l.Axes[id]

		axis := scale.Axis{Range: l.LeftRange}
		if !id.IsPrimary() && !override.Range.Zero() {
			axis.Range = override.Range
		}

		if series, ok := ds.SeriesByID(id); ok && series.Len() > 0 {
			axis.Domain = scale.Interval{Min: series.Min, Max: series.Max}
		}
		if !override.Domain.Zero() {
			axis.Domain = override.Domain
		}

		axes[id] = axis
	}

	return axes
}

func (l Layout) tickCount() int {
	if l.TickCount < 2 {
		return 2
	}
	return l.TickCount
}
