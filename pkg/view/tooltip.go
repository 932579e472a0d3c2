package view

import (
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/format"
)

const tooltipDateLayout = "Jan 2, 2006"

// Tooltip is the hover card for one sampled date
type Tooltip struct {
	Time    time.Time      `json:"time"`
	Label   string         `json:"label"`
	Entries []TooltipEntry `json:"entries"`
}

// TooltipEntry is one formatted series value
type TooltipEntry struct {
	Metric core.MetricID `json:"metric"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
	Value  string        `json:"value"`
	Raw    float64       `json:"raw"`
}

// BuildTooltip snaps at to the nearest sampled date and formats every visible
// series that has a sample there. Series without a sample are left out. It
// reports false when the dataset is empty.
func BuildTooltip(ds *core.Dataset, state State, at time.Time) (Tooltip, bool) {
	index := ds.Nearest(at)
	if index < 0 {
		return Tooltip{}, false
	}

	sampled := ds.Times[index]
	tooltip := Tooltip{
		Time:    sampled,
		Label:   sampled.Format(tooltipDateLayout),
		Entries: make([]TooltipEntry, 0, state.Visibility.Len()),
	}

	for _, series := range ds.Series {
		if !state.Visibility.Has(series.Metric.ID) {
			continue
		}

		point, ok := series.At(sampled)
		if !ok {
			continue
		}

		tooltip.Entries = append(tooltip.Entries, TooltipEntry{
			Metric: series.Metric.ID,
			Label:  series.Metric.Label,
			Color:  series.Metric.Color,
			Value:  format.Value(series.Metric.ID, point.Raw),
			Raw:    point.Raw,
		})
	}

	return tooltip, true
}
