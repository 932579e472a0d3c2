package view

import (
	"math"
	"testing"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/dataset"
	"github.com/raykavin/chainpulse/pkg/format"
	"github.com/raykavin/chainpulse/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig_Normalized(t *testing.T) {
	layout := DefaultLayout()
	cfg := BuildConfig(testDataset(), InitialState(), layout)

	assert.Equal(t, ModeNormalized, cfg.Mode)
	require.Len(t, cfg.Lines, 3)
	assert.Equal(t, core.MetricPrice, cfg.Lines[0].Metric)

	price := cfg.Lines[0]
	require.Len(t, price.Points, 3)
	assert.Equal(t, []float64{0, 0.5, 1}, []float64{price.Points[0].Y, price.Points[1].Y, price.Points[2].Y})
	assert.Equal(t, 20.0, price.Points[1].Raw)

	assert.Equal(t, 0.0, cfg.YAxis.Min)
	assert.Equal(t, 1.0, cfg.YAxis.Max)
	require.Len(t, cfg.YAxis.Ticks, layout.TickCount)
	assert.Equal(t, "0.0", cfg.YAxis.Ticks[0].Label)
	assert.Equal(t, "1.0", cfg.YAxis.Ticks[layout.TickCount-1].Label)

	assert.Empty(t, cfg.Ladders)
	assert.True(t, cfg.Overlay.Fade)
	assert.Equal(t, layout.BaseMargin, cfg.Margin)
	assert.Equal(t, day(1), cfg.XAxis.Start)
	assert.Equal(t, day(3), cfg.XAxis.End)
}

func TestBuildConfig_Raw(t *testing.T) {
	layout := DefaultLayout()
	cfg := BuildConfig(testDataset(), InitialState().ToggleMode(), layout)

	assert.Equal(t, ModeRaw, cfg.Mode)
	assert.Equal(t, 2.4, cfg.YAxis.Min)
	assert.Equal(t, 5.4, cfg.YAxis.Max)
	assert.Equal(t, "$10.00", cfg.YAxis.Ticks[0].Label)
	assert.Equal(t, "$30.00", cfg.YAxis.Ticks[len(cfg.YAxis.Ticks)-1].Label)

	price := cfg.Lines[0]
	assert.InDelta(t, 2.4, price.Points[0].Y, 1e-12)
	assert.InDelta(t, 3.9, price.Points[1].Y, 1e-12)
	assert.InDelta(t, 5.4, price.Points[2].Y, 1e-12)

	require.Len(t, cfg.Ladders, 2)
	assert.Equal(t, core.MetricActiveAccounts, cfg.Ladders[0].Metric)
	assert.Equal(t, 0.0, cfg.Ladders[0].Offset)
	assert.Equal(t, core.MetricValue, cfg.Ladders[1].Metric)
	assert.Equal(t, layout.LadderOffset, cfg.Ladders[1].Offset)
	assert.Equal(t, "12K", cfg.Ladders[0].Ticks[0].Label)
	assert.Equal(t, "14K", cfg.Ladders[0].Ticks[len(cfg.Ladders[0].Ticks)-1].Label)
	assert.Equal(t, "1.50B", cfg.Ladders[1].Ticks[0].Label)
	assert.Equal(t, "3.50B", cfg.Ladders[1].Ticks[len(cfg.Ladders[1].Ticks)-1].Label)

	assert.False(t, cfg.Overlay.Fade)
	assert.Equal(t, layout.BaseMargin.Right+layout.LadderOffset+layout.LadderWidth, cfg.Margin.Right)
}

func TestBuildConfig_TickLabelsMatchAxis(t *testing.T) {
	ds := testDataset()
	layout := DefaultLayout()
	axes := layout.RawAxes(ds)
	cfg := BuildConfig(ds, InitialState().ToggleMode(), layout)

	check := func(id core.MetricID, ticks []scale.Tick) {
		for _, tick := range ticks {
			assert.Equal(t, format.Value(id, axes[id].Invert(tick.Position)), tick.Label)
		}
	}

	check(core.MetricPrice, cfg.YAxis.Ticks)
	for _, ladder := range cfg.Ladders {
		check(ladder.Metric, ladder.Ticks)
	}
}

func TestBuildConfig_ModeToggleTwiceIsIdentical(t *testing.T) {
	ds := testDataset()
	layout := DefaultLayout()

	for _, state := range AllStates() {
		before := BuildConfig(ds, state, layout)
		after := BuildConfig(ds, state.ToggleMode().ToggleMode(), layout)
		require.Equal(t, before, after, state.Key())
	}
}

func TestBuildConfig_EmptyVisibility(t *testing.T) {
	state := State{Visibility: NewVisibility(), Mode: ModeRaw}
	cfg := BuildConfig(testDataset(), state, DefaultLayout())

	assert.Empty(t, cfg.Lines)
	assert.NotNil(t, cfg.Lines)
	require.Len(t, cfg.Legend, 3)
	for _, entry := range cfg.Legend {
		assert.False(t, entry.Active)
		assert.Equal(t, 0.35, entry.Opacity)
		assert.Equal(t, 0.8, entry.Scale)
	}
	for _, ladder := range cfg.Ladders {
		assert.False(t, ladder.Active)
	}
}

func TestBuildConfig_EmptyDataset(t *testing.T) {
	for _, state := range AllStates() {
		cfg := BuildConfig(dataset.Empty(), state, DefaultLayout())
		assert.Empty(t, cfg.Lines)
		assert.True(t, cfg.XAxis.Start.IsZero())
	}

	cfg := BuildConfig(nil, InitialState(), DefaultLayout())
	assert.Empty(t, cfg.Lines)
}

func TestBuildConfig_SeriesWithoutSamples(t *testing.T) {
	rows := []core.Row{
		row(day(1), 10, 12_000, 1.5e9),
		row(day(2), 20, 12_345, 2.5e9),
	}
	for _, r := range rows {
		delete(r.Values, core.MetricActiveAccounts)
	}
	ds := dataset.Build(rows)

	for _, state := range AllStates() {
		cfg := BuildConfig(ds, state, DefaultLayout())
		for _, line := range cfg.Lines {
			assert.NotEqual(t, core.MetricActiveAccounts, line.Metric, state.Key())
			assert.NotEmpty(t, line.Points, state.Key())
		}
	}

	cfg := BuildConfig(ds, InitialState(), DefaultLayout())
	require.Len(t, cfg.Lines, 2)
	assert.Equal(t, core.MetricPrice, cfg.Lines[0].Metric)
	assert.Equal(t, core.MetricValue, cfg.Lines[1].Metric)
	assert.True(t, cfg.Legend[1].Active)
}

func TestBuildConfig_HiddenSeriesDimsLegend(t *testing.T) {
	cfg := BuildConfig(testDataset(), InitialState().ToggleSeries(core.MetricValue), DefaultLayout())

	require.Len(t, cfg.Lines, 2)
	assert.Equal(t, core.MetricActiveAccounts, cfg.Lines[1].Metric)
	assert.True(t, cfg.Legend[0].Active)
	assert.False(t, cfg.Legend[2].Active)
	assert.Equal(t, 1.0, cfg.Legend[0].Opacity)
}

func TestLayout_RawAxesOverrides(t *testing.T) {
	layout := DefaultLayout()
	layout.Axes[core.MetricValue] = AxisOverride{
		Domain: scale.Interval{Min: 0, Max: 4e9},
		Range:  scale.Interval{Min: 3, Max: 5},
	}
	layout.Axes[core.MetricPrice] = AxisOverride{Range: scale.Interval{Min: 0, Max: 100}}

	axes := layout.RawAxes(testDataset())

	assert.Equal(t, layout.LeftRange, axes[core.MetricPrice].Range)
	assert.Equal(t, scale.Interval{Min: 10, Max: 30}, axes[core.MetricPrice].Domain)
	assert.Equal(t, scale.Interval{Min: 0, Max: 4e9}, axes[core.MetricValue].Domain)
	assert.Equal(t, scale.Interval{Min: 3, Max: 5}, axes[core.MetricValue].Range)
	assert.Equal(t, layout.LeftRange, axes[core.MetricActiveAccounts].Range)
}

func TestBuildConfig_ConstantSeries(t *testing.T) {
	ds := dataset.Build([]core.Row{
		row(day(1), 5, 100, 1e9),
		row(day(2), 5, 100, 1e9),
	})

	for _, mode := range []DisplayMode{ModeNormalized, ModeRaw} {
		cfg := BuildConfig(ds, State{Visibility: AllVisible(), Mode: mode}, DefaultLayout())
		for _, line := range cfg.Lines {
			for _, p := range line.Points {
				assert.False(t, math.IsNaN(p.Y), "NaN in %s", line.Metric)
			}
		}
	}
}
