package view

import (
	"testing"
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTooltip(t *testing.T) {
	tooltip, ok := BuildTooltip(testDataset(), InitialState(), day(2).Add(5*time.Hour))
	require.True(t, ok)

	assert.Equal(t, day(2), tooltip.Time)
	assert.Equal(t, "Mar 2, 2024", tooltip.Label)
	require.Len(t, tooltip.Entries, 3)
	assert.Equal(t, "$20.00", tooltip.Entries[0].Value)
	assert.Equal(t, "12K", tooltip.Entries[1].Value)
	assert.Equal(t, "2.50B", tooltip.Entries[2].Value)
}

func TestBuildTooltip_HiddenSeries(t *testing.T) {
	state := InitialState().ToggleSeries(core.MetricPrice)
	tooltip, ok := BuildTooltip(testDataset(), state, day(3))
	require.True(t, ok)

	require.Len(t, tooltip.Entries, 2)
	assert.Equal(t, core.MetricActiveAccounts, tooltip.Entries[0].Metric)
}

func TestBuildTooltip_MissingSample(t *testing.T) {
	ds := dataset.Build([]core.Row{
		row(day(1), 10, 12_000, 1.5e9),
		{Time: day(2), Values: map[core.MetricID]float64{core.MetricPrice: 11}},
	})

	tooltip, ok := BuildTooltip(ds, InitialState(), day(2))
	require.True(t, ok)
	require.Len(t, tooltip.Entries, 1)
	assert.Equal(t, "$11.00", tooltip.Entries[0].Value)
}

func TestBuildTooltip_Empty(t *testing.T) {
	_, ok := BuildTooltip(dataset.Empty(), InitialState(), day(1))
	assert.False(t, ok)

	tooltip, ok := BuildTooltip(testDataset(), State{Mode: ModeRaw}, day(1))
	require.True(t, ok)
	assert.Empty(t, tooltip.Entries)
}
