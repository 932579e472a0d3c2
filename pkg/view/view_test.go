package view

import (
	"testing"
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func day(n int) time.Time {
	return time.Date(2024, time.March, n, 0, 0, 0, 0, time.UTC)
}

func row(t time.Time, price, active, value float64) core.Row {
	return core.Row{Time: t, Values: map[core.MetricID]float64{
		core.MetricPrice:          price,
		core.MetricActiveAccounts: active,
		core.MetricValue:          value,
	}}
}

func testDataset() *core.Dataset {
	return dataset.Build([]core.Row{
		row(day(1), 10, 12_000, 1.5e9),
		row(day(2), 20, 12_345, 2.5e9),
		row(day(3), 30, 14_000, 3.5e9),
	})
}

func TestVisibility_Toggle(t *testing.T) {
	visible := AllVisible()
	require.Equal(t, 3, visible.Len())

	hidden := visible.Toggle(core.MetricActiveAccounts)
	assert.Equal(t, []core.MetricID{core.MetricPrice, core.MetricValue}, hidden.Members())
	assert.Equal(t, []core.MetricID{core.MetricActiveAccounts}, hidden.Hidden())

	// the original snapshot is untouched
	assert.Equal(t, 3, visible.Len())

	restored := hidden.Toggle(core.MetricActiveAccounts)
	assert.True(t, restored.Equal(visible))
	assert.Equal(t, visible.Members(), restored.Members())
}

func TestVisibility_ToggleTwiceRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := core.MetricIDs()
		start := NewVisibility(rapid.SliceOf(rapid.SampledFrom(ids)).Draw(t, "start")...)
		id := rapid.SampledFrom(ids).Draw(t, "toggled")

		once := start.Toggle(id)
		require.NotEqual(t, start.Has(id), once.Has(id))
		for _, other := range ids {
			if other != id {
				require.Equal(t, start.Has(other), once.Has(other))
			}
		}
		require.Equal(t, start.Members(), once.Toggle(id).Members())
	})
}

func TestVisibility_UnknownAndZero(t *testing.T) {
	var empty VisibilitySet
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Has(core.MetricPrice))
	assert.Equal(t, []core.MetricID{core.MetricPrice}, empty.Toggle(core.MetricPrice).Members())

	visible := AllVisible().Toggle(core.MetricID("volume"))
	assert.Equal(t, core.MetricIDs(), visible.Members())
}

func TestParseHidden(t *testing.T) {
	visible, err := ParseHidden("price, value")
	require.NoError(t, err)
	assert.Equal(t, []core.MetricID{core.MetricActiveAccounts}, visible.Members())

	visible, err = ParseHidden("")
	require.NoError(t, err)
	assert.Equal(t, 3, visible.Len())

	_, err = ParseHidden("price,volume")
	require.ErrorIs(t, err, core.ErrUnknownMetric)
}

func TestState_Transitions(t *testing.T) {
	state := InitialState()
	assert.Equal(t, ModeNormalized, state.Mode)
	assert.Equal(t, "normalized:price,active_accounts,value", state.Key())

	raw := state.ToggleMode()
	assert.Equal(t, ModeRaw, raw.Mode)
	assert.True(t, raw.ToggleMode().Equal(state))

	hidden := state.ToggleSeries(core.MetricPrice)
	assert.Equal(t, "normalized:active_accounts,value", hidden.Key())
	assert.True(t, hidden.ToggleSeries(core.MetricPrice).Equal(state))
}

func TestParseState(t *testing.T) {
	state, err := ParseState("raw", "value")
	require.NoError(t, err)
	assert.Equal(t, "raw:price,active_accounts", state.Key())

	_, err = ParseState("log", "")
	require.ErrorIs(t, err, core.ErrInvalidMode)
}

func TestAllStates(t *testing.T) {
	states := AllStates()
	require.Len(t, states, 16)

	keys := make(map[string]bool)
	for _, state := range states {
		keys[state.Key()] = true
	}
	assert.Len(t, keys, 16)
	assert.True(t, keys["raw:"])
	assert.True(t, keys["normalized:price,active_accounts,value"])
}
