package metric

import (
	"bytes"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *core.Dataset {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]core.Row, 0, 30)
	for i := 0; i < 30; i++ {
		x := float64(i)
		rows = append(rows, core.Row{
			Time: start.AddDate(0, 0, i),
			Values: map[core.MetricID]float64{
				core.MetricPrice:          4 + x/10,
				core.MetricActiveAccounts: 10_000 + 100*x,
				core.MetricValue:          3e9 - 1e7*x,
			},
		})
	}
	return dataset.Build(rows)
}

func TestSummarize(t *testing.T) {
	report := Summarize(testDataset(), 1)

	require.Len(t, report.Series, 3)
	price := report.Series[0]
	assert.Equal(t, core.MetricPrice, price.Metric.ID)
	assert.Equal(t, 30, price.Count)
	assert.InDelta(t, 4.0, price.Min, 1e-12)
	assert.InDelta(t, 6.9, price.Max, 1e-12)
	assert.InDelta(t, 5.45, price.Mean, 1e-9)
	assert.InDelta(t, 2.9/4, price.Change(), 1e-9)

	require.Len(t, report.Correlations, 3)
	first := report.Correlations[0]
	assert.Equal(t, core.MetricPrice, first.X)
	assert.Equal(t, core.MetricActiveAccounts, first.Y)
	assert.Equal(t, 30, first.Samples)
	assert.InDelta(t, 1, first.Correlation, 1e-9)
	assert.InDelta(t, 1, first.Interval.Lower, 1e-9)

	last := report.Correlations[2]
	assert.Equal(t, core.MetricValue, last.Y)
	assert.InDelta(t, -1, last.Correlation, 1e-9)
}

func TestSummarize_EmptyDataset(t *testing.T) {
	report := Summarize(dataset.Empty(), 1)
	require.Len(t, report.Series, 3)
	assert.Zero(t, report.Series[0].Count)
	assert.Zero(t, report.Series[0].Change())

	for _, pair := range report.Correlations {
		assert.True(t, math.IsNaN(pair.Correlation))
	}
}

func TestBootstrap(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2, 1, 4, 3, 6, 5, 8, 7}

	interval := Bootstrap(x, y, Correlation, 500, 0.9, rand.New(rand.NewSource(7)))
	assert.LessOrEqual(t, interval.Lower, Correlation(x, y))
	assert.GreaterOrEqual(t, interval.Upper, interval.Lower)
	assert.LessOrEqual(t, interval.Upper, 1.0+1e-9)

	assert.Equal(t, BootstrapInterval{}, Bootstrap(x, y[:3], Correlation, 10, 0.9, rand.New(rand.NewSource(1))))
}

func TestFprint(t *testing.T) {
	ds := testDataset()
	var out bytes.Buffer

	require.NoError(t, Fprint(&out, ds, Summarize(ds, 1), core.MetricPrice))
	assert.Contains(t, out.String(), "ATOM Price")
	assert.Contains(t, out.String(), "CORRELATION")
	assert.Contains(t, out.String(), "DISTRIBUTION")
}
