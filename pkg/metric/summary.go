// Package metric summarizes the loaded series
package metric

import (
	"math"
	"math/rand"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

const (
	bootstrapRounds     = 2000
	bootstrapConfidence = 0.95
)

// SeriesSummary describes the distribution of one series
type SeriesSummary struct {
	Metric core.Metric
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	First  float64
	Last   float64
}

// Change returns the relative change from the first to the last sample
func (s SeriesSummary) Change() float64 {
	if s.Count == 0 || s.First == 0 {
		return 0
	}
	return (s.Last - s.First) / s.First
}

// Pair is the correlation between two metrics over their common dates
type Pair struct {
	X, Y        core.MetricID
	Samples     int
	Correlation float64
	Interval    BootstrapInterval
}

// Report is the full dataset summary
type Report struct {
	Series       []SeriesSummary
	Correlations []Pair
}

// Summarize computes the report of a dataset. The seed makes the bootstrap
// intervals reproducible.
func Summarize(ds *core.Dataset, seed int64) Report {
	report := Report{}
	if ds == nil {
		return report
	}

	for _, series := range ds.Series {
		report.Series = append(report.Series, summarizeSeries(series))
	}

	rng := rand.New(rand.NewSource(seed))
	ids := core.MetricIDs()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			report.Correlations = append(report.Correlations, correlate(ds, ids[i], ids[j], rng))
		}
	}

	return report
}

func summarizeSeries(series core.Series) SeriesSummary {
	summary := SeriesSummary{Metric: series.Metric, Count: series.Len()}
	if summary.Count == 0 {
		return summary
	}

	values := series.RawValues()
	summary.Min, summary.Max = series.Min, series.Max
	summary.Mean, summary.StdDev = stat.MeanStdDev(values, nil)
	if summary.Count < 2 {
		summary.StdDev = 0
	}
	summary.First, summary.Last = values[0], values[len(values)-1]

	return summary
}

// Aligned returns the raw values of two metrics on the dates both sampled
func Aligned(ds *core.Dataset, x, y core.MetricID) ([]float64, []float64) {
	sx, _ := ds.SeriesByID(x)
	sy, _ := ds.SeriesByID(y)

	xs, ys := make([]float64, 0, sx.Len()), make([]float64, 0, sx.Len())
	for _, p := range sx.Points {
		if q, ok := sy.At(p.Time); ok {
			xs = append(xs, p.Raw)
			ys = append(ys, q.Raw)
		}
	}
	return xs, ys
}

func correlate(ds *core.Dataset, x, y core.MetricID, rng *rand.Rand) Pair {
	xs, ys := Aligned(ds, x, y)
	pair := Pair{X: x, Y: y, Samples: len(xs)}

	if len(xs) < 3 || constant(xs) || constant(ys) {
		pair.Correlation = math.NaN()
		return pair
	}

	pair.Correlation = Correlation(xs, ys)
	pair.Interval = Bootstrap(xs, ys, Correlation, bootstrapRounds, bootstrapConfidence, rng)
	return pair
}

func constant(values []float64) bool {
	return len(lo.Uniq(values)) < 2
}
