package metric

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/format"
)

const histogramBins = 12

// Fprint writes the summary tables and, when histogramOf names a metric with
// samples, a histogram of its raw values
func Fprint(w io.Writer, ds *core.Dataset, report Report, histogramOf core.MetricID) error {
	fmt.Fprintln(w, "------ SERIES ------")
	series := tablewriter.NewWriter(w)
	series.SetHeader([]string{"Metric", "Samples", "Min", "Max", "Mean", "Std Dev", "Last", "Change"})
	series.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, s := range report.Series {
		series.Append([]string{
			s.Metric.Label,
			strconv.Itoa(s.Count),
			format.Value(s.Metric.ID, s.Min),
			format.Value(s.Metric.ID, s.Max),
			format.Value(s.Metric.ID, s.Mean),
			format.Value(s.Metric.ID, s.StdDev),
			format.Value(s.Metric.ID, s.Last),
			fmt.Sprintf("%.1f%%", s.Change()*100),
		})
	}
	series.Render()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "------ CORRELATION (95% bootstrap) ------")
	pairs := tablewriter.NewWriter(w)
	pairs.SetHeader([]string{"Metrics", "Samples", "Pearson", "Interval"})
	pairs.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range report.Correlations {
		pearson, interval := "n/a", "n/a"
		if !math.IsNaN(p.Correlation) {
			pearson = fmt.Sprintf("%.3f", p.Correlation)
			interval = fmt.Sprintf("%.3f ~ %.3f", p.Interval.Lower, p.Interval.Upper)
		}
		pairs.Append([]string{
			fmt.Sprintf("%s / %s", label(p.X), label(p.Y)),
			strconv.Itoa(p.Samples),
			pearson,
			interval,
		})
	}
	pairs.Render()

	s, ok := ds.SeriesByID(histogramOf)
	if !ok || s.Len() == 0 {
		return nil
	}

	fmt.Fprintf(w, "\n------ %s DISTRIBUTION ------\n", s.Metric.Label)
	hist := histogram.Hist(histogramBins, s.RawValues())
	return histogram.Fprintf(w, hist, histogram.Linear(10), func(v float64) string {
		return format.Value(histogramOf, v)
	})
}

func label(id core.MetricID) string {
	if m, ok := core.LookupMetric(id); ok {
		return m.Label
	}
	return string(id)
}
