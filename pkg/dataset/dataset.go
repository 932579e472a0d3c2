// Package dataset loads the metric table and builds the normalized series
package dataset

import (
	"sort"
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/samber/lo"
)

// Build sorts rows chronologically, drops duplicated dates (the last row
// wins) and computes every series with its normalized values.
func Build(rows []core.Row) *core.Dataset {
	rows = dedupe(rows)

	ds := &core.Dataset{
		Times: lo.Map(rows, func(r core.Row, _ int) time.Time { return r.Time }),
	}

	for _, metric := range core.Metrics() {
		ds.Series = append(ds.Series, buildSeries(metric, rows))
	}

	return ds
}

// Empty returns a dataset with the three series and no samples
func Empty() *core.Dataset {
	return Build(nil)
}

func buildSeries(metric core.Metric, rows []core.Row) core.Series {
	series := core.Series{
		Metric: metric,
		Points: make([]core.Point, 0, len(rows)),
	}

	for _, row := range rows {
		raw, ok := row.Raw(metric.ID)
		if !ok {
			continue
		}
		series.Points = append(series.Points, core.Point{Time: row.Time, Raw: raw})
	}

	series.Min, series.Max = Extent(series.RawValues())
	for i := range series.Points {
		series.Points[i].Normalized = NormalizeValue(series.Points[i].Raw, series.Min, series.Max)
	}

	return series
}

func dedupe(rows []core.Row) []core.Row {
	sorted := make([]core.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := make([]core.Row, 0, len(sorted))
	for _, row := range sorted {
		if n := len(out); n > 0 && out[n-1].Time.Equal(row.Time) {
			out[n-1] = row
			continue
		}
		out = append(out, row)
	}

	return out
}
