package core

import (
	"sort"
	"time"
)

// Row is one sampled date with the raw metric values. A metric without a
// sample on that date has no entry in Values.
type Row struct {
	Time   time.Time
	Values map[MetricID]float64
}

// Raw returns the raw value of the given metric
func (r Row) Raw(id MetricID) (float64, bool) {
	v, ok := r.Values[id]
	return v, ok
}

// Point is a sampled value of a series
type Point struct {
	Time       time.Time `json:"time"`
	Normalized float64   `json:"normalized"`
	Raw        float64   `json:"raw"`
}

// Series is the full time-ordered data of one metric
type Series struct {
	Metric Metric
	Points []Point
	Min    float64
	Max    float64
}

// Len returns the number of points in the series
func (s Series) Len() int {
	return len(s.Points)
}

// At returns the point sampled exactly at t
func (s Series) At(t time.Time) (Point, bool) {
	i := sort.Search(len(s.Points), func(i int) bool {
		return !s.Points[i].Time.Before(t)
	})
	if i < len(s.Points) && s.Points[i].Time.Equal(t) {
		return s.Points[i], true
	}
	return Point{}, false
}

// RawValues returns the raw values in chronological order
func (s Series) RawValues() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Raw
	}
	return values
}

// NormalizedValues returns the normalized values in chronological order
func (s Series) NormalizedValues() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Normalized
	}
	return values
}

// Dataset holds the three series built from a single load. It is read-only
// once constructed.
type Dataset struct {
	Times  []time.Time
	Series []Series
}

// Empty reports whether the dataset has no samples
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Times) == 0
}

// Len returns the number of sampled dates
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Times)
}

// Start returns the first sampled date
func (d *Dataset) Start() time.Time {
	if d.Empty() {
		return time.Time{}
	}
	return d.Times[0]
}

// End returns the last sampled date
func (d *Dataset) End() time.Time {
	if d.Empty() {
		return time.Time{}
	}
	return d.Times[len(d.Times)-1]
}

// SeriesByID returns the series of the given metric
func (d *Dataset) SeriesByID(id MetricID) (Series, bool) {
	if d == nil {
		return Series{}, false
	}
	for _, s := range d.Series {
		if s.Metric.ID == id {
			return s, true
		}
	}
	return Series{}, false
}

// Nearest returns the index of the sampled date closest to t. Ties resolve to
// the earlier date. It returns -1 for an empty dataset.
func (d *Dataset) Nearest(t time.Time) int {
	if d.Empty() {
		return -1
	}

	i := sort.Search(len(d.Times), func(i int) bool {
		return !d.Times[i].Before(t)
	})

	switch {
	case i == 0:
		return 0
	case i == len(d.Times):
		return len(d.Times) - 1
	}

	before, after := t.Sub(d.Times[i-1]), d.Times[i].Sub(t)
	if after < before {
		return i
	}
	return i - 1
}
