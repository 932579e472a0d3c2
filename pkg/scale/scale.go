// Package scale maps raw metric values onto the chart's visual axes
package scale

import (
	"golang.org/x/exp/constraints"
)

// Lerp maps v from [domainMin, domainMax] onto [rangeMin, rangeMax]. A
// collapsed domain maps every value onto the middle of the range.
func Lerp[T constraints.Float](v, domainMin, domainMax, rangeMin, rangeMax T) T {
	if domainMax == domainMin {
		return rangeMin + (rangeMax-rangeMin)/2
	}
	return rangeMin + (v-domainMin)/(domainMax-domainMin)*(rangeMax-rangeMin)
}

// Interval is a closed numeric interval
type Interval struct {
	Min float64 `json:"min" mapstructure:"min"`
	Max float64 `json:"max" mapstructure:"max"`
}

// Span returns the length of the interval
func (i Interval) Span() float64 {
	return i.Max - i.Min
}

// Zero reports whether the interval was never set
func (i Interval) Zero() bool {
	return i.Min == 0 && i.Max == 0
}

// Axis couples a value domain with the visual range it is drawn on
type Axis struct {
	Domain Interval `json:"domain"`
	Range  Interval `json:"range"`
}

// Scale maps a domain value onto the range
func (a Axis) Scale(v float64) float64 {
	return Lerp(v, a.Domain.Min, a.Domain.Max, a.Range.Min, a.Range.Max)
}

// Invert maps a range position back into the domain
func (a Axis) Invert(y float64) float64 {
	return Lerp(y, a.Range.Min, a.Range.Max, a.Domain.Min, a.Domain.Max)
}

// Tick is a labelled position on an axis
type Tick struct {
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// Ticks spreads count positions evenly across the range, bottom to top, and
// labels each one with the domain value drawn at that position.
func (a Axis) Ticks(count int, label func(float64) string) []Tick {
	if count < 2 {
		return []Tick{{Position: a.Range.Min, Label: label(a.Invert(a.Range.Min))}}
	}

	ticks := make([]Tick, count)
	step := a.Range.Span() / float64(count-1)
	for i := range ticks {
		position := a.Range.Min + float64(i)*step
		if i == count-1 {
			position = a.Range.Max
		}
		ticks[i] = Tick{Position: position, Label: label(a.Invert(position))}
	}

	return ticks
}
