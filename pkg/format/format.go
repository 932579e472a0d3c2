// Package format turns raw metric values into display labels
package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/raykavin/chainpulse/pkg/core"
)

// Formatter renders a raw value as a label
type Formatter func(value float64) string

var byUnit = map[core.Unit]Formatter{
	core.UnitCurrency: Currency,
	core.UnitCount:    Thousands,
	core.UnitBillions: Billions,
}

// For returns the formatter of a metric. Unknown metrics get a plain decimal
// formatter.
func For(id core.MetricID) Formatter {
	metric, ok := core.LookupMetric(id)
	if !ok {
		return Plain
	}
	return byUnit[metric.Unit]
}

// Value formats a raw value of the given metric
func Value(id core.MetricID, value float64) string {
	return For(id)(value)
}

// Currency prints a dollar amount with two decimals, e.g. $4.27
func Currency(value float64) string {
	if value < 0 {
		return fmt.Sprintf("-$%.2f", -value)
	}
	return fmt.Sprintf("$%.2f", value)
}

// Thousands prints a count rounded to thousands, e.g. 12K
func Thousands(value float64) string {
	return strconv.FormatInt(int64(math.Round(value/1e3)), 10) + "K"
}

// Billions prints an amount in billions with two decimals, e.g. 2.50B
func Billions(value float64) string {
	return fmt.Sprintf("%.2fB", value/1e9)
}

// Ratio prints a normalized position with one decimal
func Ratio(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}

// Plain prints the shortest representation of a value
func Plain(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
