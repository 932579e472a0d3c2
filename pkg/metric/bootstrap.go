package metric

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BootstrapInterval is the confidence interval of a paired statistic
type BootstrapInterval struct {
	Lower  float64
	Upper  float64
	StdDev float64
	Mean   float64
}

// PairedMeasure computes a statistic over two aligned samples
type PairedMeasure func(x, y []float64) float64

// Bootstrap resamples the (x, y) pairs with replacement and returns the
// confidence interval of measure. x and y must have the same length.
func Bootstrap(x, y []float64, measure PairedMeasure, rounds int, confidence float64, rng *rand.Rand) BootstrapInterval {
	if len(x) == 0 || len(x) != len(y) || rounds <= 0 {
		return BootstrapInterval{}
	}

	data := make([]float64, 0, rounds)
	sx, sy := make([]float64, len(x)), make([]float64, len(y))

	for i := 0; i < rounds; i++ {
		for j := range sx {
			k := rng.Intn(len(x))
			sx[j], sy[j] = x[k], y[k]
		}

		// a resample can be constant, leaving the correlation undefined
		value := measure(sx, sy)
		if math.IsNaN(value) {
			continue
		}
		data = append(data, value)
	}

	if len(data) == 0 {
		return BootstrapInterval{}
	}

	tail := 1 - confidence
	sort.Float64s(data)

	mean, stdDev := stat.MeanStdDev(data, nil)
	return BootstrapInterval{
		Lower:  stat.Quantile(tail/2, stat.LinInterp, data, nil),
		Upper:  stat.Quantile(1-tail/2, stat.LinInterp, data, nil),
		StdDev: stdDev,
		Mean:   mean,
	}
}

// Correlation is the Pearson correlation of x and y
func Correlation(x, y []float64) float64 {
	return stat.Correlation(x, y, nil)
}
