package core

// MetricID identifies one of the charted metrics
type MetricID string

const (
	MetricPrice          MetricID = "price"           // Asset price in USD
	MetricActiveAccounts MetricID = "active_accounts" // On-chain active account count
	MetricValue          MetricID = "value"           // Aggregate transfer value
)

// Unit describes how a metric's raw values are printed
type Unit int

const (
	UnitCurrency Unit = iota // Symbol-prefixed amount with two decimals
	UnitCount                // Integer count abbreviated to thousands
	UnitBillions             // Large amount abbreviated to billions
)

// Metric holds the display metadata of a metric
type Metric struct {
	ID    MetricID `json:"id"`
	Label string   `json:"label"`
	Color string   `json:"color"`
	Unit  Unit     `json:"-"`
}

// metrics is the registry, in display order. The first entry is the primary
// metric and owns the left axis.
var metrics = []Metric{
	{ID: MetricPrice, Label: "ATOM Price", Color: "#6c8cff", Unit: UnitCurrency},
	{ID: MetricActiveAccounts, Label: "Active Accounts", Color: "#48d6a4", Unit: UnitCount},
	{ID: MetricValue, Label: "Value", Color: "#f7b24a", Unit: UnitBillions},
}

// Metrics returns every known metric in display order
func Metrics() []Metric {
	out := make([]Metric, len(metrics))
	copy(out, metrics)
	return out
}

// MetricIDs returns every known metric identifier in display order
func MetricIDs() []MetricID {
	ids := make([]MetricID, len(metrics))
	for i, m := range metrics {
		ids[i] = m.ID
	}
	return ids
}

// Primary returns the metric that owns the left axis
func Primary() Metric {
	return metrics[0]
}

// LookupMetric returns the metadata of id
func LookupMetric(id MetricID) (Metric, bool) {
	for _, m := range metrics {
		if m.ID == id {
			return m, true
		}
	}
	return Metric{}, false
}

// IsPrimary reports whether id is the primary metric
func (id MetricID) IsPrimary() bool {
	return id == metrics[0].ID
}

// Valid reports whether id names a known metric
func (id MetricID) Valid() bool {
	_, ok := LookupMetric(id)
	return ok
}

func (id MetricID) String() string {
	return string(id)
}
