package dataset

import (
	"fmt"
	"strings"

	"github.com/raykavin/chainpulse/pkg/core"
)

// Columns maps the CSV header names onto the dataset fields
type Columns struct {
	Date       string
	Raw        map[core.MetricID]string
	Normalized map[core.MetricID]string
}

// DefaultColumns returns the header names written by the export endpoint
func DefaultColumns() Columns {
	cols := Columns{
		Date:       "date",
		Raw:        make(map[core.MetricID]string),
		Normalized: make(map[core.MetricID]string),
	}
	for _, id := range core.MetricIDs() {
		cols.Raw[id] = string(id)
		cols.Normalized[id] = string(id) + "_normalized"
	}
	return cols
}

// Header returns the full header in export order
func (c Columns) Header() []string {
	header := []string{c.Date}
	for _, id := range core.MetricIDs() {
		header = append(header, c.Raw[id], c.Normalized[id])
	}
	return header
}

// layout holds the column index of every field found in a header row
type layout struct {
	date int
	raw  map[core.MetricID]int
}

// resolve looks up every required column in the header. Normalized columns
// are optional since they are recomputed from the raw values.
func (c Columns) resolve(header []string) (layout, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normalizeHeader(name)] = i
	}

	lookup := func(name string) (int, error) {
		i, ok := index[normalizeHeader(name)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", core.ErrMissingColumn, name)
		}
		return i, nil
	}

	var (
		l   = layout{raw: make(map[core.MetricID]int)}
		err error
	)

	if l.date, err = lookup(c.Date); err != nil {
		return layout{}, err
	}

	for _, id := range core.MetricIDs() {
		name, ok := c.Raw[id]
		if !ok {
			name = string(id)
		}
		if l.raw[id], err = lookup(name); err != nil {
			return layout{}, err
		}
	}

	return l, nil
}

func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.TrimSpace(name))
}
