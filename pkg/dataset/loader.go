package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/logger"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// Loader reads the metric table from a file or an HTTP resource
type Loader struct {
	columns Columns
	timeout time.Duration
	retries int
	client  *http.Client
	log     logger.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithColumns overrides the header names
func WithColumns(columns Columns) Option {
	return func(l *Loader) {
		l.columns = columns
	}
}

// WithTimeout bounds a single remote fetch
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithRetries sets how many times a failed remote fetch is retried
func WithRetries(retries int) Option {
	return func(l *Loader) {
		l.retries = retries
	}
}

// WithHTTPClient replaces the client used for remote sources
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

// NewLoader creates a loader with the default column layout
func NewLoader(log logger.Logger, options ...Option) *Loader {
	loader := &Loader{
		columns: DefaultColumns(),
		timeout: 30 * time.Second,
		client:  http.DefaultClient,
		log:     log,
	}

	for _, option := range options {
		option(loader)
	}

	return loader
}

// Load opens the source, parses it and builds the dataset
func (l *Loader) Load(ctx context.Context, source string) (*core.Dataset, error) {
	reader, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	rows, err := l.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	ds := Build(rows)
	l.log.WithFields(map[string]any{
		"source": source,
		"rows":   ds.Len(),
		"start":  ds.Start().Format(time.DateOnly),
		"end":    ds.End().Format(time.DateOnly),
	}).Info("Dataset loaded")

	return ds, nil
}

// LoadOrEmpty behaves like Load but degrades to an empty dataset on failure
func (l *Loader) LoadOrEmpty(ctx context.Context, source string) *core.Dataset {
	ds, err := l.Load(ctx, source)
	if err != nil {
		l.log.WithError(err).WithField("source", source).Error("Dataset load failed, serving an empty chart")
		return Empty()
	}
	return ds
}

// Parse reads every row of a CSV table with a header line
func (l *Loader) Parse(r io.Reader) ([]core.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, core.ErrEmptyDataset
	}

	cols, err := l.columns.resolve(lines[0])
	if err != nil {
		return nil, err
	}

	rows := make([]core.Row, 0, len(lines)-1)
	for i, line := range lines[1:] {
		if isBlank(line) {
			continue
		}

		row, err := parseRow(line, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	return rows, nil
}

func parseRow(line []string, cols layout) (core.Row, error) {
	cell := func(i int) string {
		if i >= len(line) {
			return ""
		}
		return strings.TrimSpace(line[i])
	}

	date, err := parseDate(cell(cols.date))
	if err != nil {
		return core.Row{}, err
	}

	row := core.Row{
		Time:   date,
		Values: make(map[core.MetricID]float64, len(cols.raw)),
	}

	for id, index := range cols.raw {
		text := cell(index)
		if text == "" {
			continue
		}

		value, err := parseNumber(text)
		if err != nil {
			return core.Row{}, fmt.Errorf("%w: %s: %v", core.ErrInvalidRow, id, err)
		}
		row.Values[id] = value
	}

	return row, nil
}

func parseDate(text string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", core.ErrInvalidRow, text)
}

func parseNumber(text string) (float64, error) {
	text = strings.TrimPrefix(text, "$")
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, "_", "")

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.New("value is not finite")
	}

	return value, nil
}

func isBlank(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
