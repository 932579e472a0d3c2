package dataset

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T, options ...Option) *Loader {
	t.Helper()
	log, err := zerolog.New(zerolog.Options{Level: "error", JSON: true, Out: io.Discard})
	require.NoError(t, err)
	return NewLoader(log, options...)
}

func date(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func TestLoader_LoadFile(t *testing.T) {
	ds, err := newTestLoader(t).Load(context.Background(), "testdata/sample.csv")
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, date("2024-01-01"), ds.Start())
	assert.Equal(t, date("2024-01-03"), ds.End())

	price, ok := ds.SeriesByID(core.MetricPrice)
	require.True(t, ok)
	assert.Equal(t, []float64{20, 30, 10}, price.RawValues())
	assert.Equal(t, []float64{0.5, 1, 0}, price.NormalizedValues())
	assert.Equal(t, 10.0, price.Min)
	assert.Equal(t, 30.0, price.Max)
}

func TestLoader_ParseGapsAndDuplicates(t *testing.T) {
	file, err := os.Open("testdata/gaps.csv")
	require.NoError(t, err)
	defer file.Close()

	rows, err := newTestLoader(t).Parse(file)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	raw, ok := rows[0].Raw(core.MetricActiveAccounts)
	require.True(t, ok)
	assert.Equal(t, 12345.0, raw)

	_, ok = rows[1].Raw(core.MetricActiveAccounts)
	assert.False(t, ok)

	ds := Build(rows)
	require.Equal(t, 3, ds.Len())

	price, _ := ds.SeriesByID(core.MetricPrice)
	assert.Equal(t, []float64{4.10, 4.20, 4.35}, price.RawValues())

	active, _ := ds.SeriesByID(core.MetricActiveAccounts)
	assert.Equal(t, []float64{12345, 13100}, active.RawValues())

	value, _ := ds.SeriesByID(core.MetricValue)
	assert.Equal(t, []float64{2.5e9, 2.6e9, 2.7e9}, value.RawValues())
}

func TestLoader_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{name: "empty input", input: "", err: core.ErrEmptyDataset},
		{name: "header only", input: "date,price,active_accounts,value\n", err: core.ErrEmptyDataset},
		{name: "missing column", input: "date,price,value\n2024-01-01,1,2\n", err: core.ErrMissingColumn},
		{name: "bad date", input: "date,price,active_accounts,value\nyesterday,1,2,3\n", err: core.ErrInvalidRow},
		{name: "bad number", input: "date,price,active_accounts,value\n2024-01-01,abc,2,3\n", err: core.ErrInvalidRow},
		{name: "not finite", input: "date,price,active_accounts,value\n2024-01-01,NaN,2,3\n", err: core.ErrInvalidRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLoader(t).Parse(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoader_CustomColumns(t *testing.T) {
	columns := DefaultColumns()
	columns.Date = "day"
	columns.Raw[core.MetricPrice] = "atom_usd"

	input := "day,atom_usd,active_accounts,value\n2024-03-01,4.5,1000,2000\n"
	rows, err := newTestLoader(t, WithColumns(columns)).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	price, _ := rows[0].Raw(core.MetricPrice)
	assert.Equal(t, 4.5, price)
}

func TestLoader_LoadRemote(t *testing.T) {
	content, err := os.ReadFile("testdata/sample.csv")
	require.NoError(t, err)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(content)
	}))
	defer server.Close()

	ds, err := newTestLoader(t, WithRetries(2)).Load(context.Background(), server.URL+"/data.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoader_LoadRemoteWithoutRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestLoader(t).Load(context.Background(), server.URL)
	require.Error(t, err)
}

func TestLoader_LoadOrEmpty(t *testing.T) {
	loader := newTestLoader(t)

	ds := loader.LoadOrEmpty(context.Background(), "testdata/does-not-exist.csv")
	require.NotNil(t, ds)
	assert.True(t, ds.Empty())
	assert.Len(t, ds.Series, len(core.Metrics()))

	ds = loader.LoadOrEmpty(context.Background(), "")
	assert.True(t, ds.Empty())
}

func TestColumns_Header(t *testing.T) {
	assert.Equal(t, []string{
		"date",
		"price", "price_normalized",
		"active_accounts", "active_accounts_normalized",
		"value", "value_normalized",
	}, DefaultColumns().Header())
}
