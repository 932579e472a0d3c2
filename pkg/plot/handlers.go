package plot

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/dataset"
	"github.com/raykavin/chainpulse/pkg/view"
)

const dateLayout = "2006-01-02"

func (c *Chart) dataResponse(state view.State) dataResponse {
	cfg, loaded := c.Config(state)
	return dataResponse{
		Loading: !loaded,
		State:   newStateView(state),
		Config:  cfg,
	}
}

// stateFromQuery reads the mode and hidden query parameters
func stateFromQuery(r *http.Request) (view.State, error) {
	query := r.URL.Query()
	return view.ParseState(query.Get("mode"), query.Get("hidden"))
}

// parseInstant accepts a plain date or an RFC3339 timestamp
func parseInstant(text string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, text); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, text)
}

// handleHealth reports 503 until the dataset load has finished
func (c *Chart) handleHealth(w http.ResponseWriter, _ *http.Request) {
	c.RLock()
	loaded, loadedAt := c.loaded, c.loadedAt
	c.RUnlock()

	if !loaded {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte("loading")); err != nil {
			c.log.Error("Failed to write health status: ", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(loadedAt.Format(time.RFC3339))); err != nil {
		c.log.Error("Failed to write health status: ", err)
	}
}

// handleIndex handles the main page request
func (c *Chart) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	err := c.indexHTML.Execute(w, map[string]any{
		"title":    c.layout.Title,
		"subtitle": c.layout.Subtitle,
		"metrics":  core.Metrics(),
	})
	if err != nil {
		c.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleScript serves the transpiled chart script
func (c *Chart) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	if _, err := fmt.Fprint(w, c.scriptContent); err != nil {
		c.log.Error("Failed to write chart script: ", err)
	}
}

// handleData answers the render configuration of the state in the query
func (c *Chart) handleData(w http.ResponseWriter, r *http.Request) {
	state, err := stateFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c.dataResponse(state)); err != nil {
		c.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleTooltip answers the hover card for the date in the query
func (c *Chart) handleTooltip(w http.ResponseWriter, r *http.Request) {
	state, err := stateFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	at, err := parseInstant(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	ds, _ := c.Dataset()
	tooltip, ok := view.BuildTooltip(ds, state, at)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tooltip); err != nil {
		c.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleExport handles CSV export of the loaded dataset
func (c *Chart) handleExport(w http.ResponseWriter, _ *http.Request) {
	ds, _ := c.Dataset()

	buffer := bytes.NewBuffer(nil)
	if err := WriteCSV(buffer, ds); err != nil {
		c.log.Error("Failed writing CSV: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=chainpulse.csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buffer.Bytes()); err != nil {
		c.log.Error("Failed writing CSV response: ", err)
	}
}

// handleSnapshot renders the state in the query to PNG
func (c *Chart) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	state, err := stateFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := c.Snapshot(state)
	if err != nil {
		c.log.WithError(err).Error("Snapshot rendering failed")
		http.Error(w, "Failed to render snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if _, err := w.Write(content); err != nil {
		c.log.Error("Failed writing snapshot: ", err)
	}
}

// WriteCSV writes ds with the default export header. Missing samples are
// left blank.
func WriteCSV(w io.Writer, ds *core.Dataset) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(dataset.DefaultColumns().Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if ds != nil {
		ids := core.MetricIDs()
		for _, t := range ds.Times {
			record := make([]string, 0, 1+2*len(ids))
			record = append(record, t.Format(dateLayout))

			for _, id := range ids {
				series, _ := ds.SeriesByID(id)
				point, ok := series.At(t)
				if !ok {
					record = append(record, "", "")
					continue
				}
				record = append(record,
					strconv.FormatFloat(point.Raw, 'f', -1, 64),
					strconv.FormatFloat(point.Normalized, 'f', 6, 64),
				)
			}

			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("write row %s: %w", t.Format(dateLayout), err)
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
