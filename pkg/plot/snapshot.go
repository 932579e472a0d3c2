package plot

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/chainpulse/pkg/view"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	fillAlpha      = 40
	ladderFontSize = 9
	ladderGap      = 8
)

// RenderPNG draws cfg the way the browser does: every line on the left axis
// and the secondary metrics' tick ladders to the right of the plot.
func RenderPNG(cfg view.Config, width, height int) ([]byte, error) {
	start, end := cfg.XAxis.Start, cfg.XAxis.End
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	if !end.After(start) {
		end = start.Add(24 * time.Hour)
	}

	yRange := &chart.ContinuousRange{Min: cfg.YAxis.Min, Max: cfg.YAxis.Max}
	if yRange.Max <= yRange.Min {
		yRange.Max = yRange.Min + 1
	}

	ticks := axisTicks(cfg.YAxis, yRange)

	series := make([]chart.Series, 0, len(cfg.Lines))
	for _, line := range cfg.Lines {
		series = append(series, lineSeries(line, cfg.Mode))
	}

	// go-chart needs one visible series, so an empty plot gets an invisible
	// stroke instead of a hidden series
	if len(series) == 0 {
		series = append(series, chart.TimeSeries{
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
			YAxis:   chart.YAxisSecondary,
			XValues: []time.Time{start, end},
			YValues: []float64{yRange.Min, yRange.Min},
		})
	}

	graph := chart.Chart{
		Title:  cfg.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(cfg.Margin.Top) + 16,
				Right:  int(cfg.Margin.Right),
				Bottom: int(cfg.Margin.Bottom),
				Left:   int(cfg.Margin.Left),
			},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(start),
				Max: chart.TimeToFloat64(end),
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return chart.TimeFromFloat64(f).Format("Jan 06")
				}
				return ""
			},
		},
		// The secondary range is derived from the primary axis ticks, so both
		// axes carry the same ladder and only the left one is drawn.
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: yRange.Min, Max: yRange.Max},
			Ticks: ticks,
		},
		YAxisSecondary: chart.YAxis{
			Range: &chart.ContinuousRange{Min: yRange.Min, Max: yRange.Max},
			Ticks: ticks,
		},
		Series: series,
	}

	if len(cfg.Ladders) > 0 {
		graph.Elements = append(graph.Elements, ladderElement(cfg.Ladders, yRange))
	}
	if len(cfg.Lines) > 0 {
		graph.Elements = append(graph.Elements, chart.Legend(&graph))
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

func lineSeries(line view.Line, mode view.DisplayMode) chart.TimeSeries {
	xValues := make([]time.Time, len(line.Points))
	yValues := make([]float64, len(line.Points))
	for i, p := range line.Points {
		xValues[i] = p.Time
		yValues[i] = p.Y
	}

	color := hexColor(line.Color)
	style := chart.Style{
		StrokeColor: color,
		StrokeWidth: 2,
	}
	if mode.Normalized() {
		style.FillColor = color.WithAlpha(fillAlpha)
	}

	return chart.TimeSeries{
		Name:    line.Label,
		Style:   style,
		YAxis:   chart.YAxisSecondary,
		XValues: xValues,
		YValues: yValues,
	}
}

// axisTicks converts the config ticks. Without ticks the range ends are used
// so the axis range stays finite.
func axisTicks(axis view.YAxis, yRange *chart.ContinuousRange) []chart.Tick {
	if len(axis.Ticks) == 0 {
		return []chart.Tick{
			{Value: yRange.Min, Label: ""},
			{Value: yRange.Max, Label: ""},
		}
	}

	ticks := make([]chart.Tick, len(axis.Ticks))
	for i, tick := range axis.Ticks {
		ticks[i] = chart.Tick{Value: tick.Position, Label: tick.Label}
	}
	return ticks
}

// ladderElement draws each ladder as a column of labels placed at the
// ladder's offset past the right edge of the canvas
func ladderElement(ladders []view.Ladder, yRange *chart.ContinuousRange) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		for _, ladder := range ladders {
			color := hexColor(ladder.Color)
			if !ladder.Active {
				color = color.WithAlpha(90)
			}

			style := chart.Style{
				Font:      defaults.Font,
				FontSize:  ladderFontSize,
				FontColor: color,
			}
			style.WriteTextOptionsToRenderer(r)

			x := canvasBox.Right + ladderGap + int(ladder.Offset)
			for _, tick := range ladder.Ticks {
				ratio := (tick.Position - yRange.Min) / (yRange.Max - yRange.Min)
				y := canvasBox.Bottom - int(ratio*float64(canvasBox.Height()))
				r.Text(tick.Label, x, y+ladderFontSize/2)
			}
		}
	}
}

func hexColor(value string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(value, "#"))
}
