// Package report draws the data saved by experiment trackers as PNG
// plots and interactive HTML charts
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is nothing to draw
var ErrNoData = errors.New("no data")

// Series is a named sequence of per-episode values
type Series struct {
	Name   string
	Values []float64
}

// Labels holds the title and axis labels of a figure
type Labels struct {
	Title string
	X     string
	Y     string
}

// Mean returns the element-wise mean of runs, truncated to the length
// of the shortest run
func Mean(runs ...[]float64) []float64 {
	if len(runs) == 0 {
		return nil
	}

	n := len(runs[0])
	for _, run := range runs[1:] {
		if len(run) < n {
			n = len(run)
		}
	}

	mean := make([]float64, n)
	for _, run := range runs {
		floats.Add(mean, run[:n])
	}
	floats.Scale(1/float64(len(runs)), mean)
	return mean
}

func check(series []Series) error {
	for _, s := range series {
		if len(s.Values) > 0 {
			return nil
		}
	}
	return ErrNoData
}

// PlotPNG draws each series as a line against its episode index and
// saves the figure to path. The image format is taken from the
// extension of path.
func PlotPNG(path string, labels Labels, series ...Series) error {
	if err := check(series); err != nil {
		return fmt.Errorf("plotPNG: %w", err)
	}

	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = labels.X
	p.Y.Label.Text = labels.Y

	for i, s := range series {
		points := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			points[j] = plotter.XY{X: float64(j), Y: v}
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("plotPNG: series %v: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("plotPNG: %w", err)
	}
	return nil
}

// ChartHTML writes an interactive line chart of each series to w
func ChartHTML(w io.Writer, labels Labels, series ...Series) error {
	if err := check(series); err != nil {
		return fmt.Errorf("chartHTML: %w", err)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: labels.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: labels.X}),
		charts.WithYAxisOpts(opts.YAxis{Name: labels.Y}),
	)

	longest := 0
	for _, s := range series {
		if len(s.Values) > longest {
			longest = len(s.Values)
		}
	}
	episodes := make([]string, longest)
	for i := range episodes {
		episodes[i] = strconv.Itoa(i)
	}
	line.SetXAxis(episodes)

	for _, s := range series {
		items := make([]opts.LineData, 0, len(s.Values))
		for _, v := range s.Values {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.Name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("chartHTML: %w", err)
	}
	return nil
}
