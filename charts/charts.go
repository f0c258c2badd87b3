// Package charts renders the happiness report figures as PNG files.
package charts

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"happiness-report/models"
	"happiness-report/utils"
)

// Output file names inside the report directory.
const (
	FeatureImportanceFile  = "feature_importance.png"
	RegionAveragesFile     = "happiness_by_region.png"
	CorrelationHeatmapFile = "correlation_heatmap.png"
	PairPlotFile           = "pairplot.png"
)

var skyBlue = color.RGBA{R: 135, G: 206, B: 235, A: 255}

// Renderer writes charts into one output directory.
type Renderer struct {
	dir    string
	logger *utils.Logger
}

// NewRenderer creates dir if needed and returns a Renderer writing into it.
func NewRenderer(dir string, logger *utils.Logger) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("charts: create output dir: %w", err)
	}
	return &Renderer{dir: dir, logger: logger}, nil
}

// RenderAll draws the four report charts and returns their file names in
// report order.
func (r *Renderer) RenderAll(report *models.InsightReport, clean []models.Record) ([]string, error) {
	steps := []struct {
		name string
		fn   func() error
	}{
		{FeatureImportanceFile, func() error { return r.FeatureImportance(report.Model.Ranked) }},
		{RegionAveragesFile, func() error { return r.RegionAverages(report.Regions) }},
		{CorrelationHeatmapFile, func() error { return r.CorrelationHeatmap(report.Correlation) }},
		{PairPlotFile, func() error { return r.PairPlot(clean, report.Correlation.Fields) }},
	}

	files := make([]string, 0, len(steps))
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return files, err
		}
		r.logger.Info("[charts] Wrote %s", filepath.Join(r.dir, s.name))
		files = append(files, s.name)
	}
	return files, nil
}

// FeatureImportance draws one horizontal bar per coefficient, largest at
// the top.
func (r *Renderer) FeatureImportance(ranked []models.Coefficient) error {
	p := plot.New()
	p.Title.Text = "Feature Importance (Linear Regression)"
	p.X.Label.Text = "Coefficient"
	p.Y.Label.Text = "Feature"

	n := len(ranked)
	labels := make([]string, n)
	colors := palette.Heat(max(n, 2), 1).Colors()
	for i, c := range ranked {
		pos := n - 1 - i
		labels[pos] = string(c.Feature)

		bar, err := plotter.NewBarChart(plotter.Values{c.Value}, vg.Points(18))
		if err != nil {
			return fmt.Errorf("charts: feature bar %s: %w", c.Feature, err)
		}
		bar.Horizontal = true
		bar.XMin = float64(pos)
		bar.Color = colors[i%len(colors)]
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)
	}
	p.NominalY(labels...)
	p.Add(plotter.NewGrid())

	return r.save(p, FeatureImportanceFile, 8*vg.Inch, 5*vg.Inch)
}

// RegionAverages draws the mean happiness score per region as horizontal
// bars; regions arrive sorted ascending so the happiest is on top.
func (r *Renderer) RegionAverages(regions []models.RegionAverage) error {
	p := plot.New()
	p.Title.Text = "Average Happiness Score by Region"
	p.X.Label.Text = "Happiness Score"
	p.Y.Label.Text = "Region"

	values := make(plotter.Values, len(regions))
	labels := make([]string, len(regions))
	for i, reg := range regions {
		values[i] = reg.Mean
		labels[i] = reg.Region
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("charts: region bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = skyBlue
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(labels...)

	return r.save(p, RegionAveragesFile, 10*vg.Inch, 6*vg.Inch)
}

// CorrelationHeatmap draws the matrix on a blue-to-red scale over [-1, 1]
// and writes each value into its cell.
func (r *Renderer) CorrelationHeatmap(c *models.CorrelationMatrix) error {
	p := plot.New()
	p.Title.Text = "Correlation with Happiness Score"

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	grid := corrGrid{m: c}
	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min = -1
	hm.Max = 1
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	n := len(c.Fields)
	var cells plotter.XYLabels
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			cells.XYs = append(cells.XYs, plotter.XY{X: grid.X(col), Y: grid.Y(n - 1 - row)})
			cells.Labels = append(cells.Labels, fmt.Sprintf("%.2f", c.Values[row][col]))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return fmt.Errorf("charts: heatmap labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	names := make([]string, n)
	reversed := make([]string, n)
	for i, f := range c.Fields {
		names[i] = string(f)
		reversed[n-1-i] = string(f)
	}
	p.NominalX(names...)
	p.NominalY(reversed...)

	return r.save(p, CorrelationHeatmapFile, 7*vg.Inch, 6*vg.Inch)
}

// corrGrid exposes a correlation matrix as a heat map grid with the first
// field in the top row.
type corrGrid struct {
	m *models.CorrelationMatrix
}

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Fields)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := len(g.m.Fields)
	return g.m.Values[n-1-r][c]
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

func (r *Renderer) save(p *plot.Plot, name string, w, h vg.Length) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("charts: render %s: %w", name, err)
	}
	return writeFile(filepath.Join(r.dir, name), wt)
}

// writeFile owns the file handle for exactly one chart write.
func writeFile(path string, wt io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("charts: create %q: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("charts: write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("charts: close %q: %w", path, err)
	}
	return nil
}
