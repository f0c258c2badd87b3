package charts

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"happiness-report/models"
)

var pairColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// PairPlot draws every pairwise scatter plot among fields in a square grid,
// with each field's histogram on the diagonal.
func (r *Renderer) PairPlot(records []models.Record, fields []models.Field) error {
	n := len(fields)
	if n == 0 {
		return fmt.Errorf("charts: pair plot needs at least one field")
	}

	cols := make([]plotter.Values, n)
	for j, f := range fields {
		cols[j] = make(plotter.Values, len(records))
		for i := range records {
			cols[j][i] = records[i].Number(f).Float64
		}
	}

	plots := make([][]*plot.Plot, n)
	for row := 0; row < n; row++ {
		plots[row] = make([]*plot.Plot, n)
		for col := 0; col < n; col++ {
			p := plot.New()
			if row == n-1 {
				p.X.Label.Text = string(fields[col])
			}
			if col == 0 {
				p.Y.Label.Text = string(fields[row])
			}

			if row == col {
				h, err := plotter.NewHist(cols[col], 10)
				if err != nil {
					return fmt.Errorf("charts: histogram %s: %w", fields[col], err)
				}
				h.FillColor = pairColor
				p.Add(h)
			} else {
				xy := make(plotter.XYs, len(records))
				for i := range records {
					xy[i] = plotter.XY{X: cols[col][i], Y: cols[row][i]}
				}
				sc, err := plotter.NewScatter(xy)
				if err != nil {
					return fmt.Errorf("charts: scatter %s vs %s: %w", fields[row], fields[col], err)
				}
				sc.GlyphStyle.Color = pairColor
				sc.GlyphStyle.Radius = vg.Points(1.5)
				sc.GlyphStyle.Shape = draw.CircleGlyph{}
				p.Add(sc)
			}
			plots[row][col] = p
		}
	}

	size := vg.Length(n) * 2.5 * vg.Inch
	img := vgimg.New(size, size)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: n,
		Cols: n,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			plots[row][col].Draw(canvases[row][col])
		}
	}

	return writeFile(filepath.Join(r.dir, PairPlotFile), vgimg.PngCanvas{Canvas: img})
}
