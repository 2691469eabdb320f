package coverage

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotPNG writes a depth-vs-position line plot for the run report directory.
func (p Profile) PlotPNG(filename string, minDepth int) error {
	plt := plot.New()
	plt.Title.Text = "Depth of coverage: " + p.Chrom
	plt.X.Label.Text = "Reference position"
	plt.Y.Label.Text = "Depth"

	pts := make(plotter.XYs, len(p.Depths))
	for i := range p.Depths {
		pts[i].X = float64(i + 1)
		pts[i].Y = float64(p.Depths[i])
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	plt.Add(line)

	// horizontal rule at the masking threshold
	threshold := plotter.NewFunction(func(x float64) float64 { return float64(minDepth) })
	threshold.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	plt.Add(threshold)

	return plt.Save(8*vg.Inch, 3*vg.Inch, filename)
}
