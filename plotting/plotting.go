// Package plotting renders decision regions and cost curves with gonum/plot.
// The output format follows the file extension of path (png, svg, pdf, ...).
package plotting

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/statlearn/core/model"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
)

// MaxGridPoints bounds the number of predictions made for one region plot.
const MaxGridPoints = 4_000_000

var (
	classColors = []color.RGBA{
		{R: 220, G: 40, B: 40, A: 255},   // red
		{R: 40, G: 70, B: 220, A: 255},   // blue
		{R: 120, G: 200, B: 120, A: 255}, // light green
		{R: 128, G: 128, B: 128, A: 255}, // gray
		{R: 0, G: 200, B: 200, A: 255},   // cyan
	}
	classGlyphs = []draw.GlyphDrawer{
		draw.BoxGlyph{},
		draw.CrossGlyph{},
		draw.CircleGlyph{},
		draw.TriangleGlyph{},
		draw.RingGlyph{},
	}
)

func classColor(i int) color.RGBA { return classColors[i%len(classColors)] }

func regionColor(i int) color.Color {
	c := classColor(i)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 80}
}

// regionGrid is the classifier output on a regular mesh, stored as class
// indices.
type regionGrid struct {
	xs, ys []float64
	z      *mat.Dense // rows follow ys, columns follow xs
}

func (g *regionGrid) Dims() (c, r int)   { return len(g.xs), len(g.ys) }
func (g *regionGrid) Z(c, r int) float64 { return g.z.At(r, c) }
func (g *regionGrid) X(c int) float64    { return g.xs[c] }
func (g *regionGrid) Y(r int) float64    { return g.ys[r] }

type regionPalette []color.Color

func (p regionPalette) Colors() []color.Color { return p }

func arange(lo, hi, step float64) []float64 {
	n := int(math.Floor((hi-lo)/step)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

func uniqueSorted(vals ...[]float64) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, vs := range vals {
		for _, v := range vs {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	sort.Float64s(out)
	return out
}

// PlotDecisionRegions predicts clf over a mesh covering X (two features)
// padded by 1 on every side with the given step, shades each cell by the
// predicted class and overlays the samples, marked per label y.
func PlotDecisionRegions(X, y mat.Matrix, clf model.Predictor, resolution float64, title, path string) (err error) {
	defer scierrors.Recover(&err, "PlotDecisionRegions")

	rows, cols := X.Dims()
	if rows == 0 {
		return scierrors.NewValueError("PlotDecisionRegions", "no samples to plot")
	}
	if cols != 2 {
		return scierrors.NewDimensionError("PlotDecisionRegions", 2, cols, 1)
	}
	if yRows, _ := y.Dims(); yRows != rows {
		return scierrors.NewDimensionError("PlotDecisionRegions", rows, yRows, 0)
	}
	if err := scierrors.CheckMatrix("PlotDecisionRegions", X, rows, cols, 0); err != nil {
		return err
	}
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return scierrors.NewValidationError("resolution", "must be a positive finite number", resolution)
	}

	x1 := mat.Col(nil, 0, X)
	x2 := mat.Col(nil, 1, X)
	labels := mat.Col(nil, 0, y)

	x1Min, x1Max := floats.Min(x1)-1, floats.Max(x1)+1
	x2Min, x2Max := floats.Min(x2)-1, floats.Max(x2)+1
	nx := math.Floor((x1Max-x1Min)/resolution) + 1
	ny := math.Floor((x2Max-x2Min)/resolution) + 1
	if nx < 2 || ny < 2 {
		return scierrors.NewValidationError("resolution", "coarser than the plotted range", resolution)
	}
	if nx*ny > MaxGridPoints {
		return scierrors.NewValidationError("resolution", fmt.Sprintf("mesh of %.0fx%.0f points is too fine", nx, ny), resolution)
	}
	xs := arange(x1Min, x1Max, resolution)
	ys := arange(x2Min, x2Max, resolution)

	mesh := mat.NewDense(len(xs)*len(ys), 2, nil)
	for r, yv := range ys {
		for c, xv := range xs {
			mesh.Set(r*len(xs)+c, 0, xv)
			mesh.Set(r*len(xs)+c, 1, yv)
		}
	}
	pred, err := clf.Predict(mesh)
	if err != nil {
		return scierrors.Wrap(err, "predict mesh")
	}
	predicted := mat.Col(nil, 0, pred)

	classes := uniqueSorted(labels, predicted)
	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	grid := &regionGrid{xs: xs, ys: ys, z: mat.NewDense(len(ys), len(xs), nil)}
	for r := range ys {
		for c := range xs {
			grid.z.Set(r, c, float64(index[predicted[r*len(xs)+c]]))
		}
	}

	pal := make(regionPalette, 0, len(classes)+1)
	for i := range classes {
		pal = append(pal, regionColor(i))
	}
	maxIndex := float64(len(classes) - 1)
	if len(classes) == 1 {
		pal = append(pal, regionColor(0))
		maxIndex = 1
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x1"
	p.Y.Label.Text = "x2"

	hm := plotter.NewHeatMap(grid, pal)
	hm.Min, hm.Max = 0, maxIndex
	p.Add(hm)

	for i, class := range classes {
		var pts plotter.XYs
		for j, l := range labels {
			if l == class {
				pts = append(pts, plotter.XY{X: x1[j], Y: x2[j]})
			}
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return scierrors.Wrapf(err, "scatter for class %g", class)
		}
		s.Color = classColor(i)
		s.Shape = classGlyphs[i%len(classGlyphs)]
		s.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("class %g", class), s)
	}

	return save(p, path)
}

// PlotCostHistory draws costs against the iteration number, starting at 1.
func PlotCostHistory(costs []float64, title, path string) (err error) {
	defer scierrors.Recover(&err, "PlotCostHistory")

	if len(costs) == 0 {
		return scierrors.NewValueError("PlotCostHistory", "no costs to plot")
	}
	if err := scierrors.CheckNumericalStability("PlotCostHistory", costs, len(costs)); err != nil {
		return err
	}

	pts := make(plotter.XYs, len(costs))
	for i, c := range costs {
		pts[i] = plotter.XY{X: float64(i + 1), Y: c}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return scierrors.Wrap(err, "cost line")
	}
	line.Color = classColor(1)
	line.Width = vg.Points(1.5)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "cost"
	p.Add(line, plotter.NewGrid())

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return scierrors.Wrapf(err, "save plot %s", path)
	}
	log.GetLoggerWithName("plotting").Debug("plot saved", log.OutputPathKey, path)
	return nil
}

var _ palette.Palette = regionPalette(nil)
