package report

import (
	"image/color"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/jasentool/jasentool/matrix"
	"github.com/jasentool/jasentool/sample"
)

// ErrNoData is returned when a chart would be drawn from nothing.
var ErrNoData = errors.New("report: nothing to plot")

var red = color.RGBA{R: 220, A: 255}

// width grows with the number of categories on the x axis.
func width(n int) vg.Length {
	w := vg.Length(n) * vg.Centimeter / 2
	if w < 6*vg.Inch {
		return 6 * vg.Inch
	}
	return w
}

func rotateX(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
}

// BarChart draws one labelled bar per count, in the given order.
func BarChart(path, title, xlabel, ylabel string, counts []sample.Count) error {
	if len(counts) == 0 {
		return ErrNoData
	}
	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	labels := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(counts)),
		Labels: make([]string, len(counts)),
	}
	for i, c := range counts {
		values[i] = float64(c.Value)
		names[i] = c.Name
		labels.XYs[i] = plotter.XY{X: float64(i), Y: float64(c.Value)}
		labels.Labels[i] = strconv.Itoa(c.Value)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel

	bars, err := plotter.NewBarChart(values, vg.Points(8))
	if err != nil {
		return errors.Wrap(err, "report: bar chart")
	}
	valueLabels, err := plotter.NewLabels(labels)
	if err != nil {
		return errors.Wrap(err, "report: bar labels")
	}
	for i := range valueLabels.TextStyle {
		valueLabels.TextStyle[i].XAlign = text.XCenter
	}
	valueLabels.Offset = vg.Point{Y: vg.Points(4)}

	p.Add(bars, valueLabels)
	p.NominalX(names...)
	rotateX(p)

	return errors.Wrapf(p.Save(width(len(counts)), 4*vg.Inch, path), "report: save %s", path)
}

// BoxPlot draws the distribution of counts. The minimum is annotated and
// every sample above threshold is labelled in red. A negative threshold
// labels nothing.
func BoxPlot(path, title, ylabel string, counts []sample.Count, threshold int) error {
	if len(counts) == 0 {
		return ErrNoData
	}
	values := make(plotter.Values, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Value)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel

	box, err := plotter.NewBoxPlot(vg.Points(40), 0, values)
	if err != nil {
		return errors.Wrap(err, "report: box plot")
	}
	p.Add(box)

	annotations := plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0, Y: box.Min}},
		Labels: []string{"min: " + strconv.FormatFloat(box.Min, 'f', -1, 64)},
	}
	if threshold >= 0 {
		for _, c := range sample.Above(counts, threshold) {
			annotations.XYs = append(annotations.XYs, plotter.XY{X: 0, Y: float64(c.Value)})
			annotations.Labels = append(annotations.Labels, c.Name)
		}
	}
	labels, err := plotter.NewLabels(annotations)
	if err != nil {
		return errors.Wrap(err, "report: box labels")
	}
	labels.Offset = vg.Point{X: vg.Points(24)}
	for i := 1; i < len(labels.TextStyle); i++ {
		labels.TextStyle[i].Color = red
	}
	p.Add(labels)
	p.NominalX(title)

	return errors.Wrapf(p.Save(4*vg.Inch, 6*vg.Inch, path), "report: save %s", path)
}

// cells adapts a matrix to plotter.GridXYZ. Empty cells are NaN.
type cells struct {
	m *matrix.Matrix
}

func (g cells) Dims() (c, r int) { return g.m.Len(), g.m.Len() }
func (g cells) X(c int) float64  { return float64(c) }
func (g cells) Y(r int) float64  { return float64(r) }

func (g cells) Z(c, r int) float64 {
	cell := g.m.At(r, c)
	if !cell.Valid {
		return math.NaN()
	}
	return float64(cell.Value)
}

// divergingLimit is the colour scale bound that centres zero for values in
// min..max.
func divergingLimit(min, max float64) float64 {
	limit := math.Max(math.Abs(min), math.Abs(max))
	if limit == 0 {
		return 1
	}
	return limit
}

// Heatmap draws m with one row and column per sample. Colours diverge from
// white at zero, blue below and red above, on limits symmetric about zero.
func Heatmap(path, title string, m *matrix.Matrix) error {
	if m.Len() == 0 {
		return ErrNoData
	}
	grid := cells{m}
	min, max := math.Inf(1), math.Inf(-1)
	for i := 0; i < m.Len(); i++ {
		for j := 0; j < m.Len(); j++ {
			if c := m.At(i, j); c.Valid {
				min = math.Min(min, float64(c.Value))
				max = math.Max(max, float64(c.Value))
			}
		}
	}
	if math.IsInf(min, 1) {
		return ErrNoData
	}

	limit := divergingLimit(min, max)
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-limit)
	cmap.SetMax(limit)

	hm := plotter.NewHeatMap(grid, cmap.Palette(33))
	hm.Min, hm.Max = -limit, limit
	hm.NaN = color.White

	p := plot.New()
	p.Title.Text = title
	p.Add(hm)
	p.NominalX(m.IDs...)
	p.NominalY(m.IDs...)
	rotateX(p)

	side := width(m.Len())
	return errors.Wrapf(p.Save(side+vg.Inch, side, path), "report: save %s", path)
}
