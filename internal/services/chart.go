package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/stitts-dev/match-explainer/internal/metrics"
	"github.com/stitts-dev/match-explainer/internal/models"
)

// ChartStat is one plotted statistic
type ChartStat struct {
	Key   string
	Label string
}

// ChartStats are plotted left to right in this order
var ChartStats = []ChartStat{
	{Key: "goalsScored", Label: "Goals scored"},
	{Key: "goalsConceded", Label: "Goals conceded"},
	{Key: "possession", Label: "Possession"},
	{Key: "shotsOnTarget", Label: "Shots on target"},
	{Key: "passingAccuracy", Label: "Passing accuracy"},
}

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
	chartDPI    = 100
	barWidth    = vg.Length(28)
)

var (
	team1Color    = color.RGBA{R: 0x36, G: 0xa2, B: 0xeb, A: 0xcc}
	team2Color    = color.RGBA{R: 0xff, G: 0x63, B: 0x84, A: 0xcc}
	foreground    = color.White
	gridLineColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x4d}
)

// ChartRenderer draws the team comparison bar chart
type ChartRenderer struct {
	logger *logrus.Logger
}

// NewChartRenderer creates a new chart renderer
func NewChartRenderer(logger *logrus.Logger) *ChartRenderer {
	return &ChartRenderer{logger: logger}
}

// Render returns a PNG comparing both teams. A missing team, name or plotted
// statistic yields a *RenderError.
func (r *ChartRenderer) Render(req *models.ChartRequest) ([]byte, error) {
	if req == nil || req.Team1 == nil {
		return nil, &RenderError{Reason: "missing team1"}
	}
	if req.Team2 == nil {
		return nil, &RenderError{Reason: "missing team2"}
	}

	values1, err := chartValues("team1", req.Team1)
	if err != nil {
		return nil, err
	}
	values2, err := chartValues("team2", req.Team2)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	applyDarkTheme(p)
	p.Title.Text = "Statistics comparison"

	bars1, err := teamBars(values1, team1Color, -barWidth/2)
	if err != nil {
		return nil, &RenderError{Reason: "team1 bars", Cause: err}
	}
	bars2, err := teamBars(values2, team2Color, barWidth/2)
	if err != nil {
		return nil, &RenderError{Reason: "team2 bars", Cause: err}
	}

	labels1, err := valueLabels(values1, -barWidth/2)
	if err != nil {
		return nil, &RenderError{Reason: "team1 labels", Cause: err}
	}
	labels2, err := valueLabels(values2, barWidth/2)
	if err != nil {
		return nil, &RenderError{Reason: "team2 labels", Cause: err}
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = gridLineColor
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(grid, bars1, bars2, labels1, labels2)
	p.Legend.Add(req.Team1.Name, bars1)
	p.Legend.Add(req.Team2.Name, bars2)

	names := make([]string, len(ChartStats))
	for i, stat := range ChartStats {
		names[i] = stat.Label
	}
	p.NominalX(names...)

	// headroom for the value labels
	p.Y.Min = math.Min(0, math.Min(floats.Min(values1), floats.Min(values2)))
	p.Y.Max = math.Max(floats.Max(values1), floats.Max(values2)) * 1.15
	if p.Y.Max <= p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(chartWidth, chartHeight),
		vgimg.UseDPI(chartDPI),
		vgimg.UseBackgroundColor(color.Transparent),
	)
	p.Draw(draw.New(canvas))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(&buf); err != nil {
		return nil, &RenderError{Reason: "png encoding", Cause: err}
	}

	metrics.ChartsRendered.Inc()
	r.logger.WithFields(logrus.Fields{
		"team1": req.Team1.Name,
		"team2": req.Team2.Name,
		"bytes": buf.Len(),
	}).Debug("Chart rendered")

	return buf.Bytes(), nil
}

// EncodeDataURI wraps PNG bytes for direct use in an <img> src
func EncodeDataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func chartValues(side string, team *models.ChartTeam) (plotter.Values, error) {
	if team.Name == "" {
		return nil, &RenderError{Reason: fmt.Sprintf("missing %s.name", side)}
	}
	if team.Stats == nil {
		return nil, &RenderError{Reason: fmt.Sprintf("missing %s.stats", side)}
	}

	values := make(plotter.Values, len(ChartStats))
	for i, stat := range ChartStats {
		v, ok := team.Stats[stat.Key]
		if !ok {
			return nil, &RenderError{Reason: fmt.Sprintf("missing %s.stats.%s", side, stat.Key)}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &RenderError{Reason: fmt.Sprintf("invalid %s.stats.%s", side, stat.Key)}
		}
		values[i] = v
	}
	return values, nil
}

func teamBars(values plotter.Values, c color.Color, offset vg.Length) (*plotter.BarChart, error) {
	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return nil, err
	}
	bars.Color = c
	bars.LineStyle.Width = 0
	bars.Offset = offset
	return bars, nil
}

func valueLabels(values plotter.Values, offset vg.Length) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		texts[i] = strconv.FormatFloat(v, 'f', 1, 64)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = foreground
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YBottom
		labels.TextStyle[i].Font.Size = vg.Points(9)
	}
	labels.Offset = vg.Point{X: offset, Y: vg.Points(2)}
	return labels, nil
}

func applyDarkTheme(p *plot.Plot) {
	p.BackgroundColor = color.Transparent

	p.Title.TextStyle.Color = foreground
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Legend.TextStyle.Color = foreground
	p.Legend.Top = true

	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.LineStyle.Color = foreground
		axis.Label.TextStyle.Color = foreground
		axis.Tick.Label.Color = foreground
		axis.Tick.LineStyle.Color = foreground
	}
}
