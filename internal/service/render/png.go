package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"StockDash/internal/domain/models"
	"StockDash/pkg/util"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	maxXTicks = 10
	minWidth  = 200
	minHeight = 150
	maxSide   = 4096
)

// PNG draws a ChartInput as a line chart with one line per series.
type PNG struct {
	width  int
	height int
}

func NewPNG(width, height int) *PNG {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 400
	}
	return &PNG{width: width, height: height}
}

// Render writes the chart to w. Non-positive width or height fall back to
// the renderer's defaults, and both are clamped to the supported bounds.
// Series without values are left out of the plot; if none has any,
// ErrNothingToRender is returned and nothing is written.
func (p *PNG) Render(w io.Writer, in models.ChartInput, width, height int) error {
	if width <= 0 {
		width = p.width
	}
	if height <= 0 {
		height = p.height
	}
	width = util.ClampInt(width, minWidth, maxSide)
	height = util.ClampInt(height, minHeight, maxSide)

	var series []chart.Series
	longest := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range in.Series {
		if len(s.Values) == 0 {
			continue
		}
		xs := make([]float64, len(s.Values))
		for i, v := range s.Values {
			xs[i] = float64(i)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if len(s.Values) > longest {
			longest = len(s.Values)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: s.Values,
			Style:   lineStyle(s.Color),
		})
	}
	if len(series) == 0 {
		return models.ErrNothingToRender
	}

	// a single point or a flat line has a zero-width range
	xMax := float64(longest - 1)
	if xMax < 1 {
		xMax = 1
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	ch := chart.Chart{
		Title:      in.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: categoryTicks(in.Categories, longest),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

func lineStyle(hex string) chart.Style {
	st := chart.Style{StrokeWidth: 2}
	if hex = strings.TrimPrefix(hex, "#"); hex != "" {
		st.StrokeColor = drawing.ColorFromHex(hex)
	}
	return st
}

// categoryTicks labels at most maxXTicks evenly spaced points of the shared
// axis. Points past the axis get no label.
func categoryTicks(categories []string, points int) []chart.Tick {
	n := len(categories)
	if n > points {
		n = points
	}
	if n == 0 {
		return nil
	}

	step := 1
	if n > maxXTicks {
		step = int(math.Ceil(float64(n) / maxXTicks))
	}
	ticks := make([]chart.Tick, 0, maxXTicks+1)
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: categories[i]})
	}
	return ticks
}
