package render

import (
	"bytes"
	"image/png"
	"testing"

	"StockDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPNG(t *testing.T) {
	in := models.ChartInput{
		Metric:     models.MetricClose,
		Title:      "Close Price",
		Categories: []string{"1/2/2024", "1/3/2024", "1/4/2024"},
		Series: []models.ChartSeries{
			{ID: "AAPL", Label: "AAPL (close)", Color: "#173A5E", Values: []float64{185.64, 184.25, 181.91}},
			{ID: "TSLA", Label: "TSLA (close)", Color: "#00A3E0", Values: []float64{}},
			{ID: "MSFT", Label: "MSFT (close)", Values: []float64{370.87, 370.6}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPNG(0, 0).Render(&buf, in, 640, 320))

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 320, cfg.Height)
}

func TestRenderDefaultSize(t *testing.T) {
	in := models.ChartInput{
		Title:      "Open Price",
		Categories: []string{"1/2/2024"},
		Series:     []models.ChartSeries{{ID: "AAPL", Label: "AAPL (open)", Values: []float64{187.15}}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPNG(800, 300).Render(&buf, in, 0, 0), "single flat point still renders")

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestRenderNothing(t *testing.T) {
	var buf bytes.Buffer

	err := NewPNG(0, 0).Render(&buf, models.ChartInput{}, 0, 0)
	assert.ErrorIs(t, err, models.ErrNothingToRender)

	err = NewPNG(0, 0).Render(&buf, models.ChartInput{
		Series: []models.ChartSeries{{ID: "TSLA", Values: []float64{}}},
	}, 0, 0)
	assert.ErrorIs(t, err, models.ErrNothingToRender)
	assert.Zero(t, buf.Len())
}

func TestCategoryTicks(t *testing.T) {
	cats := make([]string, 25)
	for i := range cats {
		cats[i] = string(rune('a' + i))
	}

	ticks := categoryTicks(cats, 25)
	require.Len(t, ticks, 9)
	assert.Equal(t, "a", ticks[0].Label)
	assert.Equal(t, float64(3), ticks[1].Value)

	assert.Len(t, categoryTicks(cats, 4), 4)
	assert.Nil(t, categoryTicks(nil, 4))
}
