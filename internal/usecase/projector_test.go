package usecase

import (
	"encoding/json"
	"testing"

	"StockDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundleOf(series map[string][]models.PricePoint, order ...string) *models.SeriesBundle {
	b := models.NewSeriesBundle()
	for _, s := range order {
		b.Set(s, series[s])
	}
	return b
}

func TestProjectIsPureAndKeepsLengths(t *testing.T) {
	b := bundleOf(map[string][]models.PricePoint{
		"AAPL": points(5, 100),
		"TSLA": points(3, 200),
		"MSFT": nil,
	}, "AAPL", "TSLA", "MSFT")
	p := NewProjector("1/2/2006", []string{"#a", "#b"})

	open1, err := p.Project(b, models.MetricOpen)
	require.NoError(t, err)
	closeIn, err := p.Project(b, models.MetricClose)
	require.NoError(t, err)
	open2, err := p.Project(b, models.MetricOpen)
	require.NoError(t, err)

	assert.Equal(t, open1, open2)

	for _, chart := range []models.ChartInput{open1, closeIn} {
		require.Len(t, chart.Series, 3)
		for _, s := range chart.Series {
			pts, _ := b.Series(s.ID)
			assert.Len(t, s.Values, len(pts), s.ID)
		}
	}

	assert.Equal(t, []float64{100, 101, 102, 103, 104}, open1.Series[0].Values)
	assert.Equal(t, []float64{101, 102, 103, 104, 105}, closeIn.Series[0].Values)
}

func TestProjectLabelsColorsAndAxis(t *testing.T) {
	b := bundleOf(map[string][]models.PricePoint{
		"aapl": points(2, 1),
		"TSLA": points(4, 1),
		"MSFT": points(1, 1),
	}, "aapl", "TSLA", "MSFT")

	chart, err := NewProjector("1/2/2006", []string{"#a", "#b"}).Project(b, models.MetricHigh)
	require.NoError(t, err)

	assert.Equal(t, models.MetricHigh, chart.Metric)
	assert.Equal(t, "High Price", chart.Title)
	// axis from the first symbol only
	assert.Equal(t, []string{"1/1/2024", "1/2/2024"}, chart.Categories)

	// symbol is used verbatim
	assert.Equal(t, "aapl (high)", chart.Series[0].Label)
	assert.Equal(t, "aapl", chart.Series[0].ID)
	assert.Equal(t, "TSLA (high)", chart.Series[1].Label)
	assert.Equal(t, "#a", chart.Series[0].Color)
	assert.Equal(t, "#b", chart.Series[1].Color)
	assert.Equal(t, "#a", chart.Series[2].Color)
}

func TestProjectTruncatesToThreeSymbols(t *testing.T) {
	b := bundleOf(map[string][]models.PricePoint{}, "A", "B", "C", "D")
	chart, err := NewProjector("", nil).Project(b, models.MetricLow)
	require.NoError(t, err)
	require.Len(t, chart.Series, 3)
	assert.Equal(t, "C", chart.Series[2].ID)
	assert.Equal(t, "", chart.Series[0].Color)
}

func TestProjectEmptyAndNilBundle(t *testing.T) {
	p := NewProjector("", nil)
	for _, b := range []*models.SeriesBundle{nil, models.NewSeriesBundle()} {
		chart, err := p.Project(b, models.MetricOpen)
		require.NoError(t, err)

		out, err := json.Marshal(chart)
		require.NoError(t, err)
		assert.JSONEq(t, `{"metric":"open","title":"Open Price","categories":[],"series":[]}`, string(out))
	}
}

func TestProjectUnknownMetric(t *testing.T) {
	_, err := NewProjector("", nil).Project(models.NewSeriesBundle("AAPL"), models.Metric("volume"))
	assert.ErrorIs(t, err, models.ErrUnknownMetric)
}
