package usecase

import (
	"fmt"

	"StockDash/internal/domain/models"
	"StockDash/pkg/util"
)

// Projector turns a SeriesBundle into chart input for one metric.
type Projector struct {
	dateLayout string
	palette    []string
}

func NewProjector(dateLayout string, palette []string) *Projector {
	if dateLayout == "" {
		dateLayout = "1/2/2006"
	}
	return &Projector{dateLayout: dateLayout, palette: append([]string(nil), palette...)}
}

// Project is pure: the same bundle and metric always give the same output.
//
// The category axis comes from the first displayed symbol only. Symbols with
// a different trading calendar are drawn against it anyway.
func (p *Projector) Project(b *models.SeriesBundle, m models.Metric) (models.ChartInput, error) {
	metric, err := models.ParseMetric(string(m))
	if err != nil {
		return models.ChartInput{}, err
	}

	out := models.ChartInput{
		Metric:     metric,
		Title:      metric.Title(),
		Categories: []string{},
		Series:     []models.ChartSeries{},
	}

	keys := b.Keys()
	if len(keys) > MaxSelection {
		keys = keys[:MaxSelection]
	}

	for i, symbol := range keys {
		pts, _ := b.Series(symbol)

		if i == 0 {
			for _, pt := range pts {
				out.Categories = append(out.Categories, util.FormatDate(pt.Date, p.dateLayout))
			}
		}

		values := make([]float64, len(pts))
		for j, pt := range pts {
			values[j] = pt.Value(metric)
		}

		out.Series = append(out.Series, models.ChartSeries{
			ID:     symbol,
			Label:  fmt.Sprintf("%s (%s)", symbol, metric),
			Color:  p.color(i),
			Values: values,
		})
	}

	return out, nil
}

func (p *Projector) color(i int) string {
	if len(p.palette) == 0 {
		return ""
	}
	return p.palette[i%len(p.palette)]
}
