package models

// ChartInput is what the chart widget draws: one shared category axis and
// one line per symbol.
type ChartInput struct {
	Metric     Metric        `json:"metric"`
	Title      string        `json:"title"`
	Categories []string      `json:"categories"`
	Series     []ChartSeries `json:"series"`
}

type ChartSeries struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Color  string    `json:"color"`
	Values []float64 `json:"values"`
}
