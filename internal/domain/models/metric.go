package models

import (
	"fmt"
	"strings"
)

// Metric selects which price field is charted.
type Metric string

const (
	MetricOpen  Metric = "open"
	MetricHigh  Metric = "high"
	MetricLow   Metric = "low"
	MetricClose Metric = "close"

	DefaultMetric = MetricOpen
)

// Metrics lists the toggles in display order.
var Metrics = []Metric{MetricOpen, MetricHigh, MetricLow, MetricClose}

// ParseMetric accepts the metric name in any case. Empty input is an error.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MetricOpen, MetricHigh, MetricLow, MetricClose:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Title is the button caption, e.g. "Close Price".
func (m Metric) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:]) + " Price"
}
