package models

import "time"

// DateRange holds the two normalized bounds; "" means unset.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Complete reports whether both bounds are set.
func (r DateRange) Complete() bool {
	return r.From != "" && r.To != ""
}

// Inverted reports from > to. Both bounds are YYYY-MM-DD, so string order is
// date order.
func (r DateRange) Inverted() bool {
	return r.Complete() && r.From > r.To
}

// SessionState is the read model of one dashboard session.
type SessionState struct {
	ID                  string    `json:"id"`
	CatalogLoaded       bool      `json:"catalog_loaded"`
	CatalogSize         int       `json:"catalog_size"`
	Selection           []int     `json:"selection"`
	OverLimit           bool      `json:"over_limit"`
	MultiSelectDisabled bool      `json:"multi_select_disabled"`
	From                string    `json:"from"`
	To                  string    `json:"to"`
	ValidationError     string    `json:"validation_error,omitempty"`
	Pending             bool      `json:"pending"`
	Batch               uint64    `json:"batch"`
	ShowChart           bool      `json:"show_chart"`
	Metric              Metric    `json:"metric"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// BatchEvent describes one settled fetch batch.
type BatchEvent struct {
	SessionID  string         `json:"session_id"`
	Batch      uint64         `json:"batch"`
	Symbols    []string       `json:"symbols"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Points     map[string]int `json:"points"`
	Failed     []string       `json:"failed"`
	DurationMS int64          `json:"duration_ms"`
	SettledAt  time.Time      `json:"settled_at"`
	Stale      bool           `json:"stale"`
}
