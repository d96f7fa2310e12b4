package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var knownPriceFields = map[string]struct{}{
	"date": {}, "open": {}, "high": {}, "low": {}, "close": {},
}

// PricePoint is one end-of-day record. Provider fields other than
// date/open/high/low/close are kept in Extra and written back unchanged.
// A null price decodes as 0.
type PricePoint struct {
	Date  string
	Open  float64
	High  float64
	Low   float64
	Close float64
	Extra map[string]json.RawMessage
}

// Value returns the field selected by m.
func (p PricePoint) Value(m Metric) float64 {
	switch m {
	case MetricHigh:
		return p.High
	case MetricLow:
		return p.Low
	case MetricClose:
		return p.Close
	default:
		return p.Open
	}
}

func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var date *string
	if v, ok := raw["date"]; ok {
		if err := json.Unmarshal(v, &date); err != nil {
			return fmt.Errorf("price point date: %w", err)
		}
	}

	prices := [4]*float64{}
	for i, key := range []string{"open", "high", "low", "close"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, &prices[i]); err != nil {
			return fmt.Errorf("price point %s: %w", key, err)
		}
	}

	*p = PricePoint{}
	if date != nil {
		p.Date = *date
	}
	for i, dst := range []*float64{&p.Open, &p.High, &p.Low, &p.Close} {
		if prices[i] != nil {
			*dst = *prices[i]
		}
	}

	for k, v := range raw {
		if _, known := knownPriceFields[k]; known {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage, len(raw))
		}
		p.Extra[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

func (p PricePoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Extra)+5)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["date"] = p.Date
	out["open"] = p.Open
	out["high"] = p.High
	out["low"] = p.Low
	out["close"] = p.Close

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
