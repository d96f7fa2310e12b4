package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SeriesBundle maps symbol to its price history and remembers the order the
// symbols were requested in. Every requested symbol has an entry; a failed
// fetch leaves it empty.
type SeriesBundle struct {
	keys   []string
	series map[string][]PricePoint
}

// NewSeriesBundle returns a bundle with an empty entry per distinct symbol.
func NewSeriesBundle(symbols ...string) *SeriesBundle {
	b := &SeriesBundle{series: make(map[string][]PricePoint, len(symbols))}
	for _, s := range symbols {
		b.Set(s, nil)
	}
	return b
}

// Set stores points for symbol, adding the key at the end if it is new.
func (b *SeriesBundle) Set(symbol string, points []PricePoint) {
	if b.series == nil {
		b.series = make(map[string][]PricePoint)
	}
	if _, ok := b.series[symbol]; !ok {
		b.keys = append(b.keys, symbol)
	}
	if points == nil {
		points = []PricePoint{}
	}
	b.series[symbol] = points
}

// Keys returns the symbols in request order.
func (b *SeriesBundle) Keys() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.keys...)
}

// Series returns the points for symbol and whether the key exists.
func (b *SeriesBundle) Series(symbol string) ([]PricePoint, bool) {
	if b == nil {
		return nil, false
	}
	pts, ok := b.series[symbol]
	return pts, ok
}

func (b *SeriesBundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// Counts returns the number of points per symbol.
func (b *SeriesBundle) Counts() map[string]int {
	out := make(map[string]int, b.Len())
	for _, k := range b.Keys() {
		out[k] = len(b.series[k])
	}
	return out
}

// MarshalJSON writes an object whose keys keep request order.
func (b *SeriesBundle) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(b.series[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order as it appears.
func (b *SeriesBundle) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("series bundle: expected object, got %v", tok)
	}

	*b = SeriesBundle{series: make(map[string][]PricePoint)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		symbol, ok := tok.(string)
		if !ok {
			return fmt.Errorf("series bundle: expected key, got %v", tok)
		}
		var pts []PricePoint
		if err := dec.Decode(&pts); err != nil {
			return fmt.Errorf("series bundle %s: %w", symbol, err)
		}
		b.Set(symbol, pts)
	}
	_, err = dec.Token()
	return err
}
