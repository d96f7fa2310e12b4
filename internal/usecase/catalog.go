package usecase

import (
	"context"
	"fmt"

	"StockDash/internal/domain/models"
	drepo "StockDash/internal/domain/repository"
)

// Catalog is one immutable catalog load.
type Catalog struct {
	instruments []models.Instrument
	byID        map[int]int
}

// BuildCatalog assigns dense 1-based ids in listing order.
func BuildCatalog(entries []models.CatalogEntry) *Catalog {
	c := &Catalog{
		instruments: make([]models.Instrument, 0, len(entries)),
		byID:        make(map[int]int, len(entries)),
	}
	for i, e := range entries {
		inst := models.Instrument{
			ID:       i + 1,
			Symbol:   e.Symbol,
			Name:     e.Name,
			Exchange: e.StockExchange.Name,
			Country:  e.StockExchange.CountryCode,
		}
		c.byID[inst.ID] = i
		c.instruments = append(c.instruments, inst)
	}
	return c
}

// LoadCatalog fetches the listing from src and builds a Catalog.
func LoadCatalog(ctx context.Context, src drepo.CatalogSource) (*Catalog, error) {
	entries, err := src.Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return BuildCatalog(entries), nil
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.instruments)
}

func (c *Catalog) Get(id int) (models.Instrument, bool) {
	if c == nil {
		return models.Instrument{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return models.Instrument{}, false
	}
	return c.instruments[i], true
}

// Resolve returns the selected instruments in catalog order. Unknown ids are
// ignored.
func (c *Catalog) Resolve(ids []int) []models.Instrument {
	if c == nil || len(ids) == 0 {
		return nil
	}
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]models.Instrument, 0, len(ids))
	for _, inst := range c.instruments {
		if _, ok := want[inst.ID]; ok {
			out = append(out, inst)
		}
	}
	return out
}

// Page returns one 1-based page of instruments and the total count.
func (c *Catalog) Page(page, size int) ([]models.Instrument, int) {
	total := c.Len()
	if page < 1 || size < 1 {
		return []models.Instrument{}, total
	}
	start := (page - 1) * size
	if start >= total {
		return []models.Instrument{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return append([]models.Instrument(nil), c.instruments[start:end]...), total
}
