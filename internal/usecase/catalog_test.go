package usecase

import (
	"context"
	"testing"

	"StockDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogAssignsDenseIDs(t *testing.T) {
	c := BuildCatalog(entries("AAPL", "TSLA", "MSFT"))

	require.Equal(t, 3, c.Len())
	inst, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, models.Instrument{
		ID: 2, Symbol: "TSLA", Name: "TSLA Inc", Exchange: "NASDAQ Stock Exchange", Country: "US",
	}, inst)

	_, ok = c.Get(0)
	assert.False(t, ok)
	_, ok = c.Get(4)
	assert.False(t, ok)
}

func TestCatalogResolveUsesCatalogOrder(t *testing.T) {
	c := BuildCatalog(entries("AAPL", "TSLA", "MSFT", "NVDA"))

	got := c.Resolve([]int{4, 1, 42, 3})
	syms := make([]string, len(got))
	for i, inst := range got {
		syms[i] = inst.Symbol
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, syms)
	assert.Empty(t, c.Resolve(nil))
}

func TestCatalogPage(t *testing.T) {
	c := BuildCatalog(entries("A", "B", "C", "D", "E"))

	rows, total := c.Page(1, 2)
	assert.Equal(t, 5, total)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ID)

	rows, _ = c.Page(3, 2)
	require.Len(t, rows, 1)
	assert.Equal(t, "E", rows[0].Symbol)

	rows, _ = c.Page(4, 2)
	assert.Empty(t, rows)

	rows, _ = c.Page(0, 2)
	assert.Empty(t, rows)
}

func TestLoadCatalog(t *testing.T) {
	src := &fakeCatalogSource{entries: entries("AAPL")}
	c, err := LoadCatalog(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	src.err = errUpstream
	_, err = LoadCatalog(context.Background(), src)
	assert.ErrorIs(t, err, errUpstream)
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Resolve([]int{1}))
	rows, total := c.Page(1, 10)
	assert.Empty(t, rows)
	assert.Zero(t, total)
}
