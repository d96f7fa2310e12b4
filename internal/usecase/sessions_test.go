package usecase

import (
	"context"
	"testing"
	"time"

	"StockDash/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, src *fakeCatalogSource, h *fakeHistory) *Registry {
	t.Helper()
	r := NewRegistry(src, newDeps(h, nil), 30*time.Minute)
	t.Cleanup(r.CloseAll)
	return r
}

func TestRegistryCreate(t *testing.T) {
	src := &fakeCatalogSource{entries: entries("AAPL", "TSLA")}
	r := newTestRegistry(t, src, newFakeHistory())

	c := r.Create(context.Background())
	_, err := uuid.Parse(c.ID())
	require.NoError(t, err)

	st := c.State()
	assert.True(t, st.CatalogLoaded)
	assert.Equal(t, 2, st.CatalogSize)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)

	other := r.Create(context.Background())
	assert.NotEqual(t, c.ID(), other.ID())
	assert.Equal(t, 2, src.calls)
}

func TestRegistryCreateWithFailedCatalog(t *testing.T) {
	src := &fakeCatalogSource{err: errUpstream}
	r := newTestRegistry(t, src, newFakeHistory())

	c := r.Create(context.Background())
	st := c.State()
	assert.False(t, st.CatalogLoaded)
	assert.Zero(t, st.CatalogSize)

	src.mu.Lock()
	src.err = nil
	src.entries = entries("MSFT")
	src.mu.Unlock()

	st, err := r.Reload(context.Background(), c.ID())
	require.NoError(t, err)
	assert.True(t, st.CatalogLoaded)
	assert.Equal(t, 1, st.CatalogSize)
}

func TestRegistryReloadClearsSelection(t *testing.T) {
	src := &fakeCatalogSource{entries: entries("AAPL", "TSLA")}
	r := newTestRegistry(t, src, newFakeHistory())

	c := r.Create(context.Background())
	c.Select([]int{1, 2})

	st, err := r.Reload(context.Background(), c.ID())
	require.NoError(t, err)
	assert.Empty(t, st.Selection)

	src.mu.Lock()
	src.err = errUpstream
	src.mu.Unlock()
	_, err = r.Reload(context.Background(), c.ID())
	assert.ErrorIs(t, err, errUpstream)
}

func TestRegistryGetUnknown(t *testing.T) {
	r := newTestRegistry(t, &fakeCatalogSource{}, newFakeHistory())

	_, err := r.Get("nope")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = r.Reload(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	assert.False(t, r.Delete("nope"))
}

func TestRegistryDelete(t *testing.T) {
	r := newTestRegistry(t, &fakeCatalogSource{}, newFakeHistory())
	c := r.Create(context.Background())

	assert.True(t, r.Delete(c.ID()))
	assert.Zero(t, r.Len())

	_, err := c.Submit()
	assert.Error(t, err, "deleted session is closed")
}

func TestRegistrySweep(t *testing.T) {
	h := newFakeHistory()
	release := make(chan struct{})
	defer close(release)
	h.gate["AAPL"] = release

	src := &fakeCatalogSource{entries: entries("AAPL")}
	r := newTestRegistry(t, src, h)

	idle := r.Create(context.Background())
	busy := r.Create(context.Background())
	busy.Select([]int{1})
	busy.SetFrom("2024-01-01")
	busy.SetTo("2024-01-31")
	_, err := busy.Submit()
	require.NoError(t, err)

	assert.Zero(t, r.Sweep(time.Now()), "nothing is idle yet")

	later := time.Now().Add(time.Hour)
	assert.Equal(t, 1, r.Sweep(later))
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(idle.ID())
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	_, err = r.Get(busy.ID())
	assert.NoError(t, err, "pending session survives the sweep")
}

func TestSweepJob(t *testing.T) {
	r := newTestRegistry(t, &fakeCatalogSource{}, newFakeHistory())
	r.Create(context.Background())

	var swept time.Time
	job := SweepJob{Registry: r, OnSweep: func(now time.Time) { swept = now }}

	assert.Equal(t, "session-sweep", job.Name())
	require.NoError(t, job.Run())
	assert.False(t, swept.IsZero())
	assert.Equal(t, 1, r.Len())
}
