package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockDash/internal/domain/models"
	drepo "StockDash/internal/domain/repository"
	applogger "StockDash/pkg/logger"
)

const (
	subscriberBuffer = 8
	publishTimeout   = 5 * time.Second
)

// ControllerDeps are shared by every session.
type ControllerDeps struct {
	Orchestrator  *Orchestrator
	Projector     *Projector
	Publisher     drepo.BatchPublisher
	Metrics       drepo.Metrics
	Logger        *applogger.Logger
	DispatchDelay time.Duration
}

// Controller is the per-session view controller. It owns the catalog
// snapshot, selection, date range and the current bundle, and replaces each
// of them wholesale on update.
type Controller struct {
	id   string
	deps ControllerDeps
	log  *applogger.Logger

	// batches run on ctx, detached from any request
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	catalog       *Catalog
	catalogLoaded bool
	selection     []int
	overLimit     bool
	rng           models.DateRange
	validationErr string
	seq           uint64
	pending       bool
	idle          chan struct{}
	bundle        *models.SeriesBundle
	showChart     bool
	metric        models.Metric
	lastActive    time.Time
	subs          map[int]chan models.SessionState
	nextSub       int
	closed        bool
}

// NewController creates a session. A nil catalog means the load failed; the
// session works with an empty table until Reload succeeds.
func NewController(id string, catalog *Catalog, deps ControllerDeps) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	c := &Controller{
		id:            id,
		deps:          deps,
		log:           deps.Logger.With("session"),
		ctx:           ctx,
		cancel:        cancel,
		catalog:       catalog,
		catalogLoaded: catalog != nil,
		selection:     []int{},
		idle:          idle,
		metric:        models.DefaultMetric,
		lastActive:    time.Now(),
		subs:          make(map[int]chan models.SessionState),
	}
	if c.catalog == nil {
		c.catalog = BuildCatalog(nil)
	}
	return c
}

func (c *Controller) ID() string { return c.id }

// Catalog returns the current catalog snapshot.
func (c *Controller) Catalog() *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	return c.catalog
}

// Reload swaps in a fresh catalog load. Ids from the old load mean nothing in
// the new one, so the selection is cleared.
func (c *Controller) Reload(catalog *Catalog) models.SessionState {
	if catalog == nil {
		catalog = BuildCatalog(nil)
	}
	c.mu.Lock()
	c.catalog = catalog
	c.catalogLoaded = true
	c.selection = []int{}
	c.overLimit = false
	c.touch()
	st := c.stateLocked()
	c.broadcastLocked(st)
	c.mu.Unlock()
	return st
}

// Select runs a selection event through the guard.
func (c *Controller) Select(ids []int) models.SessionState {
	c.mu.Lock()
	c.selection, c.overLimit = ApplySelection(c.selection, ids)
	c.touch()
	st := c.stateLocked()
	c.broadcastLocked(st)
	c.mu.Unlock()

	if st.OverLimit {
		c.log.Debug("selection rejected", applogger.String("session", c.id), applogger.Int("proposed", len(ids)))
	}
	return st
}

// SetFrom normalizes the lower bound.
func (c *Controller) SetFrom(raw string) models.SessionState {
	return c.updateRange(func(r *models.DateRange) { r.From = NormalizeDate(raw) })
}

// SetTo normalizes the upper bound.
func (c *Controller) SetTo(raw string) models.SessionState {
	return c.updateRange(func(r *models.DateRange) { r.To = NormalizeDate(raw) })
}

func (c *Controller) updateRange(fn func(*models.DateRange)) models.SessionState {
	c.mu.Lock()
	r := c.rng
	fn(&r)
	c.rng = r
	c.touch()
	st := c.stateLocked()
	c.broadcastLocked(st)
	c.mu.Unlock()
	return st
}

// Submit validates synchronously and starts a batch in the background. It
// returns the batch number; a later submit supersedes any batch still in
// flight, whose result is then dropped.
func (c *Controller) Submit() (uint64, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, fmt.Errorf("session %s is closed: %w", c.id, models.ErrSessionNotFound)
	}
	c.touch()

	symbols, err := c.deps.Orchestrator.Prepare(c.catalog.Resolve(c.selection), c.rng)
	if err != nil {
		c.validationErr = err.Error()
		c.broadcastLocked(c.stateLocked())
		c.mu.Unlock()

		c.deps.Metrics.RecordValidationError()
		return 0, err
	}

	c.validationErr = ""
	c.seq++
	batch := c.seq
	rng := c.rng
	if !c.pending {
		c.pending = true
		c.idle = make(chan struct{})
	}
	c.wg.Add(1)
	c.broadcastLocked(c.stateLocked())
	c.mu.Unlock()

	if rng.Inverted() {
		c.log.Warn("submit with inverted date range",
			applogger.String("session", c.id),
			applogger.String("from", rng.From),
			applogger.String("to", rng.To),
		)
	}
	c.log.Info("batch dispatched",
		applogger.String("session", c.id),
		applogger.Uint64("batch", batch),
		applogger.Strings("symbols", symbols),
	)

	go c.runBatch(batch, symbols, rng)
	return batch, nil
}

func (c *Controller) runBatch(batch uint64, symbols []string, rng models.DateRange) {
	defer c.wg.Done()

	if d := c.deps.DispatchDelay; d > 0 {
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-c.ctx.Done():
			t.Stop()
		}
	}

	res := c.deps.Orchestrator.Gather(c.ctx, symbols, rng)

	c.mu.Lock()
	stale := batch != c.seq
	if !stale {
		c.bundle = res.Bundle
		c.showChart = true
		c.pending = false
		close(c.idle)
		c.broadcastLocked(c.stateLocked())
	}
	c.mu.Unlock()

	if stale {
		c.deps.Metrics.RecordStaleBatch()
		c.log.Info("stale batch dropped", applogger.String("session", c.id), applogger.Uint64("batch", batch))
	}

	c.publish(models.BatchEvent{
		SessionID:  c.id,
		Batch:      batch,
		Symbols:    symbols,
		From:       rng.From,
		To:         rng.To,
		Points:     res.Bundle.Counts(),
		Failed:     append([]string{}, res.Failed...),
		DurationMS: res.Duration.Milliseconds(),
		SettledAt:  time.Now().UTC(),
		Stale:      stale,
	})
}

func (c *Controller) publish(ev models.BatchEvent) {
	if c.deps.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := c.deps.Publisher.PublishBatch(ctx, ev); err != nil {
		c.log.Warn("batch event publish failed",
			applogger.String("session", c.id),
			applogger.Uint64("batch", ev.Batch),
			applogger.Error(err),
		)
	}
}

// Wait blocks until no batch is pending or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Bundle returns the bundle of the latest settled batch, or nil.
func (c *Controller) Bundle() *models.SeriesBundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	return c.bundle
}

// Chart projects the current bundle. An empty metric keeps the active one;
// any other value becomes the active metric. Projection never fetches.
func (c *Controller) Chart(m models.Metric) (models.ChartInput, error) {
	c.mu.Lock()
	if m == "" {
		m = c.metric
	}
	metric, err := models.ParseMetric(string(m))
	if err != nil {
		c.mu.Unlock()
		return models.ChartInput{}, err
	}
	changed := metric != c.metric
	c.metric = metric
	bundle := c.bundle
	c.touch()
	if changed {
		c.broadcastLocked(c.stateLocked())
	}
	c.mu.Unlock()

	return c.deps.Projector.Project(bundle, metric)
}

// State returns a snapshot of the session.
func (c *Controller) State() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() models.SessionState {
	return models.SessionState{
		ID:                  c.id,
		CatalogLoaded:       c.catalogLoaded,
		CatalogSize:         c.catalog.Len(),
		Selection:           append([]int{}, c.selection...),
		OverLimit:           c.overLimit,
		MultiSelectDisabled: c.overLimit,
		From:                c.rng.From,
		To:                  c.rng.To,
		ValidationError:     c.validationErr,
		Pending:             c.pending,
		Batch:               c.seq,
		ShowChart:           c.showChart,
		Metric:              c.metric,
		UpdatedAt:           c.lastActive,
	}
}

func (c *Controller) touch() {
	c.lastActive = time.Now()
}

// LastActive is the time of the last read or write.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Subscribe returns a channel of state snapshots. A slow reader loses the
// oldest snapshots, never the newest. The channel is closed by the cancel
// func or by Close.
func (c *Controller) Subscribe() (<-chan models.SessionState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan models.SessionState, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.stateLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// broadcastLocked delivers st without blocking. It is called under c.mu by
// the update that produced st, so subscribers see snapshots in update order.
func (c *Controller) broadcastLocked(st models.SessionState) {
	for _, ch := range c.subs {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

// Close cancels in-flight batches, closes subscribers and waits for the
// batch goroutines to return.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
